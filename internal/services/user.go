package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

// MaxProfilePictureSize bounds uploaded profile pictures.
const MaxProfilePictureSize = 5 << 20

// UploadsURLPrefix is the URL path under which the upload directory is served.
const UploadsURLPrefix = "/uploads"

var (
	errUserNotFound  = response.NewNotFound("user not found")
	errNotSelf       = response.NewForbidden("you can only change your own account")
	errWrongPassword = response.NewBadRequest("current password is incorrect")
)

var pictureExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type UserService struct {
	db        *gorm.DB
	uploadDir string
}

func NewUserService(db *gorm.DB, uploadDir string) *UserService {
	return &UserService{db: db, uploadDir: uploadDir}
}

func (s *UserService) List(page dto.PageRequest) (*dto.Page[dto.UserResponse], error) {
	return findPage(s.db.Model(&records.User{}), page, "id", userResponse)
}

func (s *UserService) GetByID(id uint) (*dto.UserResponse, error) {
	user, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}
	resp := userResponse(user)
	return &resp, nil
}

func (s *UserService) find(db *gorm.DB, id uint) (*records.User, error) {
	var user records.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update applies the non-nil fields of req. Changing the email clears its
// verified flag.
func (s *UserService) Update(actorID, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actorID != id {
		return nil, errNotSelf
	}
	user, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			var count int64
			if err := s.db.Model(&records.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, response.NewConflict("email already registered")
			}
			updates["email"] = email
			updates["email_verified"] = false
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes the account together with the projects it owns.
func (s *UserService) Delete(actorID, id uint) error {
	if actorID != id {
		return errNotSelf
	}
	user, err := s.find(s.db, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&records.Project{}).Select("id").Where("owner_id = ?", id)
		if err := tx.Where("project_id IN (?)", owned).Delete(&records.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN (?)", owned).Delete(&records.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&records.Project{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&records.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&records.Task{}).Where("assignee_id = ?", id).Update("assignee_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&records.ActionToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&records.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.removePicture(user.ProfilePicture)
	logger.Info().Uint("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) UpdatePassword(actorID, id uint, req *dto.UpdatePasswordRequest) error {
	if actorID != id {
		return errNotSelf
	}
	user, err := s.find(s.db, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(req.CurrentPassword, user.Password) {
		return errWrongPassword
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password", hash).Error
}

// SetProfilePicture stores an uploaded image and points the user at it.
// Only PNG, JPEG, GIF and WebP images up to MaxProfilePictureSize are accepted.
func (s *UserService) SetProfilePicture(actorID, id uint, image io.Reader) (*dto.UserResponse, error) {
	if actorID != id {
		return nil, errNotSelf
	}
	user, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(image, MaxProfilePictureSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, response.NewBadRequest("file is empty")
	}
	if len(data) > MaxProfilePictureSize {
		return nil, response.NewBadRequest("file is too large")
	}

	ext, ok := pictureExtensions[http.DetectContentType(data)]
	if !ok {
		return nil, response.NewBadRequest("file must be a PNG, JPEG, GIF or WebP image")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("user-%d%s", id, ext)
	if err := writeFileAtomic(filepath.Join(s.uploadDir, name), data); err != nil {
		return nil, err
	}

	picture := path.Join(UploadsURLPrefix, name)
	if user.ProfilePicture != picture {
		s.removePicture(user.ProfilePicture)
	}
	if err := s.db.Model(user).Update("profile_picture", picture).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

func (s *UserService) DeleteProfilePicture(actorID, id uint) (*dto.UserResponse, error) {
	if actorID != id {
		return nil, errNotSelf
	}
	user, err := s.find(s.db, id)
	if err != nil {
		return nil, err
	}
	if user.ProfilePicture == "" {
		return s.GetByID(id)
	}

	if err := s.db.Model(user).Update("profile_picture", "").Error; err != nil {
		return nil, err
	}
	s.removePicture(user.ProfilePicture)
	return s.GetByID(id)
}

func (s *UserService) removePicture(picture string) {
	name, ok := strings.CutPrefix(picture, UploadsURLPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return
	}
	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("file", name).Msg("failed to remove profile picture")
	}
}

func writeFileAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
