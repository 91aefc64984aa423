package services

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/database"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

func init() {
	utils.SetJWTSecret("test-secret-for-services")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "server.db"),
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := records.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	return db
}

type sentMail struct {
	kind, to, token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordReset(to, token string) error {
	return m.record("reset", to, token)
}

func (m *recordingMailer) SendVerification(to, token string) error {
	return m.record("verify", to, token)
}

func (m *recordingMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, token: token})
	return m.err
}

func (m *recordingMailer) last(kind string) (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i], true
		}
	}
	return sentMail{}, false
}

// register creates a user through the auth service and returns its id.
func register(t *testing.T, auth *AuthService, first, email string) uint {
	t.Helper()
	resp, err := auth.Register(&dto.RegisterRequest{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return uint(resp.UserID)
}

func httpStatus(err error) int {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	if err == nil {
		return 0
	}
	return 500
}
