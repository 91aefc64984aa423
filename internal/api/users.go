package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
)

func (c *Client) ListUsers(ctx context.Context, page dto.PageRequest) (*dto.Page[dto.UserResponse], error) {
	return getPage[dto.UserResponse](ctx, c, "/api/users", pageQuery(page))
}

func (c *Client) GetUser(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+pathID(userID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUser sends only the non-nil fields of req.
func (c *Client) UpdateUser(ctx context.Context, userID int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodPatch, "/api/users/"+pathID(userID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+pathID(userID), nil, nil, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, userID int64, req dto.UpdatePasswordRequest) (*dto.MessageResponse, error) {
	var resp dto.MessageResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/"+pathID(userID)+"/password", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadProfilePicture streams the image as the "file" part of a multipart form.
func (c *Client) UploadProfilePicture(ctx context.Context, userID int64, filename string, image io.Reader) (*dto.UserResponse, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, image)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/users/"+pathID(userID)+"/profile-picture", nil, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp dto.UserResponse
	if err := c.send(req, &resp); err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("upload profile picture: %w", err)
	}
	return &resp, nil
}

func (c *Client) DeleteProfilePicture(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := c.do(ctx, http.MethodDelete, "/api/users/"+pathID(userID)+"/profile-picture", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
