package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/session"
)

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*dto.MessageResponse, error) {
	var resp dto.MessageResponse
	req := dto.ForgotPasswordRequest{Email: email}
	if err := c.do(ctx, http.MethodPost, "/api/auth/forgot-password", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	var resp dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/reset-password", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, error) {
	var resp dto.MessageResponse
	q := url.Values{"token": []string{token}}
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify-email", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignIn logs in and stores the returned credentials in the session.
func SignIn(ctx context.Context, c *Client, sess *session.Manager, email, password string, rememberMe bool) (*dto.AuthResponse, error) {
	resp, err := c.Login(ctx, dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := sess.SignIn(ctx, credentials(resp, rememberMe)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return resp, nil
}

// SignUp registers a new account and signs it in.
func SignUp(ctx context.Context, c *Client, sess *session.Manager, req dto.RegisterRequest, rememberMe bool) (*dto.AuthResponse, error) {
	resp, err := c.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := sess.SignIn(ctx, credentials(resp, rememberMe)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return resp, nil
}

func credentials(resp *dto.AuthResponse, rememberMe bool) session.Credentials {
	return session.Credentials{
		UserID:     resp.UserID,
		Email:      resp.Email,
		FirstName:  resp.FirstName,
		LastName:   resp.LastName,
		Token:      resp.Token,
		RememberMe: rememberMe,
	}
}
