// Package dto holds the JSON shapes exchanged with the remote project service.
package dto

import "time"

// Page is the envelope returned by every list endpoint.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Last          bool  `json:"last"`
}

// NewPage builds an envelope for one slice of a larger collection.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          page+1 >= totalPages,
	}
}

// PageRequest selects a page of a list endpoint. Page is zero-based.
type PageRequest struct {
	Page int `form:"page" json:"page"`
	Size int `form:"size" json:"size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps the request into the accepted range.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	return r
}

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required" validate:"required"`
	LastName  string `json:"last_name" binding:"required" validate:"required"`
	Email     string `json:"email" binding:"required,email" validate:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72" validate:"required,min=6,max=72"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required" validate:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72" validate:"required,min=6,max=72"`
}

// --- Users ---

type UserResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	EmailVerified  bool      `json:"email_verified"`
	CreatedAt      time.Time `json:"created_at"`
}

// FullName joins first and last name the way member rows display them.
func (u UserResponse) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email" validate:"omitempty,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required" validate:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=72" validate:"required,min=6,max=72"`
}

// --- Projects ---

type ProjectRequest struct {
	Title       string     `json:"title" binding:"required" validate:"required,max=200"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=created in_progress completed" validate:"omitempty,oneof=created in_progress completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	MemberIDs   []int64    `json:"member_ids"`
}

type ProjectResponse struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	OwnerID     int64            `json:"owner_id"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Members     []MemberResponse `json:"members"`
}

// MemberResponse is a project member as embedded in project responses.
type MemberResponse struct {
	UserID         int64  `json:"user_id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type AddMemberRequest struct {
	UserID int64  `json:"user_id" binding:"required" validate:"required"`
	Role   string `json:"role"`
}

type ProjectMemberResponse struct {
	ProjectID int64        `json:"project_id"`
	User      UserResponse `json:"user"`
	Role      string       `json:"role"`
	JoinedAt  time.Time    `json:"joined_at"`
}

// --- Tasks ---

type TaskRequest struct {
	ProjectID   int64      `json:"project_id" binding:"required" validate:"required"`
	Title       string     `json:"title" binding:"required" validate:"required,max=200"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in_progress done" validate:"omitempty,oneof=todo in_progress done"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

type TaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in_progress done" validate:"required,oneof=todo in_progress done"`
}

type TaskResponse struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	CreatorID   int64      `json:"creator_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskFilter narrows the task list; zero values are ignored.
type TaskFilter struct {
	ProjectID  int64  `form:"project_id"`
	AssigneeID int64  `form:"assignee_id"`
	Status     string `form:"status"`
	Query      string `form:"q"`
}
