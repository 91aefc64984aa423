package api

import (
	"context"
	"net/http"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
)

func (c *Client) CreateProject(ctx context.Context, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	var resp dto.ProjectResponse
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetProject(ctx context.Context, projectID int64) (*dto.ProjectResponse, error) {
	var resp dto.ProjectResponse
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+pathID(projectID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProject(ctx context.Context, projectID int64, req dto.ProjectRequest) (*dto.ProjectResponse, error) {
	var resp dto.ProjectResponse
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+pathID(projectID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+pathID(projectID), nil, nil, nil)
}

// ListOwnedProjects returns one page of the projects created by userID.
func (c *Client) ListOwnedProjects(ctx context.Context, userID int64, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error) {
	return getPage[dto.ProjectResponse](ctx, c, "/api/projects/owner/"+pathID(userID), pageQuery(page))
}

// ListMemberProjects returns one page of the projects userID was added to.
func (c *Client) ListMemberProjects(ctx context.Context, userID int64, page dto.PageRequest) (*dto.Page[dto.ProjectResponse], error) {
	return getPage[dto.ProjectResponse](ctx, c, "/api/projects/member/"+pathID(userID), pageQuery(page))
}

func (c *Client) AddProjectMember(ctx context.Context, projectID int64, req dto.AddMemberRequest) (*dto.ProjectMemberResponse, error) {
	var resp dto.ProjectMemberResponse
	if err := c.do(ctx, http.MethodPost, "/api/projects/"+pathID(projectID)+"/members", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListProjectMembers(ctx context.Context, projectID int64, page dto.PageRequest) (*dto.Page[dto.ProjectMemberResponse], error) {
	return getPage[dto.ProjectMemberResponse](ctx, c, "/api/projects/"+pathID(projectID)+"/members", pageQuery(page))
}

func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+pathID(projectID)+"/members/"+pathID(userID), nil, nil, nil)
}
