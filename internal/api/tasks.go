package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
)

func (c *Client) CreateTask(ctx context.Context, req dto.TaskRequest) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTask(ctx context.Context, taskID int64) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks/"+pathID(taskID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID int64, req dto.TaskRequest) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+pathID(taskID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (*dto.TaskResponse, error) {
	var resp dto.TaskResponse
	req := dto.TaskStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+pathID(taskID)+"/status", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+pathID(taskID), nil, nil, nil)
}

// ListTasks returns one page of tasks matching filter; zero filter fields are omitted.
func (c *Client) ListTasks(ctx context.Context, filter dto.TaskFilter, page dto.PageRequest) (*dto.Page[dto.TaskResponse], error) {
	q := pageQuery(page)
	setIf(q, "project_id", filter.ProjectID)
	setIf(q, "assignee_id", filter.AssigneeID)
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}
	return getPage[dto.TaskResponse](ctx, c, "/api/tasks", q)
}

func setIf(q url.Values, key string, v int64) {
	if v != 0 {
		q.Set(key, pathID(v))
	}
}
