package handlers

import (
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/middleware"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/services"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProjectMemberHandler struct {
	projectService *services.ProjectService
}

func NewProjectMemberHandler(projectService *services.ProjectService) *ProjectMemberHandler {
	return &ProjectMemberHandler{projectService: projectService}
}

// POST /api/projects/:id/members
func (h *ProjectMemberHandler) Add(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.projectService.AddMember(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// GET /api/projects/:id/members
func (h *ProjectMemberHandler) List(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	resp, err := h.projectService.ListMembers(middleware.GetUserID(c), projectID, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// DELETE /api/projects/:id/members/:userId
func (h *ProjectMemberHandler) Remove(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(middleware.GetUserID(c), projectID, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
