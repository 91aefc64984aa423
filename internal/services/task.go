package services

import (
	"errors"
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"gorm.io/gorm"
)

var (
	errTaskNotFound         = response.NewNotFound("task not found")
	errAssigneeNotInProject = response.NewBadRequest("assignee is not a member of the project")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) Create(actorID uint, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	project, err := accessibleProject(s.db, uint(req.ProjectID), actorID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.checkAssignee(project, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	task := records.Task{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    taskPriority(req.Priority),
		Status:      taskStatus(req.Status),
		AssigneeID:  assignee,
		CreatorID:   actorID,
		DueDate:     req.DueDate,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	resp := taskResponse(&task)
	return &resp, nil
}

func (s *TaskService) GetByID(actorID, id uint) (*dto.TaskResponse, error) {
	task, _, err := s.accessibleTask(actorID, id)
	if err != nil {
		return nil, err
	}
	resp := taskResponse(task)
	return &resp, nil
}

// Update replaces every field of the task. Moving a task to another project
// requires access to both.
func (s *TaskService) Update(actorID, id uint, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task, project, err := s.accessibleTask(actorID, id)
	if err != nil {
		return nil, err
	}
	if uint(req.ProjectID) != task.ProjectID {
		if project, err = accessibleProject(s.db, uint(req.ProjectID), actorID); err != nil {
			return nil, err
		}
	}
	assignee, err := s.checkAssignee(project, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(task).Updates(map[string]interface{}{
		"project_id":  project.ID,
		"title":       strings.TrimSpace(req.Title),
		"description": req.Description,
		"priority":    taskPriority(req.Priority),
		"status":      taskStatus(req.Status),
		"assignee_id": assignee,
		"due_date":    req.DueDate,
	}).Error; err != nil {
		return nil, err
	}
	return s.GetByID(actorID, id)
}

func (s *TaskService) UpdateStatus(actorID, id uint, status string) (*dto.TaskResponse, error) {
	task, _, err := s.accessibleTask(actorID, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(task).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.GetByID(actorID, id)
}

// Delete is allowed for the task's creator and the project owner.
func (s *TaskService) Delete(actorID, id uint) error {
	task, project, err := s.accessibleTask(actorID, id)
	if err != nil {
		return err
	}
	if task.CreatorID != actorID && project.OwnerID != actorID {
		return response.NewForbidden("only the task creator or project owner can delete it")
	}
	return s.db.Delete(&records.Task{}, id).Error
}

// List pages through the tasks of every project the actor can see.
func (s *TaskService) List(actorID uint, filter dto.TaskFilter, page dto.PageRequest) (*dto.Page[dto.TaskResponse], error) {
	owned, member := visibleProjectIDs(s.db, actorID)
	query := s.db.Model(&records.Task{}).Where("project_id IN (?) OR project_id IN (?)", owned, member)

	if filter.ProjectID > 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.AssigneeID > 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	return findPage(query, page, "created_at DESC, id DESC", taskResponse)
}

func (s *TaskService) accessibleTask(actorID, id uint) (*records.Task, *records.Project, error) {
	var task records.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errTaskNotFound
		}
		return nil, nil, err
	}
	project, err := accessibleProject(s.db, task.ProjectID, actorID)
	if err != nil {
		return nil, nil, err
	}
	return &task, project, nil
}

// checkAssignee accepts the project owner or one of its members.
func (s *TaskService) checkAssignee(project *records.Project, assigneeID *int64) (*uint, error) {
	if assigneeID == nil || *assigneeID <= 0 {
		return nil, nil
	}
	id := uint(*assigneeID)
	if id == project.OwnerID {
		return &id, nil
	}
	ok, err := isMember(s.db, project.ID, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errAssigneeNotInProject
	}
	return &id, nil
}

func taskPriority(p string) string {
	if p == "" {
		return records.PriorityMedium
	}
	return p
}

func taskStatus(st string) string {
	if st == "" {
		return records.TaskStatusTodo
	}
	return st
}
