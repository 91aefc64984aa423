package services

import (
	"net/http"
	"testing"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
)

func TestTaskService_CreateDefaultsAndAssignee(t *testing.T) {
	f := newProjectFixture(t)
	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P", MemberIDs: []int64{int64(f.alice)}})

	task, err := f.tasks.Create(f.alice, &dto.TaskRequest{ProjectID: project.ID, Title: " Write docs "})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.Title != "Write docs" || task.Status != records.TaskStatusTodo || task.Priority != records.PriorityMedium {
		t.Errorf("Create() = %+v", task)
	}
	if task.CreatorID != int64(f.alice) {
		t.Errorf("CreatorID = %d, expected %d", task.CreatorID, f.alice)
	}

	outsider := int64(f.outsider)
	_, err = f.tasks.Create(f.owner, &dto.TaskRequest{ProjectID: project.ID, Title: "T", AssigneeID: &outsider})
	if got := httpStatus(err); got != http.StatusBadRequest {
		t.Errorf("non-member assignee status = %d, expected %d", got, http.StatusBadRequest)
	}

	owner := int64(f.owner)
	if _, err := f.tasks.Create(f.alice, &dto.TaskRequest{ProjectID: project.ID, Title: "T", AssigneeID: &owner}); err != nil {
		t.Errorf("owner as assignee error = %v", err)
	}

	if _, err := f.tasks.Create(f.outsider, &dto.TaskRequest{ProjectID: project.ID, Title: "T"}); httpStatus(err) != http.StatusForbidden {
		t.Errorf("Create() by outsider error = %v, expected 403", err)
	}
}

func TestTaskService_ListFilters(t *testing.T) {
	f := newProjectFixture(t)
	p1, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P1", MemberIDs: []int64{int64(f.alice)}})
	p2, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P2"})
	hidden, _ := f.projects.Create(f.outsider, &dto.ProjectRequest{Title: "Hidden"})

	alice := int64(f.alice)
	fixtures := []dto.TaskRequest{
		{ProjectID: p1.ID, Title: "design schema", AssigneeID: &alice},
		{ProjectID: p1.ID, Title: "write tests", Status: records.TaskStatusDone},
		{ProjectID: p2.ID, Title: "deploy"},
	}
	for i := range fixtures {
		if _, err := f.tasks.Create(f.owner, &fixtures[i]); err != nil {
			t.Fatalf("Create(%s) error = %v", fixtures[i].Title, err)
		}
	}
	if _, err := f.tasks.Create(f.outsider, &dto.TaskRequest{ProjectID: hidden.ID, Title: "secret"}); err != nil {
		t.Fatalf("Create(hidden) error = %v", err)
	}

	tests := []struct {
		name   string
		actor  uint
		filter dto.TaskFilter
		want   int64
	}{
		{"owner sees own projects", f.owner, dto.TaskFilter{}, 3},
		{"member sees shared project", f.alice, dto.TaskFilter{}, 2},
		{"by project", f.owner, dto.TaskFilter{ProjectID: p2.ID}, 1},
		{"by assignee", f.owner, dto.TaskFilter{AssigneeID: alice}, 1},
		{"by status", f.owner, dto.TaskFilter{Status: records.TaskStatusDone}, 1},
		{"by text", f.owner, dto.TaskFilter{Query: "write"}, 1},
		{"hidden project stays hidden", f.owner, dto.TaskFilter{ProjectID: hidden.ID}, 0},
		{"outsider", f.outsider, dto.TaskFilter{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.tasks.List(tt.actor, tt.filter, dto.PageRequest{})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if page.TotalElements != tt.want {
				t.Errorf("TotalElements = %d, expected %d", page.TotalElements, tt.want)
			}
		})
	}
}

func TestTaskService_UpdateStatusAndDelete(t *testing.T) {
	f := newProjectFixture(t)
	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P", MemberIDs: []int64{int64(f.alice), int64(f.bob)}})
	task, _ := f.tasks.Create(f.alice, &dto.TaskRequest{ProjectID: project.ID, Title: "T"})
	id := uint(task.ID)

	updated, err := f.tasks.UpdateStatus(f.bob, id, records.TaskStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != records.TaskStatusInProgress {
		t.Errorf("Status = %q, expected %q", updated.Status, records.TaskStatusInProgress)
	}

	bob := int64(f.bob)
	full, err := f.tasks.Update(f.alice, id, &dto.TaskRequest{ProjectID: project.ID, Title: "T2", Priority: records.PriorityHigh, AssigneeID: &bob})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if full.Title != "T2" || full.Priority != records.PriorityHigh || full.Status != records.TaskStatusTodo {
		t.Errorf("Update() = %+v", full)
	}
	if full.AssigneeID == nil || *full.AssigneeID != bob {
		t.Errorf("AssigneeID = %v, expected %d", full.AssigneeID, bob)
	}

	if err := f.tasks.Delete(f.bob, id); httpStatus(err) != http.StatusForbidden {
		t.Errorf("Delete() by other member error = %v, expected 403", err)
	}
	if err := f.tasks.Delete(f.owner, id); err != nil {
		t.Fatalf("Delete() by owner error = %v", err)
	}
	if _, err := f.tasks.GetByID(f.owner, id); httpStatus(err) != http.StatusNotFound {
		t.Errorf("GetByID() after delete error = %v, expected 404", err)
	}
}
