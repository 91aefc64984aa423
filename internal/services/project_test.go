package services

import (
	"net/http"
	"slices"
	"testing"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
)

type projectFixture struct {
	projects *ProjectService
	tasks    *TaskService
	owner    uint
	alice    uint
	bob      uint
	outsider uint
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db := newTestDB(t)
	auth := NewAuthService(db, &recordingMailer{}, 24)
	return &projectFixture{
		projects: NewProjectService(db),
		tasks:    NewTaskService(db),
		owner:    register(t, auth, "Olive", "owner@example.com"),
		alice:    register(t, auth, "Alice", "alice@example.com"),
		bob:      register(t, auth, "Bob", "bob@example.com"),
		outsider: register(t, auth, "Oscar", "outsider@example.com"),
	}
}

func memberIDs(p *dto.ProjectResponse) []int64 {
	ids := make([]int64, 0, len(p.Members))
	for _, m := range p.Members {
		ids = append(ids, m.UserID)
	}
	slices.Sort(ids)
	return ids
}

func TestProjectService_CreateWithMembers(t *testing.T) {
	f := newProjectFixture(t)

	project, err := f.projects.Create(f.owner, &dto.ProjectRequest{
		Title:     " Launch ",
		MemberIDs: []int64{int64(f.alice), int64(f.bob), int64(f.alice), 0},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if project.Title != "Launch" {
		t.Errorf("Title = %q, expected %q", project.Title, "Launch")
	}
	if project.Status != records.ProjectStatusCreated {
		t.Errorf("Status = %q, expected %q", project.Status, records.ProjectStatusCreated)
	}
	if project.OwnerID != int64(f.owner) {
		t.Errorf("OwnerID = %d, expected %d", project.OwnerID, f.owner)
	}
	if got, want := memberIDs(project), []int64{int64(f.alice), int64(f.bob)}; !slices.Equal(got, want) {
		t.Errorf("members = %v, expected %v", got, want)
	}
	for _, m := range project.Members {
		if m.Name == "" || m.Role != records.RoleMember {
			t.Errorf("member not hydrated: %+v", m)
		}
	}
}

func TestProjectService_CreateUnknownMemberWritesNothing(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "Broken", MemberIDs: []int64{int64(f.alice), 9999}})
	if got := httpStatus(err); got != http.StatusBadRequest {
		t.Fatalf("Create() status = %d, expected %d", got, http.StatusBadRequest)
	}

	owned, err := f.projects.ListOwned(f.owner, dto.PageRequest{})
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}
	if owned.TotalElements != 0 {
		t.Errorf("TotalElements = %d, expected 0", owned.TotalElements)
	}
}

func TestProjectService_OwnedAndMemberListings(t *testing.T) {
	f := newProjectFixture(t)

	var titles []string
	for _, title := range []string{"one", "two", "three"} {
		if _, err := f.projects.Create(f.owner, &dto.ProjectRequest{Title: title, MemberIDs: []int64{int64(f.alice)}}); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
		titles = append([]string{title}, titles...)
	}

	first, err := f.projects.ListOwned(f.owner, dto.PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("ListOwned() error = %v", err)
	}
	if first.TotalElements != 3 || first.TotalPages != 2 || first.Last {
		t.Errorf("first page = %+v", first)
	}
	second, _ := f.projects.ListOwned(f.owner, dto.PageRequest{Page: 1, Size: 2})
	if !second.Last || len(second.Content) != 1 {
		t.Errorf("second page = %+v", second)
	}

	var got []string
	for _, p := range append(first.Content, second.Content...) {
		got = append(got, p.Title)
	}
	if !slices.Equal(got, titles) {
		t.Errorf("owned order = %v, expected newest first %v", got, titles)
	}

	member, err := f.projects.ListMember(f.alice, dto.PageRequest{})
	if err != nil {
		t.Fatalf("ListMember() error = %v", err)
	}
	if member.TotalElements != 3 {
		t.Errorf("member TotalElements = %d, expected 3", member.TotalElements)
	}

	none, _ := f.projects.ListMember(f.bob, dto.PageRequest{})
	if len(none.Content) != 0 || !none.Last {
		t.Errorf("bob member page = %+v, expected empty last page", none)
	}
}

func TestProjectService_UpdateReplacesMembersKeepingRoles(t *testing.T) {
	f := newProjectFixture(t)

	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P", MemberIDs: []int64{int64(f.alice)}})
	id := uint(project.ID)
	if _, err := f.projects.AddMember(f.owner, id, &dto.AddMemberRequest{UserID: int64(f.bob), Role: "reviewer"}); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}

	if _, err := f.projects.Update(f.alice, id, &dto.ProjectRequest{Title: "X"}); httpStatus(err) != http.StatusForbidden {
		t.Errorf("Update() by member error = %v, expected 403", err)
	}

	updated, err := f.projects.Update(f.owner, id, &dto.ProjectRequest{
		Title:     "P2",
		Status:    records.ProjectStatusInProgress,
		MemberIDs: []int64{int64(f.bob), int64(f.outsider)},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "P2" || updated.Status != records.ProjectStatusInProgress {
		t.Errorf("fields not updated: %+v", updated)
	}
	if got, want := memberIDs(updated), []int64{int64(f.bob), int64(f.outsider)}; !slices.Equal(got, want) {
		t.Errorf("members = %v, expected %v", got, want)
	}
	for _, m := range updated.Members {
		if m.UserID == int64(f.bob) && m.Role != "reviewer" {
			t.Errorf("bob role = %q, expected %q", m.Role, "reviewer")
		}
	}
}

func TestProjectService_Access(t *testing.T) {
	f := newProjectFixture(t)
	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P", MemberIDs: []int64{int64(f.alice)}})
	id := uint(project.ID)

	tests := []struct {
		name   string
		actor  uint
		status int
	}{
		{"owner", f.owner, 0},
		{"member", f.alice, 0},
		{"outsider", f.outsider, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.GetByID(tt.actor, id)
			if got := httpStatus(err); got != tt.status {
				t.Errorf("GetByID() status = %d, expected %d", got, tt.status)
			}
		})
	}

	if _, err := f.projects.GetByID(f.owner, 4242); httpStatus(err) != http.StatusNotFound {
		t.Errorf("GetByID(missing) error = %v, expected 404", err)
	}
}

func TestProjectService_MemberManagement(t *testing.T) {
	f := newProjectFixture(t)
	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P"})
	id := uint(project.ID)

	added, err := f.projects.AddMember(f.owner, id, &dto.AddMemberRequest{UserID: int64(f.alice)})
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if added.Role != records.RoleMember || added.User.Email != "alice@example.com" {
		t.Errorf("AddMember() = %+v", added)
	}

	if _, err := f.projects.AddMember(f.owner, id, &dto.AddMemberRequest{UserID: int64(f.alice)}); httpStatus(err) != http.StatusConflict {
		t.Errorf("duplicate AddMember() error = %v, expected 409", err)
	}
	if _, err := f.projects.AddMember(f.alice, id, &dto.AddMemberRequest{UserID: int64(f.bob)}); httpStatus(err) != http.StatusForbidden {
		t.Errorf("AddMember() by member error = %v, expected 403", err)
	}
	if _, err := f.projects.AddMember(f.owner, id, &dto.AddMemberRequest{UserID: 9999}); httpStatus(err) != http.StatusNotFound {
		t.Errorf("AddMember(unknown user) error = %v, expected 404", err)
	}

	page, err := f.projects.ListMembers(f.alice, id, dto.PageRequest{})
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].User.ID != int64(f.alice) {
		t.Errorf("ListMembers() = %+v", page)
	}

	// A member may leave; tasks assigned to them become unassigned.
	assignee := int64(f.alice)
	task, err := f.tasks.Create(f.owner, &dto.TaskRequest{ProjectID: int64(id), Title: "T", AssigneeID: &assignee})
	if err != nil {
		t.Fatalf("Create task error = %v", err)
	}
	if err := f.projects.RemoveMember(f.alice, id, f.alice); err != nil {
		t.Fatalf("RemoveMember(self) error = %v", err)
	}
	got, _ := f.tasks.GetByID(f.owner, uint(task.ID))
	if got.AssigneeID != nil {
		t.Errorf("AssigneeID = %v, expected nil", *got.AssigneeID)
	}

	if err := f.projects.RemoveMember(f.owner, id, f.alice); httpStatus(err) != http.StatusNotFound {
		t.Errorf("second RemoveMember() error = %v, expected 404", err)
	}
}

func TestProjectService_DeleteCascades(t *testing.T) {
	f := newProjectFixture(t)
	project, _ := f.projects.Create(f.owner, &dto.ProjectRequest{Title: "P", MemberIDs: []int64{int64(f.alice)}})
	id := uint(project.ID)
	if _, err := f.tasks.Create(f.alice, &dto.TaskRequest{ProjectID: int64(id), Title: "T"}); err != nil {
		t.Fatalf("Create task error = %v", err)
	}

	if err := f.projects.Delete(f.alice, id); httpStatus(err) != http.StatusForbidden {
		t.Errorf("Delete() by member error = %v, expected 403", err)
	}
	if err := f.projects.Delete(f.owner, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var members, tasks int64
	f.projects.db.Model(&records.ProjectMember{}).Where("project_id = ?", id).Count(&members)
	f.projects.db.Model(&records.Task{}).Where("project_id = ?", id).Count(&tasks)
	if members != 0 || tasks != 0 {
		t.Errorf("leftover rows: members=%d tasks=%d", members, tasks)
	}
	if _, err := f.projects.GetByID(f.owner, id); httpStatus(err) != http.StatusNotFound {
		t.Errorf("GetByID() after delete error = %v, expected 404", err)
	}
}
