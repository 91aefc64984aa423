package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/config"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/database"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/dto"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/records"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/services"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-for-handlers")
}

type capturedMailer struct {
	mu     sync.Mutex
	tokens map[string]string // recipient -> last token
}

func (m *capturedMailer) SendPasswordReset(to, token string) error { return m.keep(to, token) }
func (m *capturedMailer) SendVerification(to, token string) error  { return m.keep(to, token) }

func (m *capturedMailer) keep(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string]string{}
	}
	m.tokens[to] = token
	return nil
}

func (m *capturedMailer) token(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[to]
}

type testServer struct {
	router *gin.Engine
	mailer *capturedMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig().Server
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "server.db")}
	cfg.UploadDir = filepath.Join(dir, "uploads")

	db, err := database.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	if err := records.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	mailer := &capturedMailer{}
	router := gin.New()
	RegisterRoutes(router, db, &cfg, services.NewAuthService(db, mailer, 1), nil)
	return &testServer{router: router, mailer: mailer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return v
}

func (s *testServer) register(t *testing.T, first, email string) dto.AuthResponse {
	t.Helper()
	w := s.do(t, "POST", "/api/auth/register", "", dto.RegisterRequest{
		FirstName: first, LastName: "Tester", Email: email, Password: "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	return decode[dto.AuthResponse](t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if body := decode[map[string]interface{}](t, w); body["status"] != "healthy" {
		t.Errorf("status = %v, expected healthy", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "GET", "/health", "", nil)

	w := s.do(t, "GET", "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "projectmanager_devserver_http_requests_total") {
		t.Error("metrics output should include the request counter")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/users", "/api/projects/1", "/api/tasks"} {
		w := s.do(t, "GET", path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusUnauthorized, w.Code)
			continue
		}
		if body := decode[response.ErrorBody](t, w); body.Code != 401 {
			t.Errorf("%s: code = %d, expected 401", path, body.Code)
		}
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	ada := s.register(t, "Ada", "ada@example.com")

	w := s.do(t, "POST", "/api/auth/register", "", dto.RegisterRequest{FirstName: "A", LastName: "B", Email: "ada@example.com", Password: "secret123"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, expected %d", w.Code, http.StatusConflict)
	}

	w = s.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: "ada@example.com", Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}

	w = s.do(t, "POST", "/api/auth/login", "", map[string]string{"email": "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid login body status = %d, expected %d", w.Code, http.StatusBadRequest)
	}

	w = s.do(t, "GET", "/api/auth/verify-email?token="+s.mailer.token("ada@example.com"), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body = %s", w.Code, w.Body.String())
	}
	w = s.do(t, "GET", "/api/users/1", ada.Token, nil)
	if user := decode[dto.UserResponse](t, w); !user.EmailVerified {
		t.Error("email should be verified")
	}

	w = s.do(t, "POST", "/api/auth/forgot-password", "", dto.ForgotPasswordRequest{Email: "ada@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("forgot status = %d", w.Code)
	}
	w = s.do(t, "POST", "/api/auth/reset-password", "", dto.ResetPasswordRequest{Token: s.mailer.token("ada@example.com"), NewPassword: "changed1"})
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body = %s", w.Code, w.Body.String())
	}
	w = s.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: "ada@example.com", Password: "changed1"})
	if w.Code != http.StatusOK {
		t.Errorf("login after reset status = %d", w.Code)
	}
}

func TestProjectRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Olive", "owner@example.com")
	alice := s.register(t, "Alice", "alice@example.com")

	w := s.do(t, "POST", "/api/projects", owner.Token, dto.ProjectRequest{Title: "Launch", MemberIDs: []int64{alice.UserID}})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	project := decode[dto.ProjectResponse](t, w)
	if len(project.Members) != 1 || project.Members[0].Name != "Alice Tester" {
		t.Errorf("members = %+v", project.Members)
	}

	w = s.do(t, "POST", "/api/projects", owner.Token, dto.ProjectRequest{Title: "Bad", Status: "archived"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status create = %d, expected %d", w.Code, http.StatusBadRequest)
	}

	w = s.do(t, "GET", "/api/projects/member/2?page=0&size=10", alice.Token, nil)
	page := decode[dto.Page[dto.ProjectResponse]](t, w)
	if page.TotalElements != 1 || page.Content[0].ID != project.ID || !page.Last {
		t.Errorf("member page = %+v", page)
	}

	w = s.do(t, "GET", "/api/projects/owner/1", owner.Token, nil)
	if page := decode[dto.Page[dto.ProjectResponse]](t, w); page.TotalElements != 1 {
		t.Errorf("owner page = %+v", page)
	}

	w = s.do(t, "GET", "/api/projects/abc", owner.Token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, expected %d", w.Code, http.StatusBadRequest)
	}

	w = s.do(t, "DELETE", "/api/projects/1/members/2", owner.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("remove member status = %d, expected %d", w.Code, http.StatusNoContent)
	}
	w = s.do(t, "POST", "/api/projects/1/members", owner.Token, dto.AddMemberRequest{UserID: alice.UserID, Role: "editor"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member status = %d, body = %s", w.Code, w.Body.String())
	}
	w = s.do(t, "GET", "/api/projects/1/members", alice.Token, nil)
	members := decode[dto.Page[dto.ProjectMemberResponse]](t, w)
	if members.TotalElements != 1 || members.Content[0].Role != "editor" {
		t.Errorf("members page = %+v", members)
	}

	w = s.do(t, "DELETE", "/api/projects/1", alice.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("delete by member status = %d, expected %d", w.Code, http.StatusForbidden)
	}
	w = s.do(t, "DELETE", "/api/projects/1", owner.Token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, expected %d", w.Code, http.StatusNoContent)
	}
	w = s.do(t, "GET", "/api/projects/1", owner.Token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d, expected %d", w.Code, http.StatusNotFound)
	}
}

func TestTaskRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "Olive", "owner@example.com")
	s.do(t, "POST", "/api/projects", owner.Token, dto.ProjectRequest{Title: "P"})

	w := s.do(t, "POST", "/api/tasks", owner.Token, dto.TaskRequest{ProjectID: 1, Title: "first"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task status = %d, body = %s", w.Code, w.Body.String())
	}
	s.do(t, "POST", "/api/tasks", owner.Token, dto.TaskRequest{ProjectID: 1, Title: "second"})

	w = s.do(t, "PATCH", "/api/tasks/1/status", owner.Token, dto.TaskStatusRequest{Status: "done"})
	if task := decode[dto.TaskResponse](t, w); task.Status != "done" {
		t.Errorf("status = %q, expected done", task.Status)
	}

	w = s.do(t, "PATCH", "/api/tasks/1/status", owner.Token, map[string]string{"status": "blocked"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status = %d, expected %d", w.Code, http.StatusBadRequest)
	}

	w = s.do(t, "GET", "/api/tasks?project_id=1&status=todo", owner.Token, nil)
	page := decode[dto.Page[dto.TaskResponse]](t, w)
	if page.TotalElements != 1 || page.Content[0].Title != "second" {
		t.Errorf("filtered tasks = %+v", page)
	}
}

func TestProfilePictureRoutes(t *testing.T) {
	s := newTestServer(t)
	ada := s.register(t, "Ada", "ada@example.com")
	png, _ := base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "me.png")
	part.Write(png)
	mw.Close()

	req, _ := http.NewRequest("POST", "/api/users/1/profile-picture", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ada.Token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	user := decode[dto.UserResponse](t, w)
	if user.ProfilePicture == "" {
		t.Fatal("profile picture should be set")
	}

	w = s.do(t, "GET", user.ProfilePicture, "", nil)
	if w.Code != http.StatusOK || !bytes.Equal(w.Body.Bytes(), png) {
		t.Errorf("served picture status = %d, len = %d", w.Code, w.Body.Len())
	}

	w = s.do(t, "DELETE", "/api/users/1/profile-picture", ada.Token, nil)
	if user := decode[dto.UserResponse](t, w); user.ProfilePicture != "" {
		t.Errorf("profile picture = %q, expected empty", user.ProfilePicture)
	}
}
