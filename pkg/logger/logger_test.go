package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	InitWithWriter(level, &buf)
	t.Cleanup(func() { Init("info") })
	return &buf
}

func TestInitWithWriter_Level(t *testing.T) {
	buf := capture(t, "warn")

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestInitWithWriter_BadLevelFallsBackToInfo(t *testing.T) {
	buf := capture(t, "loud")

	Debug().Msg("debug line")
	Infof("hello %d", 7)

	out := buf.String()
	if strings.Contains(out, "debug line") {
		t.Errorf("debug line written with fallback level: %s", out)
	}
	if !strings.Contains(out, "hello 7") {
		t.Errorf("Infof line missing: %s", out)
	}
}

func TestGinLogger_LevelFollowsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusBadGateway, "error"},
	}

	for _, tt := range tests {
		buf := capture(t, "debug")
		r := gin.New()
		r.Use(GinLogger())
		r.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		req := httptest.NewRequest(http.MethodGet, "/x?q=1", nil)
		req.Header.Set("X-Request-ID", "rid-1")
		r.ServeHTTP(httptest.NewRecorder(), req)

		var line map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("status %d: log line is not json: %v (%s)", tt.status, err, buf.String())
		}
		if line["level"] != tt.level {
			t.Errorf("status %d: level = %v, expected %s", tt.status, line["level"], tt.level)
		}
		if line["request_id"] != "rid-1" || line["query"] != "q=1" {
			t.Errorf("status %d: line = %v", tt.status, line)
		}
	}
}

func TestGinRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := capture(t, "info")
	r := gin.New()
	r.Use(GinRecovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}
