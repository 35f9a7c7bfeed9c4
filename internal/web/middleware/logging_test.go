package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JonMunkholm/catalog-import/internal/logging"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   []string
	}{
		{"ok", http.StatusOK, []string{"level=INFO", "status=200", "bytes=5", "path=/api/import"}},
		{"client error", http.StatusBadRequest, []string{"level=WARN", "status=400"}},
		{"server error", http.StatusInternalServerError, []string{"level=ERROR", "status=500"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prev := slog.Default()
			slog.SetDefault(logging.New(&buf, "debug", "text"))
			t.Cleanup(func() { slog.SetDefault(prev) })

			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("hello"))
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/import", nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("log %q missing %q", buf.String(), want)
				}
			}
		})
	}
}
