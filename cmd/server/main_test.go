package main

import (
	"bytes"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/microblog/internal/config"
	"github.com/sbilibin2017/microblog/internal/jobs"
	"github.com/sbilibin2017/microblog/internal/search"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default", args: []string{"cmd"}, want: "config.env"},
		{name: "custom", args: []string{"cmd", "-c", "myconfig.env"}, want: "myconfig.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			assert.Equal(t, tt.want, parseFlags())
		})
	}
}

func TestPrintBuildInfo_Output(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	out := buf.String()
	assert.Contains(t, out, "Version: v1.0.0")
	assert.Contains(t, out, "Commit: abcd1234")
	assert.Contains(t, out, "Build: 2025-09-26")
}

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{JWTSecretKey: "secret", PostsPerPage: 10}
	a := newApp(cfg, sqlx.NewDb(sqlDB, "sqlmock"), search.NewRedisIndex(rdb), jobs.NewMetaStore(rdb), nil, nil)
	return newRouter(a, "/swagger/doc.json"), mock
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		setup      func(mock sqlmock.Sqlmock)
		wantStatus int
	}{
		{name: "feed requires auth", method: http.MethodGet, target: "/index", wantStatus: http.StatusUnauthorized},
		{name: "post requires auth", method: http.MethodPost, target: "/index", body: `{"body":"hi"}`, wantStatus: http.StatusUnauthorized},
		{name: "export requires auth", method: http.MethodPost, target: "/export_posts", wantStatus: http.StatusUnauthorized},
		{name: "login bad body", method: http.MethodPost, target: "/login", body: `{`, wantStatus: http.StatusBadRequest},
		{
			name:   "register bad body rolls back",
			method: http.MethodPost,
			target: "/register",
			body:   `{`,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantStatus: http.StatusBadRequest,
		},
		{name: "health without checks", method: http.MethodGet, target: "/healthz", wantStatus: http.StatusOK},
		{name: "unknown route", method: http.MethodGet, target: "/wallet", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mock := newTestRouter(t)
			if tt.setup != nil {
				tt.setup(mock)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRouter_SwaggerDoc(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "microblog API")
	assert.Contains(t, rr.Body.String(), "/export_posts")
}
