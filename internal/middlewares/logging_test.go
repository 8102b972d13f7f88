package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		handlerStatus int
		handlerBody   string
		incomingID    string
	}{
		{name: "ok", handlerStatus: http.StatusOK, handlerBody: "hello"},
		{name: "server error", handlerStatus: http.StatusInternalServerError, handlerBody: "boom"},
		{name: "keeps incoming request id", handlerStatus: http.StatusCreated, handlerBody: "{}", incomingID: "req-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seenID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = RequestIDFromContext(r.Context())
				w.WriteHeader(tt.handlerStatus)
				_, _ = w.Write([]byte(tt.handlerBody))
			})

			req := httptest.NewRequest(http.MethodGet, "/index", nil)
			if tt.incomingID != "" {
				req.Header.Set("X-Request-ID", tt.incomingID)
			}
			rr := httptest.NewRecorder()

			LoggingMiddleware(zap.NewNop().Sugar())(next).ServeHTTP(rr, req)

			res := rr.Result()
			defer res.Body.Close()
			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.handlerStatus, res.StatusCode)
			assert.Equal(t, tt.handlerBody, string(body))
			assert.NotEmpty(t, seenID)
			assert.Equal(t, seenID, res.Header.Get("X-Request-ID"))
			if tt.incomingID != "" {
				assert.Equal(t, tt.incomingID, seenID)
			}
		})
	}
}
