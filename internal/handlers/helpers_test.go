package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/microblog/internal/jwt"
	"github.com/sbilibin2017/microblog/internal/middlewares"
	"github.com/stretchr/testify/require"
)

// newRequest builds a request authenticated as userID (unless uuid.Nil)
// with the given chi URL params.
func newRequest(method, target, body string, userID uuid.UUID, params map[string]string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = middlewares.WithClaims(ctx, &jwt.Claims{UserID: userID})
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v))
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, rr, &resp)
	return resp.Error
}
