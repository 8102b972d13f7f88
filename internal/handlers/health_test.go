package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all up",
			checks:     []HealthCheck{{"database", up}, {"search", up}},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ok","components":{"database":"up","search":"up"}}`,
		},
		{
			name:       "worker down",
			checks:     []HealthCheck{{"database", up}, {"worker", down}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"status":"degraded","components":{"database":"up","worker":"down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			NewHealthHandler(tt.checks...)(rr, newRequest(http.MethodGet, "/healthz", "", uuid.Nil, nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
