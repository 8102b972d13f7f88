package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/microblog/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct{ id int64 }

func (p post) IndexName() string              { return "post" }
func (p post) IndexID() int64                 { return p.id }
func (p post) IndexFields() map[string]string { return map[string]string{"body": "hi"} }

type recordingIndex struct{ added []int64 }

func (r *recordingIndex) Add(_ context.Context, _ string, id int64, _ map[string]string) error {
	r.added = append(r.added, id)
	return nil
}

func (r *recordingIndex) Remove(context.Context, string, int64) error { return nil }

func newTransactor(t *testing.T) (*uow.Transactor, sqlmock.Sqlmock, *recordingIndex) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	idx := &recordingIndex{}
	return uow.NewTransactor(sqlx.NewDb(db, "sqlmock"), idx), mock, idx
}

func TestTxMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		setup      func(mock sqlmock.Sqlmock)
		wantStatus int
		wantBody   string
		wantIndex  []int64
	}{
		{
			name:   "commit then flush",
			status: http.StatusCreated,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			wantStatus: http.StatusCreated,
			wantBody:   "created",
			wantIndex:  []int64{7},
		},
		{
			name:   "client error rolls back",
			status: http.StatusBadRequest,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "created",
		},
		{
			name:   "commit failure becomes 500",
			status: http.StatusOK,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit failed"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}` + "\n",
		},
		{
			name:   "begin failure becomes 500",
			status: http.StatusOK,
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("no connection"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, mock, idx := newTransactor(t)
			tt.setup(mock)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.NotNil(t, uow.TxFromContext(r.Context()))
				uow.TrackAdded(r.Context(), post{id: 7})
				w.Header().Set("X-Handler", "yes")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("created"))
			})

			rr := httptest.NewRecorder()
			TxMiddleware(tr)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/index", nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantBody, rr.Body.String())
			assert.Equal(t, tt.wantIndex, idx.added)
			if tt.wantStatus < http.StatusInternalServerError {
				assert.Equal(t, "yes", rr.Header().Get("X-Handler"))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTxMiddleware_PanicRollsBack(t *testing.T) {
	tr, mock, idx := newTransactor(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uow.TrackAdded(r.Context(), post{id: 1})
		panic("boom")
	})

	assert.Panics(t, func() {
		TxMiddleware(tr)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	})
	assert.Empty(t, idx.added)
	assert.NoError(t, mock.ExpectationsWereMet())
}
