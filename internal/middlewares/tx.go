package middlewares

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/microblog/internal/logger"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var errRollback = errors.New("handler responded with an error status")

// TxMiddleware runs the handler inside a transaction. The response is
// buffered and only sent once the outcome is known: a handler status of
// 400 or above rolls back, a failed commit turns the response into a 500.
func TxMiddleware(tr Transactor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := newBufferedWriter()

			err := tr.WithinTx(r.Context(), func(ctx context.Context) error {
				next.ServeHTTP(buf, r.WithContext(ctx))
				if buf.code() >= http.StatusBadRequest {
					return errRollback
				}
				return nil
			})

			if err != nil && !errors.Is(err, errRollback) {
				logger.Log.Errorw("transaction failed", "method", r.Method, "uri", r.RequestURI, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
				return
			}

			buf.flush(w)
		})
	}
}

// bufferedWriter holds a response until the transaction settles.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedWriter) code() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func (b *bufferedWriter) flush(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.code())
	w.Write(b.body.Bytes())
}
