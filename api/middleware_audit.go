package api

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// AuditMiddleware writes an audit log entry for every mutating request. The
// insert happens in a goroutine after the response is written; a failed insert
// only logs, it never affects the request.
func AuditMiddleware(db databases.AuditLogDatabase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			wrappedWriter := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}
			next.ServeHTTP(wrappedWriter, r)

			username := ""
			if user := UserFromContext(r.Context()); user != nil {
				username = user.UserName()
			}

			entry := models.AuditLog{
				Action:    r.Method + " " + r.URL.Path,
				Username:  username,
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    wrappedWriter.statusCode,
				RemoteIP:  r.RemoteAddr,
				Timestamp: primitive.NewDateTimeFromTime(time.Now()),
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), QueryTimeout)
				defer cancel()
				if _, err := db.InsertOne(ctx, entry); err != nil {
					zap.S().Warnw("failed to write audit log entry",
						"path", entry.Path,
						"error", err)
				}
			}()
		})
	}
}
