package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/infinitelyweird/OpenClaw-Dashboard/api"
	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// Admin exported for testing purposes
type Admin struct {
	ADB     databases.AuditLogDatabase
	Metrics *api.MetricsCollector
}

// AuditLogsHandler returns a page of audit log entries, newest first
func (a Admin) AuditLogsHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit <= 0 {
		Limit = 50
	}
	page := getPage(0, r)

	filter := bson.M{}
	if action := r.URL.Query().Get("action"); action != "" {
		filter["action"] = bson.M{"$regex": action, "$options": "i"}
	}
	if username := r.URL.Query().Get("username"); username != "" {
		filter["username"] = username
	}

	dbResp, err := a.ADB.FindPaginated(r.Context(), filter, Limit, page)
	if err != nil {
		config.ErrorStatus("failed to get audit logs", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.AuditLog{}
	}

	b, err := json.Marshal(models.AuditLogResponse{Logs: dbResp})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MetricsHandler returns the in-process request metrics summary
func (a Admin) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	if a.Metrics == nil {
		config.ErrorStatus("metrics collection is disabled", http.StatusServiceUnavailable, w, errors.New("metrics collector not initialized"))
		return
	}

	resp := map[string]interface{}{
		"summary":       a.Metrics.GetSummary(),
		"slowestRoutes": a.Metrics.GetSlowestRoutes(10),
	}
	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
