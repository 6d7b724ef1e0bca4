package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// Task exported for testing purposes
type Task struct {
	DB databases.TaskDatabase
}

// TasksHandler returns tasks with optional filters: assignedToMe, overdue,
// sort=updated and limit
func (t Task) TasksHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf("limit not set, using default of %v, err: %v", Limit|10, err)
		Limit = 10
	}
	limit64 := int64(Limit)
	page := getPage(0, r)
	skip64 := int64(page * Limit)

	filter := bson.M{}
	if r.URL.Query().Get("assignedToMe") == "true" {
		userID, err := callerObjectID(r)
		if err != nil {
			config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
			return
		}
		filter["assignedTo"] = userID
	}
	if r.URL.Query().Get("overdue") == "true" {
		filter["dueDate"] = bson.M{"$lt": primitive.NewDateTimeFromTime(time.Now())}
		filter["status"] = bson.M{"$ne": models.TaskStatusCompleted}
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := &options.FindOptions{Limit: &limit64, Skip: &skip64}
	if r.URL.Query().Get("sort") == "updated" {
		opts.SetSort(bson.M{"updatedAt": -1})
	}

	dbResp, err := t.DB.Find(r.Context(), filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get tasks", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Task{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TaskByIDHandler returns a task by ID
func (t Task) TaskByIDHandler(w http.ResponseWriter, r *http.Request) {
	tID, err := primitive.ObjectIDFromHex(mux.Vars(r)["task_id"])
	if err != nil {
		config.ErrorStatus("invalid task ID", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get task", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateTaskHandler creates a new task
func (t Task) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	var newTask models.Task
	if err := json.NewDecoder(r.Body).Decode(&newTask); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newTask.Title == "" {
		config.ErrorStatus("task title is required", http.StatusBadRequest, w, errMissingField("title"))
		return
	}
	if !validTaskStatus(newTask.Status) {
		config.ErrorStatus("invalid task status", http.StatusBadRequest, w, fmt.Errorf("status %q is not supported", newTask.Status))
		return
	}
	if newTask.Priority < 1 || newTask.Priority > 4 {
		newTask.Priority = 3
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	newTask.ID = primitive.NewObjectID()
	newTask.CreatedBy = userID
	newTask.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	newTask.UpdatedAt = newTask.CreatedAt

	_, err = t.DB.InsertOne(r.Context(), newTask)
	if err != nil {
		config.ErrorStatus("failed to create task", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newTask)
}

// UpdateTaskHandler updates an existing task
func (t Task) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	tID, err := primitive.ObjectIDFromHex(mux.Vars(r)["task_id"])
	if err != nil {
		config.ErrorStatus("invalid task ID", http.StatusBadRequest, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if status, ok := updatedDetails["status"].(string); ok && !validTaskStatus(status) {
		config.ErrorStatus("invalid task status", http.StatusBadRequest, w, fmt.Errorf("status %q is not supported", status))
		return
	}

	update := bson.M{}
	for _, key := range []string{"title", "description", "status", "priority", "tags", "projectId", "assignedTo", "dueDate"} {
		if value, ok := updatedDetails[key]; ok {
			update[key] = value
		}
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err = t.DB.UpdateOne(r.Context(), bson.M{"_id": tID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update task", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "task updated successfully"}`))
}

// DeleteTaskHandler deletes an existing task
func (t Task) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	tID, err := primitive.ObjectIDFromHex(mux.Vars(r)["task_id"])
	if err != nil {
		config.ErrorStatus("invalid task ID", http.StatusBadRequest, w, err)
		return
	}

	if _, err := t.DB.DeleteOne(r.Context(), bson.M{"_id": tID}); err != nil {
		config.ErrorStatus("failed to delete task", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "task deleted successfully"}`))
}

func validTaskStatus(status string) bool {
	switch status {
	case models.TaskStatusOpen, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return true
	}
	return false
}
