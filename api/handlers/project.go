package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

// Project exported for testing purposes
type Project struct {
	DB  databases.ProjectDatabase
	TDB databases.TaskDatabase
}

// projectSummary is a project row with its live task count
type projectSummary struct {
	models.Project `bson:",inline"`
	TaskCount      int64 `json:"taskCount"`
}

// ProjectsHandler returns all projects with their task counts
func (p Project) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := p.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get projects", http.StatusNotFound, w, err)
		return
	}

	summaries := make([]projectSummary, 0, len(dbResp))
	for _, project := range dbResp {
		count, _ := p.TDB.CountDocuments(r.Context(), bson.M{"projectId": project.ID})
		summaries = append(summaries, projectSummary{Project: project, TaskCount: count})
	}

	b, err := json.Marshal(summaries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateProjectHandler creates a new project
func (p Project) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var newProject models.Project
	if err := json.NewDecoder(r.Body).Decode(&newProject); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newProject.Name == "" {
		config.ErrorStatus("project name is required", http.StatusBadRequest, w, errMissingField("name"))
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	newProject.ID = primitive.NewObjectID()
	newProject.CreatedBy = userID
	newProject.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	newProject.UpdatedAt = newProject.CreatedAt

	_, err = p.DB.InsertOne(r.Context(), newProject)
	if err != nil {
		config.ErrorStatus("failed to create project", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newProject)
}

// UpdateProjectHandler updates an existing project
func (p Project) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	pID, err := primitive.ObjectIDFromHex(mux.Vars(r)["project_id"])
	if err != nil {
		config.ErrorStatus("invalid project ID", http.StatusBadRequest, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{}
	for _, key := range []string{"name", "description", "status", "color"} {
		if value, ok := updatedDetails[key]; ok {
			update[key] = value
		}
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err = p.DB.UpdateOne(r.Context(), bson.M{"_id": pID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update project", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "project updated successfully"}`))
}

// DeleteProjectHandler deletes a project. Its tasks keep their projectId and
// read as unassigned once the lookup fails.
func (p Project) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	pID, err := primitive.ObjectIDFromHex(mux.Vars(r)["project_id"])
	if err != nil {
		config.ErrorStatus("invalid project ID", http.StatusBadRequest, w, err)
		return
	}

	if _, err := p.DB.DeleteOne(r.Context(), bson.M{"_id": pID}); err != nil {
		config.ErrorStatus("failed to delete project", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "project deleted successfully"}`))
}
