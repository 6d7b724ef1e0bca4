package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
	"github.com/infinitelyweird/OpenClaw-Dashboard/widget"
)

// WidgetTemplate exported for testing purposes
type WidgetTemplate struct {
	DB databases.WidgetTemplateDatabase
}

// templateCatalogResponse carries the full template list plus the same rows
// grouped by category for the widget picker
type templateCatalogResponse struct {
	Templates  []models.WidgetTemplate            `json:"templates"`
	ByCategory map[string][]models.WidgetTemplate `json:"byCategory"`
}

// WidgetTemplatesHandler returns all widget templates plus a grouped-by-category map
func (t WidgetTemplate) WidgetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	dbResp, err := t.DB.Find(r.Context(), bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get widget templates", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.WidgetTemplate{}
	}

	byCategory := make(map[string][]models.WidgetTemplate)
	for _, template := range dbResp {
		byCategory[template.Category] = append(byCategory[template.Category], template)
	}

	b, err := json.Marshal(templateCatalogResponse{Templates: dbResp, ByCategory: byCategory})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// WidgetTemplateByIDHandler returns a widget template by ID
func (t WidgetTemplate) WidgetTemplateByIDHandler(w http.ResponseWriter, r *http.Request) {
	tID, err := primitive.ObjectIDFromHex(mux.Vars(r)["template_id"])
	if err != nil {
		config.ErrorStatus("invalid template ID", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get widget template", http.StatusNotFound, w, err)
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

// CreateWidgetTemplateHandler creates a new custom widget template
func (t WidgetTemplate) CreateWidgetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var newTemplate models.WidgetTemplate
	if err := json.NewDecoder(r.Body).Decode(&newTemplate); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newTemplate.Name == "" || newTemplate.Category == "" || newTemplate.Type == "" {
		config.ErrorStatus("name, category and type are required", http.StatusBadRequest, w, errMissingField("name/category/type"))
		return
	}
	if _, ok := widget.ParseWidgetType(newTemplate.Type); !ok {
		config.ErrorStatus("unknown widget type", http.StatusBadRequest, w, fmt.Errorf("type %q is not supported", newTemplate.Type))
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	newTemplate.ID = primitive.NewObjectID()
	newTemplate.IsSystem = false
	newTemplate.CreatedBy = userID
	newTemplate.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err = t.DB.InsertOne(r.Context(), newTemplate)
	if err != nil {
		config.ErrorStatus("failed to create widget template", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newTemplate)
}

// DeleteWidgetTemplateHandler deletes a custom widget template. The built-in
// system catalog is not deletable.
func (t WidgetTemplate) DeleteWidgetTemplateHandler(w http.ResponseWriter, r *http.Request) {
	tID, err := primitive.ObjectIDFromHex(mux.Vars(r)["template_id"])
	if err != nil {
		config.ErrorStatus("invalid template ID", http.StatusBadRequest, w, err)
		return
	}

	template, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get widget template", http.StatusNotFound, w, err)
		return
	}
	if template.IsSystem {
		config.ErrorStatus("system templates cannot be deleted", http.StatusForbidden, w, fmt.Errorf("template %q is a system template", template.Name))
		return
	}

	if _, err := t.DB.DeleteOne(r.Context(), bson.M{"_id": tID}); err != nil {
		config.ErrorStatus("failed to delete widget template", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "widget template deleted successfully"}`))
}
