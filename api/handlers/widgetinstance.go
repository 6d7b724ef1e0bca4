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

// WidgetInstance exported for testing purposes
type WidgetInstance struct {
	DB  databases.WidgetInstanceDatabase
	TDB databases.WidgetTemplateDatabase
	DDB databases.DashboardDatabase
}

type createInstanceRequest struct {
	TemplateID      string `json:"templateId"`
	Title           string `json:"title"`
	ConfigJSON      string `json:"configJson"`
	PositionX       *int   `json:"positionX"`
	PositionY       *int   `json:"positionY"`
	Width           *int   `json:"width"`
	Height          *int   `json:"height"`
	RefreshInterval *int   `json:"refreshInterval"`
}

// CreateWidgetInstanceHandler places a template on a dashboard
func (i WidgetInstance) CreateWidgetInstanceHandler(w http.ResponseWriter, r *http.Request) {
	dashID, err := primitive.ObjectIDFromHex(mux.Vars(r)["dashboard_id"])
	if err != nil {
		config.ErrorStatus("invalid dashboard ID", http.StatusBadRequest, w, err)
		return
	}

	var req createInstanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.TemplateID == "" {
		config.ErrorStatus("templateId is required", http.StatusBadRequest, w, errMissingField("templateId"))
		return
	}
	tID, err := primitive.ObjectIDFromHex(req.TemplateID)
	if err != nil {
		config.ErrorStatus("invalid template ID", http.StatusBadRequest, w, err)
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}
	if _, err := i.DDB.FindOne(r.Context(), bson.M{
		"_id": dashID,
		"$or": []bson.M{{"createdBy": userID}, {"isShared": true}},
	}); err != nil {
		config.ErrorStatus("failed to get dashboard", http.StatusNotFound, w, err)
		return
	}

	template, err := i.TDB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get widget template", http.StatusNotFound, w, err)
		return
	}

	title := req.Title
	if title == "" {
		title = template.Name
	}

	instance := models.WidgetInstance{
		ID:              primitive.NewObjectID(),
		DashboardID:     dashID,
		TemplateID:      tID,
		Title:           title,
		ConfigJSON:      req.ConfigJSON,
		PositionX:       intOrDefault(req.PositionX, 0),
		PositionY:       intOrDefault(req.PositionY, 0),
		Width:           intOrDefault(req.Width, 2),
		Height:          intOrDefault(req.Height, 2),
		RefreshInterval: intOrDefault(req.RefreshInterval, 60),
		CreatedAt:       primitive.NewDateTimeFromTime(time.Now()),
		UpdatedAt:       primitive.NewDateTimeFromTime(time.Now()),
	}

	_, err = i.DB.InsertOne(r.Context(), instance)
	if err != nil {
		config.ErrorStatus("failed to create widget instance", http.StatusInternalServerError, w, err)
		return
	}

	runtime := models.RuntimeWidget{
		WidgetInstance: instance,
		TemplateName:   template.Name,
		TemplateIcon:   template.Icon,
		Category:       template.Category,
		Type:           template.Type,
		DefaultConfig:  template.DefaultConfig,
		DataSource:     template.DataSource,
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(runtime)
}

// UpdateWidgetInstanceHandler updates an instance's title, config override or
// refresh interval
func (i WidgetInstance) UpdateWidgetInstanceHandler(w http.ResponseWriter, r *http.Request) {
	iID, err := primitive.ObjectIDFromHex(mux.Vars(r)["instance_id"])
	if err != nil {
		config.ErrorStatus("invalid instance ID", http.StatusBadRequest, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := i.instanceAccessible(r, iID); err != nil {
		config.ErrorStatus("failed to get widget instance", http.StatusNotFound, w, err)
		return
	}

	update := bson.M{}
	for _, key := range []string{"title", "configJson", "refreshInterval"} {
		if value, ok := updatedDetails[key]; ok {
			update[key] = value
		}
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err = i.DB.UpdateOne(r.Context(), bson.M{"_id": iID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update widget instance", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "widget instance updated successfully"}`))
}

// DeleteWidgetInstanceHandler removes a widget instance from its dashboard
func (i WidgetInstance) DeleteWidgetInstanceHandler(w http.ResponseWriter, r *http.Request) {
	iID, err := primitive.ObjectIDFromHex(mux.Vars(r)["instance_id"])
	if err != nil {
		config.ErrorStatus("invalid instance ID", http.StatusBadRequest, w, err)
		return
	}

	if err := i.instanceAccessible(r, iID); err != nil {
		config.ErrorStatus("failed to get widget instance", http.StatusNotFound, w, err)
		return
	}

	if _, err := i.DB.DeleteOne(r.Context(), bson.M{"_id": iID}); err != nil {
		config.ErrorStatus("failed to delete widget instance", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "widget instance deleted successfully"}`))
}

// instanceAccessible verifies the caller may change the instance: its parent
// dashboard must be owned by the caller or shared, the same gate placing a
// widget passes. Inaccessible instances read as not found.
func (i WidgetInstance) instanceAccessible(r *http.Request, instanceID primitive.ObjectID) error {
	userID, err := callerObjectID(r)
	if err != nil {
		return err
	}
	instance, err := i.DB.FindOne(r.Context(), bson.M{"_id": instanceID})
	if err != nil {
		return err
	}
	_, err = i.DDB.FindOne(r.Context(), bson.M{
		"_id": instance.DashboardID,
		"$or": []bson.M{{"createdBy": userID}, {"isShared": true}},
	})
	return err
}

func intOrDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
