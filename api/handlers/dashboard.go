package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/api"
	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
	"github.com/infinitelyweird/OpenClaw-Dashboard/widget"
)

// Dashboard exported for testing purposes
type Dashboard struct {
	DB       databases.DashboardDatabase
	IDB      databases.WidgetInstanceDatabase
	TDB      databases.WidgetTemplateDatabase
	UDB      databases.UserDatabase
	Sessions *widget.SessionRegistry
}

// DashboardsHandler returns the caller's own dashboards plus shared ones,
// each with its widget count and creator name
func (d Dashboard) DashboardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{"$or": []bson.M{
		{"createdBy": userID},
		{"isShared": true},
	}}
	dbResp, err := d.DB.Find(r.Context(), filter)
	if err != nil {
		config.ErrorStatus("failed to get dashboards", http.StatusNotFound, w, err)
		return
	}

	summaries := make([]models.DashboardSummary, 0, len(dbResp))
	for _, dash := range dbResp {
		count, err := d.IDB.CountDocuments(r.Context(), bson.M{"dashboardId": dash.ID})
		if err != nil {
			zap.S().Warnw("failed to count dashboard widgets", "dashboardId", dash.ID.Hex(), "error", err)
		}
		summaries = append(summaries, models.DashboardSummary{
			Dashboard:     dash,
			WidgetCount:   count,
			CreatedByName: d.creatorName(r.Context(), dash.CreatedBy),
		})
	}

	b, err := json.Marshal(summaries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateDashboardHandler creates a new dashboard
func (d Dashboard) CreateDashboardHandler(w http.ResponseWriter, r *http.Request) {
	var newDashboard models.Dashboard
	if err := json.NewDecoder(r.Body).Decode(&newDashboard); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newDashboard.Name == "" {
		config.ErrorStatus("dashboard name is required", http.StatusBadRequest, w, errMissingField("name"))
		return
	}
	if newDashboard.Icon == "" {
		newDashboard.Icon = "📊"
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}

	newDashboard.ID = primitive.NewObjectID()
	newDashboard.CreatedBy = userID
	newDashboard.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	newDashboard.UpdatedAt = newDashboard.CreatedAt

	_, err = d.DB.InsertOne(r.Context(), newDashboard)
	if err != nil {
		config.ErrorStatus("failed to create new dashboard", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newDashboard)
}

// DashboardByIDHandler returns a dashboard with its widget instances joined
// against their templates, ordered by grid position
func (d Dashboard) DashboardByIDHandler(w http.ResponseWriter, r *http.Request) {
	dash, status, err := d.accessibleDashboard(r)
	if err != nil {
		config.ErrorStatus("failed to get dashboard", status, w, err)
		return
	}

	widgets, err := JoinDashboardWidgets(r.Context(), d.IDB, d.TDB, dash.ID)
	if err != nil {
		config.ErrorStatus("failed to get dashboard widgets", http.StatusInternalServerError, w, err)
		return
	}

	detail := models.DashboardDetail{
		Dashboard:     *dash,
		CreatedByName: d.creatorName(r.Context(), dash.CreatedBy),
		Widgets:       widgets,
	}
	b, err := json.Marshal(detail)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateDashboardHandler updates a dashboard's details, owner only
func (d Dashboard) UpdateDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, status, err := d.ownedDashboard(r)
	if err != nil {
		config.ErrorStatus("failed to get dashboard", status, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{}
	for _, key := range []string{"name", "description", "icon", "isShared", "isDefault"} {
		if value, ok := updatedDetails[key]; ok {
			update[key] = value
		}
	}
	update["updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	err = d.DB.UpdateOne(r.Context(), bson.M{"_id": dash.ID}, bson.M{"$set": update})
	if err != nil {
		config.ErrorStatus("failed to update dashboard", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "dashboard updated successfully"}`))
}

// DeleteDashboardHandler deletes a dashboard and its widget instances, owner only
func (d Dashboard) DeleteDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dash, status, err := d.ownedDashboard(r)
	if err != nil {
		config.ErrorStatus("failed to get dashboard", status, w, err)
		return
	}

	if _, err := d.IDB.DeleteMany(r.Context(), bson.M{"dashboardId": dash.ID}); err != nil {
		config.ErrorStatus("failed to delete dashboard widgets", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := d.DB.DeleteOne(r.Context(), bson.M{"_id": dash.ID}); err != nil {
		config.ErrorStatus("failed to delete dashboard", http.StatusInternalServerError, w, err)
		return
	}
	if d.Sessions != nil {
		d.Sessions.Drop(dash.ID.Hex())
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "dashboard deleted successfully"}`))
}

// UpdateLayoutHandler bulk-updates widget positions and sizes, owner or shared
func (d Dashboard) UpdateLayoutHandler(w http.ResponseWriter, r *http.Request) {
	dash, status, err := d.accessibleDashboard(r)
	if err != nil {
		config.ErrorStatus("failed to get dashboard", status, w, err)
		return
	}

	var layout []models.LayoutItem
	if err := json.NewDecoder(r.Body).Decode(&layout); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	for _, item := range layout {
		iID, err := primitive.ObjectIDFromHex(item.InstanceID)
		if err != nil {
			zap.S().Warnw("skipping layout item with bad instance id", "instanceId", item.InstanceID)
			continue
		}
		err = d.IDB.UpdateOne(r.Context(),
			bson.M{"_id": iID, "dashboardId": dash.ID},
			bson.M{"$set": bson.M{
				"positionX": item.X,
				"positionY": item.Y,
				"width":     item.Width,
				"height":    item.Height,
				"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
			}})
		if err != nil {
			config.ErrorStatus("failed to update widget layout", http.StatusInternalServerError, w, err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "layout updated successfully"}`))
}

// accessibleDashboard loads the dashboard when the caller owns it or it is
// shared. Inaccessible dashboards read as 404, not 403, so their existence
// is not revealed.
func (d Dashboard) accessibleDashboard(r *http.Request) (*models.Dashboard, int, error) {
	dashID, err := primitive.ObjectIDFromHex(mux.Vars(r)["dashboard_id"])
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	userID, err := callerObjectID(r)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}
	dash, err := d.DB.FindOne(r.Context(), bson.M{
		"_id": dashID,
		"$or": []bson.M{{"createdBy": userID}, {"isShared": true}},
	})
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	return dash, http.StatusOK, nil
}

func (d Dashboard) ownedDashboard(r *http.Request) (*models.Dashboard, int, error) {
	dashID, err := primitive.ObjectIDFromHex(mux.Vars(r)["dashboard_id"])
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	userID, err := callerObjectID(r)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}
	dash, err := d.DB.FindOne(r.Context(), bson.M{"_id": dashID, "createdBy": userID})
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	return dash, http.StatusOK, nil
}

func (d Dashboard) creatorName(ctx context.Context, userID primitive.ObjectID) string {
	user, err := d.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return ""
	}
	return user.Username
}

// JoinDashboardWidgets loads a dashboard's widget instances joined with the
// template fields the renderer needs, ordered by Y then X
func JoinDashboardWidgets(ctx context.Context, idb databases.WidgetInstanceDatabase, tdb databases.WidgetTemplateDatabase, dashboardID primitive.ObjectID) ([]models.RuntimeWidget, error) {
	instances, err := idb.Find(ctx, bson.M{"dashboardId": dashboardID})
	if err != nil {
		return nil, err
	}

	widgets := make([]models.RuntimeWidget, 0, len(instances))
	for _, instance := range instances {
		rw := models.RuntimeWidget{WidgetInstance: instance}
		template, err := tdb.FindOne(ctx, bson.M{"_id": instance.TemplateID})
		if err != nil {
			// orphaned instance, render it with what it has
			zap.S().Warnw("widget instance has no template", "instanceId", instance.ID.Hex())
		} else {
			rw.TemplateName = template.Name
			rw.TemplateIcon = template.Icon
			rw.Category = template.Category
			rw.Type = template.Type
			rw.DefaultConfig = template.DefaultConfig
			rw.DataSource = template.DataSource
		}
		widgets = append(widgets, rw)
	}

	sort.SliceStable(widgets, func(i, j int) bool {
		if widgets[i].PositionY != widgets[j].PositionY {
			return widgets[i].PositionY < widgets[j].PositionY
		}
		return widgets[i].PositionX < widgets[j].PositionX
	})
	return widgets, nil
}

func callerObjectID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(api.UserIDFromContext(r.Context()))
}
