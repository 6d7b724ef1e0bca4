package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
	"github.com/infinitelyweird/OpenClaw-Dashboard/widget"
)

// Render exported for testing purposes
type Render struct {
	DDB      databases.DashboardDatabase
	IDB      databases.WidgetInstanceDatabase
	TDB      databases.WidgetTemplateDatabase
	Sessions *widget.SessionRegistry
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RenderWidgetHandler runs a one-shot server-side render of a widget instance
func (h Render) RenderWidgetHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dashID, err := primitive.ObjectIDFromHex(vars["dashboard_id"])
	if err != nil {
		config.ErrorStatus("invalid dashboard ID", http.StatusBadRequest, w, err)
		return
	}
	iID, err := primitive.ObjectIDFromHex(vars["instance_id"])
	if err != nil {
		config.ErrorStatus("invalid instance ID", http.StatusBadRequest, w, err)
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}
	if _, err := h.DDB.FindOne(r.Context(), bson.M{
		"_id": dashID,
		"$or": []bson.M{{"createdBy": userID}, {"isShared": true}},
	}); err != nil {
		config.ErrorStatus("failed to get dashboard", http.StatusNotFound, w, err)
		return
	}

	runtime, err := h.loadRuntimeWidget(r.Context(), dashID, iID)
	if err != nil {
		config.ErrorStatus("failed to get widget instance", http.StatusNotFound, w, err)
		return
	}

	session := h.Sessions.Session(dashID.Hex())
	rendered := session.Render(r.Context(), *runtime)

	b, err := json.Marshal(rendered)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// LiveDashboardHandler upgrades to a websocket and streams rendered widget
// frames. Each widget gets its own refresh ticker at its RefreshInterval;
// an interval of 0 renders once with no ticker. Closing the socket stops
// every ticker.
func (h Render) LiveDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashID, err := primitive.ObjectIDFromHex(mux.Vars(r)["dashboard_id"])
	if err != nil {
		config.ErrorStatus("invalid dashboard ID", http.StatusBadRequest, w, err)
		return
	}

	userID, err := callerObjectID(r)
	if err != nil {
		config.ErrorStatus("failed to get caller ID", http.StatusUnauthorized, w, err)
		return
	}
	if _, err := h.DDB.FindOne(r.Context(), bson.M{
		"_id": dashID,
		"$or": []bson.M{{"createdBy": userID}, {"isShared": true}},
	}); err != nil {
		config.ErrorStatus("failed to get dashboard", http.StatusNotFound, w, err)
		return
	}

	widgets, err := JoinDashboardWidgets(r.Context(), h.IDB, h.TDB, dashID)
	if err != nil {
		config.ErrorStatus("failed to get dashboard widgets", http.StatusNotFound, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := h.Sessions.Session(dashID.Hex())
	frames := make(chan models.RenderedWidget, len(widgets)+8)

	var wg sync.WaitGroup
	for _, rw := range widgets {
		rw := rw
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.renderLoop(ctx, session, rw, frames)
		}()
	}

	// reader pump: clients send nothing useful, a read error means the
	// socket closed and every ticker must stop
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	// drain the frame channel once all render loops have exited
	go func() {
		wg.Wait()
		close(frames)
	}()

	for frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			zap.S().Debugw("live dashboard write failed, closing", "dashboardId", dashID.Hex(), "error", err)
			cancel()
			break
		}
	}
	// frames rendered after the socket closed are discarded with the channel
	for range frames {
	}
}

// renderLoop renders a widget immediately and then on every refresh tick
func (h Render) renderLoop(ctx context.Context, session *widget.Session, rw models.RuntimeWidget, frames chan<- models.RenderedWidget) {
	emit := func() {
		rendered := session.Render(ctx, rw)
		select {
		case frames <- rendered:
		case <-ctx.Done():
		}
	}

	emit()
	if rw.RefreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(rw.RefreshInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			emit()
		case <-ctx.Done():
			return
		}
	}
}

func (h Render) loadRuntimeWidget(ctx context.Context, dashID, instanceID primitive.ObjectID) (*models.RuntimeWidget, error) {
	instance, err := h.IDB.FindOne(ctx, bson.M{"_id": instanceID, "dashboardId": dashID})
	if err != nil {
		return nil, err
	}

	runtime := models.RuntimeWidget{WidgetInstance: *instance}
	template, err := h.TDB.FindOne(ctx, bson.M{"_id": instance.TemplateID})
	if err != nil {
		zap.S().Warnw("widget instance has no template", "instanceId", instance.ID.Hex())
		return &runtime, nil
	}
	runtime.TemplateName = template.Name
	runtime.TemplateIcon = template.Icon
	runtime.Category = template.Category
	runtime.Type = template.Type
	runtime.DefaultConfig = template.DefaultConfig
	runtime.DataSource = template.DataSource
	return &runtime, nil
}
