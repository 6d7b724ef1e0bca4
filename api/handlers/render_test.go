package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/infinitelyweird/OpenClaw-Dashboard/api/handlers"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	mocksdb "github.com/infinitelyweird/OpenClaw-Dashboard/databases/mocks"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRender_RenderWidgetHandlerInaccessibleDashboard(t *testing.T) {
	dashID := primitive.NewObjectID()
	instanceID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/dashboards/"+dashID.Hex()+"/widgets/"+instanceID.Hex()+"/render", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"dashboard_id": dashID.Hex(), "instance_id": instanceID.Hex()})
	req = authenticatedRequest(req, primitive.NewObjectID())

	db := &mocksdb.DatabaseHelper{}
	dashConn := &mocksdb.CollectionHelper{}
	instanceConn := &mocksdb.CollectionHelper{}
	singleResult := &mocksdb.SingleResultHelper{}

	singleResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	dashConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.On("Collection", "dashboards").Return(dashConn)
	db.On("Collection", "widgetInstances").Return(instanceConn)

	h := handlers.Render{
		DDB: databases.NewDashboardDatabase(db),
		IDB: databases.NewWidgetInstanceDatabase(db),
		TDB: databases.NewWidgetTemplateDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.RenderWidgetHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	instanceConn.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestRender_LiveDashboardHandlerInaccessibleDashboard(t *testing.T) {
	dashID := primitive.NewObjectID()
	req, err := http.NewRequest("GET", "/api/v1/dashboards/"+dashID.Hex()+"/live", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"dashboard_id": dashID.Hex()})
	req = authenticatedRequest(req, primitive.NewObjectID())

	db := &mocksdb.DatabaseHelper{}
	dashConn := &mocksdb.CollectionHelper{}
	singleResult := &mocksdb.SingleResultHelper{}

	singleResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	dashConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.On("Collection", "dashboards").Return(dashConn)

	h := handlers.Render{
		DDB: databases.NewDashboardDatabase(db),
		IDB: databases.NewWidgetInstanceDatabase(db),
		TDB: databases.NewWidgetTemplateDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.LiveDashboardHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
}
