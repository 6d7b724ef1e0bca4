package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/infinitelyweird/OpenClaw-Dashboard/api/handlers"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	mocksdb "github.com/infinitelyweird/OpenClaw-Dashboard/databases/mocks"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func widgetInstanceMocks(dashboardID primitive.ObjectID, dashboardAccessible bool) (*mocksdb.DatabaseHelper, *mocksdb.CollectionHelper) {
	db := &mocksdb.DatabaseHelper{}
	instanceConn := &mocksdb.CollectionHelper{}
	dashConn := &mocksdb.CollectionHelper{}
	instanceResult := &mocksdb.SingleResultHelper{}
	dashResult := &mocksdb.SingleResultHelper{}

	instanceResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.WidgetInstance)
		(*arg).DashboardID = dashboardID
	})
	instanceConn.On("FindOne", mock.Anything, mock.Anything).Return(instanceResult)

	if dashboardAccessible {
		dashResult.On("Decode", mock.Anything).Return(nil)
	} else {
		dashResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	}
	dashConn.On("FindOne", mock.Anything, mock.Anything).Return(dashResult)

	db.On("Collection", "widgetInstances").Return(instanceConn)
	db.On("Collection", "dashboards").Return(dashConn)
	return db, instanceConn
}

func TestWidgetInstance_UpdateHandlerInaccessibleDashboard(t *testing.T) {
	instanceID := primitive.NewObjectID()
	req, err := http.NewRequest("PUT", "/api/v1/widgets/instances/"+instanceID.Hex(), strings.NewReader(`{"title": "hijacked"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"instance_id": instanceID.Hex()})
	req = authenticatedRequest(req, primitive.NewObjectID())

	db, instanceConn := widgetInstanceMocks(primitive.NewObjectID(), false)
	i := handlers.WidgetInstance{
		DB:  databases.NewWidgetInstanceDatabase(db),
		DDB: databases.NewDashboardDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(i.UpdateWidgetInstanceHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	instanceConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidgetInstance_DeleteHandlerInaccessibleDashboard(t *testing.T) {
	instanceID := primitive.NewObjectID()
	req, err := http.NewRequest("DELETE", "/api/v1/widgets/instances/"+instanceID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"instance_id": instanceID.Hex()})
	req = authenticatedRequest(req, primitive.NewObjectID())

	db, instanceConn := widgetInstanceMocks(primitive.NewObjectID(), false)
	i := handlers.WidgetInstance{
		DB:  databases.NewWidgetInstanceDatabase(db),
		DDB: databases.NewDashboardDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(i.DeleteWidgetInstanceHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusNotFound {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusNotFound)
	}
	instanceConn.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestWidgetInstance_UpdateHandlerAccessibleDashboard(t *testing.T) {
	instanceID := primitive.NewObjectID()
	req, err := http.NewRequest("PUT", "/api/v1/widgets/instances/"+instanceID.Hex(), strings.NewReader(`{"refreshInterval": 30}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"instance_id": instanceID.Hex()})
	req = authenticatedRequest(req, primitive.NewObjectID())

	db, instanceConn := widgetInstanceMocks(primitive.NewObjectID(), true)
	instanceConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	i := handlers.WidgetInstance{
		DB:  databases.NewWidgetInstanceDatabase(db),
		DDB: databases.NewDashboardDatabase(db),
	}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(i.UpdateWidgetInstanceHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}
	instanceConn.AssertCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}
