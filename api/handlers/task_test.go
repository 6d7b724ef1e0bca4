package handlers_test

import (
	"encoding/json"
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestTask_TasksHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/tasks?limit=5&page=0", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = authenticatedRequest(req, primitive.NewObjectID())

	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}

	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Task)
		*arg = []models.Task{
			{Title: "Rotate TLS certs", Status: models.TaskStatusOpen, Priority: 2},
			{Title: "Upgrade mongo", Status: models.TaskStatusInProgress, Priority: 1},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "tasks").Return(conn)

	h := handlers.Task{DB: databases.NewTaskDatabase(db)}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.TasksHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	var tasks []models.Task
	if err := json.Unmarshal(rr.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected 2 tasks, got %v", len(tasks))
	}
	if tasks[0].Title != "Rotate TLS certs" {
		t.Errorf("expected first task 'Rotate TLS certs', got %v", tasks[0].Title)
	}
}

func TestTask_TasksHandlerPageDoesNotLeakBetweenRequests(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	cursor := &mocksdb.CursorHelper{}

	var skips []int64
	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor).Run(func(args mock.Arguments) {
		opts := args.Get(2).(*options.FindOptions)
		skips = append(skips, *opts.Skip)
	})
	db.On("Collection", "tasks").Return(conn)

	h := handlers.Task{DB: databases.NewTaskDatabase(db)}
	serve := func(target string) {
		req, err := http.NewRequest("GET", target, nil)
		if err != nil {
			t.Fatal(err)
		}
		req = authenticatedRequest(req, primitive.NewObjectID())
		rr := httptest.NewRecorder()
		http.HandlerFunc(h.TasksHandler).ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
	}

	serve("/api/v1/tasks?limit=5&page=3")
	serve("/api/v1/tasks?limit=5")

	if len(skips) != 2 {
		t.Fatalf("expected 2 queries, got %v", len(skips))
	}
	if skips[0] != 15 {
		t.Errorf("expected first query skip 15, got %v", skips[0])
	}
	if skips[1] != 0 {
		t.Errorf("expected second query skip 0, got %v", skips[1])
	}
}

func TestTask_CreateTaskHandlerMissingTitle(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/tasks", strings.NewReader(`{"description": "no title"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = authenticatedRequest(req, primitive.NewObjectID())

	h := handlers.Task{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.CreateTaskHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestTask_CreateTaskHandlerInvalidStatus(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/tasks",
		strings.NewReader(`{"title": "Ship it", "status": "Parked"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = authenticatedRequest(req, primitive.NewObjectID())

	h := handlers.Task{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.CreateTaskHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestTask_UpdateTaskHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("PUT", "/api/v1/tasks/1234", strings.NewReader(`{"status": "Completed"}`))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"task_id": "1234"})

	h := handlers.Task{}

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(h.UpdateTaskHandler)
	handler.ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}

	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "invalid task ID", Error: "the provided hex string is not a valid ObjectID"}}
	b, _ := json.Marshal(expected)
	if rr.Body.String() != string(b) {
		t.Errorf("handler returned unexpected body: \ngot: %v \nwant: %v", rr.Body.String(), expected)
	}
}
