package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/api"
	"github.com/infinitelyweird/OpenClaw-Dashboard/api/scheduler"
	"github.com/infinitelyweird/OpenClaw-Dashboard/config"
	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
	"github.com/infinitelyweird/OpenClaw-Dashboard/seed"
	"github.com/infinitelyweird/OpenClaw-Dashboard/widget"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Metrics   *api.MetricsCollector
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
	client    databases.ClientHelper
	startTime time.Time
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	fetcher := widget.NewFetcher(a.Config.BaseURL, os.Getenv("WIDGET_SERVICE_TOKEN"), time.Duration(a.Config.WidgetFetchTimeout)*time.Second)
	resolver := widget.NewResolver(newVariableSource(databases.NewWidgetVariableDatabase(a.dbHelper)))
	sessions := widget.NewSessionRegistry(resolver, fetcher)

	userDB := databases.NewUserDatabase(a.dbHelper)
	taskDB := databases.NewTaskDatabase(a.dbHelper)

	d := Dashboard{
		DB:       databases.NewDashboardDatabase(a.dbHelper),
		IDB:      databases.NewWidgetInstanceDatabase(a.dbHelper),
		TDB:      databases.NewWidgetTemplateDatabase(a.dbHelper),
		UDB:      userDB,
		Sessions: sessions,
	}
	t := WidgetTemplate{DB: databases.NewWidgetTemplateDatabase(a.dbHelper)}
	i := WidgetInstance{
		DB:  databases.NewWidgetInstanceDatabase(a.dbHelper),
		TDB: databases.NewWidgetTemplateDatabase(a.dbHelper),
		DDB: databases.NewDashboardDatabase(a.dbHelper),
	}
	v := Variable{
		DB:       databases.NewWidgetVariableDatabase(a.dbHelper),
		IDB:      databases.NewWidgetInstanceDatabase(a.dbHelper),
		UDB:      userDB,
		Resolver: resolver,
	}
	render := Render{
		DDB:      databases.NewDashboardDatabase(a.dbHelper),
		IDB:      databases.NewWidgetInstanceDatabase(a.dbHelper),
		TDB:      databases.NewWidgetTemplateDatabase(a.dbHelper),
		Sessions: sessions,
	}
	task := Task{DB: taskDB}
	p := Project{DB: databases.NewProjectDatabase(a.dbHelper), TDB: taskDB}
	u := User{DB: userDB}
	sys := System{TDB: taskDB, UDB: userDB, Client: a.client, StartTime: a.startTime}
	st := SpeedTest{DB: databases.NewSpeedTestDatabase(a.dbHelper), Runner: NewHTTPSpeedTestRunner()}
	admin := Admin{ADB: databases.NewAuditLogDatabase(a.dbHelper), Metrics: a.Metrics}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	if a.Metrics != nil {
		r.Use(a.Metrics.MetricsMiddleware)
	}

	audit := api.AuditMiddleware(databases.NewAuditLogDatabase(a.dbHelper))
	timeout := api.TimeoutMiddleware(30 * time.Second)
	secured := func(h http.HandlerFunc) http.Handler {
		return api.Middleware(timeout(audit(h)))
	}
	telemetry := func(h http.HandlerFunc) http.Handler {
		return api.Middleware(timeout(h))
	}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/register", http.HandlerFunc(u.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}/approve", secured(u.ApproveUserHandler)).Methods("PUT")
	apiCreate.Handle("/user/{user_id}", secured(u.UserHandler)).Methods("GET")

	apiCreate.Handle("/dashboards", secured(d.DashboardsHandler)).Methods("GET")
	apiCreate.Handle("/dashboards", secured(d.CreateDashboardHandler)).Methods("POST")
	apiCreate.Handle("/dashboards/{dashboard_id}", secured(d.DashboardByIDHandler)).Methods("GET")
	apiCreate.Handle("/dashboards/{dashboard_id}", secured(d.UpdateDashboardHandler)).Methods("PUT")
	apiCreate.Handle("/dashboards/{dashboard_id}", secured(d.DeleteDashboardHandler)).Methods("DELETE")
	apiCreate.Handle("/dashboards/{dashboard_id}/layout", secured(d.UpdateLayoutHandler)).Methods("PUT")
	apiCreate.Handle("/dashboards/{dashboard_id}/widgets", secured(i.CreateWidgetInstanceHandler)).Methods("POST")
	apiCreate.Handle("/dashboards/{dashboard_id}/widgets/{instance_id}/render", secured(render.RenderWidgetHandler)).Methods("GET")
	apiCreate.Handle("/dashboards/{dashboard_id}/live", api.Middleware(http.HandlerFunc(render.LiveDashboardHandler))).Methods("GET")

	apiCreate.Handle("/widgets/templates", secured(t.WidgetTemplatesHandler)).Methods("GET")
	apiCreate.Handle("/widgets/templates", secured(t.CreateWidgetTemplateHandler)).Methods("POST")
	apiCreate.Handle("/widgets/templates/{template_id}", secured(t.WidgetTemplateByIDHandler)).Methods("GET")
	apiCreate.Handle("/widgets/templates/{template_id}", secured(t.DeleteWidgetTemplateHandler)).Methods("DELETE")

	apiCreate.Handle("/widgets/instances/{instance_id}", secured(i.UpdateWidgetInstanceHandler)).Methods("PUT")
	apiCreate.Handle("/widgets/instances/{instance_id}", secured(i.DeleteWidgetInstanceHandler)).Methods("DELETE")

	apiCreate.Handle("/widgets/variables", secured(v.VariablesHandler)).Methods("GET")
	apiCreate.Handle("/widgets/variables", secured(v.CreateVariableHandler)).Methods("POST")
	apiCreate.Handle("/widgets/variables/resolve", secured(v.ResolveHandler)).Methods("POST")
	apiCreate.Handle("/widgets/variables/{variable_id}", secured(v.UpdateVariableHandler)).Methods("PUT")
	apiCreate.Handle("/widgets/variables/{variable_id}", secured(v.DeleteVariableHandler)).Methods("DELETE")

	apiCreate.Handle("/widgets/system/cpu", telemetry(sys.CPUHandler)).Methods("GET")
	apiCreate.Handle("/widgets/system/memory", telemetry(sys.MemoryHandler)).Methods("GET")
	apiCreate.Handle("/widgets/system/storage", telemetry(sys.StorageHandler)).Methods("GET")
	apiCreate.Handle("/widgets/system/network", telemetry(sys.NetworkHandler)).Methods("GET")
	apiCreate.Handle("/widgets/system/os", telemetry(sys.OSHandler)).Methods("GET")
	apiCreate.Handle("/widgets/system/processes", telemetry(sys.ProcessesHandler)).Methods("GET")
	apiCreate.Handle("/widgets/openclaw/status", telemetry(sys.AppStatusHandler)).Methods("GET")
	apiCreate.Handle("/widgets/users/stats", telemetry(sys.UserStatsHandler)).Methods("GET")

	apiCreate.Handle("/tasks", secured(task.TasksHandler)).Methods("GET")
	apiCreate.Handle("/tasks", secured(task.CreateTaskHandler)).Methods("POST")
	apiCreate.Handle("/tasks/{task_id}", secured(task.TaskByIDHandler)).Methods("GET")
	apiCreate.Handle("/tasks/{task_id}", secured(task.UpdateTaskHandler)).Methods("PUT")
	apiCreate.Handle("/tasks/{task_id}", secured(task.DeleteTaskHandler)).Methods("DELETE")

	apiCreate.Handle("/projects", secured(p.ProjectsHandler)).Methods("GET")
	apiCreate.Handle("/projects", secured(p.CreateProjectHandler)).Methods("POST")
	apiCreate.Handle("/projects/{project_id}", secured(p.UpdateProjectHandler)).Methods("PUT")
	apiCreate.Handle("/projects/{project_id}", secured(p.DeleteProjectHandler)).Methods("DELETE")

	apiCreate.Handle("/speedtest/latest", telemetry(st.LatestHandler)).Methods("GET")
	apiCreate.Handle("/speedtest/history", telemetry(st.HistoryHandler)).Methods("GET")
	apiCreate.Handle("/speedtest/run", api.Middleware(audit(http.HandlerFunc(st.RunHandler)))).Methods("POST")

	apiCreate.Handle("/admin/audit-logs", secured(admin.AuditLogsHandler)).Methods("GET")
	apiCreate.Handle("/admin/metrics", secured(admin.MetricsHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	a.startTime = time.Now()

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("openclaw-dashboard has connected to the database")

	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()
	if err := seed.Templates(ctx, databases.NewWidgetTemplateDatabase(a.dbHelper)); err != nil {
		zap.S().Errorw("failed to seed widget templates", "error", err)
	}

	a.Metrics = api.NewMetricsCollector()

	// initialize api router
	a.initializeRoutes()

	st := SpeedTest{DB: databases.NewSpeedTestDatabase(a.dbHelper), Runner: NewHTTPSpeedTestRunner()}
	a.Scheduler = scheduler.New(a.Config.SpeedTestInterval, st.RunAndStore)
	a.Scheduler.Start()

	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

func getPage(Page int, r *http.Request) int {
	if r.URL.Query().Get("page") == "" {
		zap.S().Warnf("page not set, using default of %v", Page)
	} else {
		var err error
		Page, err = strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			zap.S().Errorf(fmt.Sprintf("error parsing page number: %v", err))
		}
		if Page < 0 {
			zap.S().Warnf(fmt.Sprintf("cannot process page number less than 1. Got: %v", Page))
			return 0
		}
	}
	return Page
}
