// Package seed installs the built-in widget template catalog on startup.
package seed

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

type template struct {
	Name        string
	Description string
	Category    string
	Type        string
	Icon        string
	Config      string
	DataSource  string
}

var builtins = []template{
	// monitoring
	{"CPU Usage Gauge", "Real-time CPU utilization gauge", "monitoring", "gauge", "🔥",
		`{"valuePath":"currentLoad","label":"CPU","unit":"%","thresholds":{"warning":70,"critical":90}}`,
		"/api/v1/widgets/system/cpu"},
	{"Memory Usage Gauge", "Real-time memory utilization gauge", "monitoring", "gauge", "🧠",
		`{"valuePath":"usedPercent","label":"Memory","unit":"%","thresholds":{"warning":70,"critical":90}}`,
		"/api/v1/widgets/system/memory"},
	{"Disk Usage Bars", "Storage usage per mount point", "monitoring", "chart", "💾",
		`{"chartType":"bar","labelPath":"mount","valuePath":"usedPercent","unit":"%"}`,
		"/api/v1/widgets/system/storage"},
	{"System Uptime", "System uptime display", "monitoring", "kpi", "⏱️",
		`{"valuePath":"uptimeFormatted","label":"Uptime"}`,
		"/api/v1/widgets/system/os"},
	{"Process Count", "Total running processes", "monitoring", "kpi", "⚡",
		`{"valuePath":"all","label":"Processes"}`,
		"/api/v1/widgets/system/processes"},
	{"CPU History Chart", "CPU usage over time", "monitoring", "chart", "📈",
		`{"chartType":"line","history":true,"maxPoints":30,"valuePath":"currentLoad","label":"CPU %"}`,
		"/api/v1/widgets/system/cpu"},
	{"Memory History Chart", "Memory usage over time", "monitoring", "chart", "📉",
		`{"chartType":"line","history":true,"maxPoints":30,"valuePath":"usedPercent","label":"Mem %"}`,
		"/api/v1/widgets/system/memory"},
	{"Top Processes Table", "Top CPU/memory consuming processes", "monitoring", "table", "📋",
		`{"dataPath":"topCpu","columns":["name","pid","cpu","mem"]}`,
		"/api/v1/widgets/system/processes"},
	{"Service Status Checker", "Check status of configured services", "monitoring", "status", "🟢",
		`{"services":[{"name":"Web Server","url":"/api/v1/widgets/openclaw/status"}]}`,
		""},

	// network
	{"Speed Test Latest", "Latest speed test results", "network", "kpi", "📶",
		`{"valuePath":"download","label":"Download","unit":"Mbps","secondaryPaths":[{"path":"upload","label":"Upload"},{"path":"ping","label":"Ping","unit":"ms"}]}`,
		"/api/v1/speedtest/latest"},
	{"Speed Test History Chart", "Speed test trends over time", "network", "chart", "📈",
		`{"chartType":"line","labelPath":"testedAt","series":[{"valuePath":"download","label":"Download"},{"valuePath":"upload","label":"Upload"}]}`,
		"/api/v1/speedtest/history"},
	{"Bandwidth Monitor", "Real-time network rx/tx", "network", "chart", "🌐",
		`{"chartType":"line","history":true,"maxPoints":30,"series":[{"valuePath":"0.rxSec","label":"RX"},{"valuePath":"0.txSec","label":"TX"}]}`,
		"/api/v1/widgets/system/network"},
	{"Network Interfaces", "List of network interfaces and stats", "network", "list", "🔌",
		`{"itemTemplate":"{{iface}}: RX {{rxBytes}} / TX {{txBytes}}"}`,
		"/api/v1/widgets/system/network"},

	// security
	{"Security Score", "Overall security posture score", "security", "gauge", "🛡️",
		`{"valuePath":"score","label":"Security","max":100,"thresholds":{"warning":60,"critical":40},"invertThresholds":true}`,
		"/api/v1/network-security/score"},
	{"Open Ports Scanner", "Table of open ports", "security", "table", "🔓",
		`{"columns":["port","protocol","service","state"]}`,
		"/api/v1/network-security/ports"},
	{"Failed Login Attempts", "Failed login attempts over time", "security", "chart", "⚠️",
		`{"chartType":"bar","labelPath":"date","valuePath":"count"}`,
		"/api/v1/admin/audit-logs?action=login_failed"},
	{"Recent Audit Events", "Latest audit log entries", "security", "list", "📜",
		`{"itemTemplate":"{{action}} by {{username}} at {{timestamp}}","dataPath":"logs"}`,
		"/api/v1/admin/audit-logs?limit=10"},
	{"Firewall Status", "Firewall rules and status", "security", "status", "🧱",
		`{"statusPath":"enabled","label":"Firewall"}`,
		"/api/v1/network-security/firewall"},

	// tasks
	{"Active Tasks Count", "Number of active tasks", "tasks", "kpi", "✅",
		`{"valuePath":"tasks.openTasks","label":"Active Tasks"}`,
		"/api/v1/widgets/openclaw/status"},
	{"Tasks by Status", "Task distribution by status", "tasks", "chart", "🍩",
		`{"chartType":"donut","dataMap":{"Open":"tasks.openTasks","In Progress":"tasks.inProgressTasks","Completed":"tasks.completedTasks"}}`,
		"/api/v1/widgets/openclaw/status"},
	{"Tasks by Priority", "Task distribution by priority", "tasks", "chart", "🎯",
		`{"chartType":"bar","dataMap":{"P1 Critical":"tasks.p1Tasks","P2 High":"tasks.p2Tasks","P3 Medium":"tasks.p3Tasks","P4 Low":"tasks.p4Tasks"}}`,
		"/api/v1/widgets/openclaw/status"},
	{"My Tasks", "Your assigned tasks", "tasks", "list", "📋",
		`{"itemTemplate":"{{title}} — {{status}}","dataPath":"tasks"}`,
		"/api/v1/tasks?assignedToMe=true"},
	{"Recent Task Activity", "Latest task updates", "tasks", "list", "🔄",
		`{"itemTemplate":"{{title}} updated {{updatedAt}}","dataPath":"tasks"}`,
		"/api/v1/tasks?sort=updated&limit=10"},
	{"Overdue Tasks", "Tasks past their due date", "tasks", "table", "🚨",
		`{"dataPath":"tasks","columns":["title","dueDate","priority","assignedTo"]}`,
		"/api/v1/tasks?overdue=true"},
	{"Task Completion Rate", "Percentage of completed tasks", "tasks", "gauge", "📊",
		`{"compute":"tasks.completedTasks / tasks.totalTasks * 100","label":"Completion","unit":"%"}`,
		"/api/v1/widgets/openclaw/status"},

	// deployment
	{"Recent Deployments", "Latest deployment history", "deployment", "list", "🚀",
		`{"itemTemplate":"{{name}} → {{environment}} ({{status}})","dataPath":"deployments"}`,
		"/api/v1/deployments?limit=10"},
	{"Deployment Success Rate", "Deployment success percentage", "deployment", "gauge", "✅",
		`{"valuePath":"successRate","label":"Success Rate","unit":"%"}`,
		"/api/v1/deployments/stats"},
	{"Pipeline Status", "Current pipeline statuses", "deployment", "status", "🔄",
		`{"namePath":"name","statusPath":"status"}`,
		"/api/v1/deployments/pipelines"},
	{"Deploy Frequency", "Deployments per day/week", "deployment", "chart", "📊",
		`{"chartType":"bar","labelPath":"date","valuePath":"count"}`,
		"/api/v1/deployments/frequency"},

	// custom
	{"Markdown Note", "User-editable markdown note", "custom", "text", "📝",
		`{"content":"# My Note\n\nEdit this widget to add your content.","editable":true}`,
		""},
	{"Iframe Embed", "Embed any webpage", "custom", "iframe", "🖼️",
		`{"url":"https://example.com","sandbox":"allow-scripts allow-same-origin"}`,
		""},
	{"API Poller", "Poll any API endpoint and display result", "custom", "api-poll", "🔗",
		`{"endpoint":"","jsonPath":"","label":"API Result","method":"GET"}`,
		""},
	{"Clock / Timezone", "Current time in a timezone", "custom", "kpi", "🕐",
		`{"timezone":"America/New_York","label":"Local Time","format":"time"}`,
		""},
	{"Countdown Timer", "Countdown to a target date", "custom", "kpi", "⏳",
		`{"targetDate":"2026-12-31T00:00:00","label":"Countdown","format":"countdown"}`,
		""},
	{"RSS Feed Reader", "Display items from an RSS feed", "custom", "list", "📰",
		`{"feedUrl":"","maxItems":10}`,
		""},
	{"Quick Links", "Configurable list of links", "custom", "list", "🔗",
		`{"links":[{"label":"Google","url":"https://google.com","icon":"🔍"}]}`,
		""},
	{"Custom KPI", "Display a value from any API", "custom", "kpi", "🎯",
		`{"endpoint":"","jsonPath":"","label":"Custom KPI","unit":""}`,
		""},
}

// Templates inserts any built-in templates that are not already present.
// Matching is by name so upgrades add new templates without duplicating or
// overwriting existing ones.
func Templates(ctx context.Context, db databases.WidgetTemplateDatabase) error {
	seeded := 0
	for _, t := range builtins {
		_, err := db.FindOne(ctx, bson.M{"name": t.Name, "isSystem": true})
		if err == nil {
			continue
		}

		doc := models.WidgetTemplate{
			Name:          t.Name,
			Description:   t.Description,
			Category:      t.Category,
			Type:          t.Type,
			Icon:          t.Icon,
			DefaultConfig: t.Config,
			DataSource:    t.DataSource,
			IsSystem:      true,
			CreatedAt:     primitive.NewDateTimeFromTime(time.Now()),
		}
		if _, err := db.InsertOne(ctx, doc); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		zap.S().Infow("Seeded widget templates", "count", seeded)
	}
	return nil
}
