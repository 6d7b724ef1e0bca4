package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WidgetTemplate holds the structure for the widgetTemplates collection in mongo.
// Templates are the immutable catalog entries widgets are stamped from; the
// built-in set is seeded at startup and marked IsSystem.
type WidgetTemplate struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Description   string             `json:"description" bson:"description"`
	Category      string             `json:"category" bson:"category"`
	Type          string             `json:"type" bson:"type"`
	Icon          string             `json:"icon" bson:"icon"`
	DefaultConfig string             `json:"defaultConfig" bson:"defaultConfig"`
	DataSource    string             `json:"dataSource" bson:"dataSource"`
	IsSystem      bool               `json:"isSystem" bson:"isSystem"`
	CreatedBy     primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// WidgetInstance holds the structure for the widgetInstances collection in
// mongo. An instance places a template on a dashboard with its own overrides.
type WidgetInstance struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	DashboardID     primitive.ObjectID `json:"dashboardId" bson:"dashboardId"`
	TemplateID      primitive.ObjectID `json:"templateId" bson:"templateId"`
	Title           string             `json:"title" bson:"title"`
	ConfigJSON      string             `json:"configJson" bson:"configJson"`
	PositionX       int                `json:"positionX" bson:"positionX"`
	PositionY       int                `json:"positionY" bson:"positionY"`
	Width           int                `json:"width" bson:"width"`
	Height          int                `json:"height" bson:"height"`
	RefreshInterval int                `json:"refreshInterval" bson:"refreshInterval"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// RuntimeWidget is a widget instance joined with the template fields the
// render pipeline needs. This is the shape the dashboard detail endpoint
// returns and the renderer consumes.
type RuntimeWidget struct {
	WidgetInstance `bson:",inline"`
	TemplateName   string `json:"templateName"`
	TemplateIcon   string `json:"templateIcon"`
	Category       string `json:"category"`
	Type           string `json:"type"`
	DefaultConfig  string `json:"defaultConfig"`
	DataSource     string `json:"dataSource"`
}

// RenderedWidget is the display payload produced by the renderer for one
// widget instance. Exactly one of Payload or Error is set.
type RenderedWidget struct {
	InstanceID string      `json:"instanceId"`
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload,omitempty"`
	Error      string      `json:"error,omitempty"`
	RenderedAt time.Time   `json:"renderedAt"`
}
