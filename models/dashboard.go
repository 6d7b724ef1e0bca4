package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dashboard holds the structure for the dashboards collection in mongo
type Dashboard struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Icon        string             `json:"icon" bson:"icon"`
	IsShared    bool               `json:"isShared" bson:"isShared"`
	IsDefault   bool               `json:"isDefault" bson:"isDefault"`
	CreatedBy   primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// DashboardSummary is a dashboard row decorated for the dashboard picker
type DashboardSummary struct {
	Dashboard     `bson:",inline"`
	WidgetCount   int64  `json:"widgetCount"`
	CreatedByName string `json:"createdByName"`
}

// DashboardDetail is a dashboard with its widget instances joined against
// their templates, ordered by grid position
type DashboardDetail struct {
	Dashboard     `bson:",inline"`
	CreatedByName string          `json:"createdByName"`
	Widgets       []RuntimeWidget `json:"widgets"`
}

// LayoutItem carries one widget position/size update in a layout save
type LayoutItem struct {
	InstanceID string `json:"instanceId"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}
