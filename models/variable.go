package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WidgetVariable holds the structure for the widgetVariables collection in
// mongo. Variables are the {{name}} substitution values used inside widget
// configuration strings.
type WidgetVariable struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	DisplayName string             `json:"displayName" bson:"displayName"`
	Value       string             `json:"value" bson:"value"`
	Type        string             `json:"type" bson:"type"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	CreatedBy   primitive.ObjectID `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// WidgetVariableSummary is a variable row decorated for the variables admin
// list. ReferenceCount is derived at read time, never stored.
type WidgetVariableSummary struct {
	WidgetVariable `bson:",inline"`
	CreatedByName  string `json:"createdByName"`
	ReferenceCount int64  `json:"referenceCount"`
}

// ResolveRequest is the body of the variable resolution endpoint
type ResolveRequest struct {
	Text string `json:"text"`
}

// ResolveResponse is the response of the variable resolution endpoint
type ResolveResponse struct {
	Resolved string `json:"resolved"`
}
