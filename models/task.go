package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values
const (
	TaskStatusOpen       = "Open"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

// Task holds the structure for the tasks collection in mongo
type Task struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Title       string              `json:"title" bson:"title"`
	Description string              `json:"description" bson:"description"`
	Status      string              `json:"status" bson:"status"`
	Priority    int                 `json:"priority" bson:"priority"`
	Tags        []string            `json:"tags" bson:"tags"`
	ProjectID   *primitive.ObjectID `json:"projectId,omitempty" bson:"projectId,omitempty"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	CreatedBy   primitive.ObjectID  `json:"createdBy" bson:"createdBy"`
	DueDate     *primitive.DateTime `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CreatedAt   primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`
}

// TaskStats is the status/priority rollup consumed by the task widgets
type TaskStats struct {
	TotalTasks      int64 `json:"totalTasks"`
	OpenTasks       int64 `json:"openTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	P1Tasks         int64 `json:"p1Tasks"`
	P2Tasks         int64 `json:"p2Tasks"`
	P3Tasks         int64 `json:"p3Tasks"`
	P4Tasks         int64 `json:"p4Tasks"`
}
