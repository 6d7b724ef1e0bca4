package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog holds the structure for the auditLogs collection in mongo. Entries
// are written by the audit middleware for every mutating request and surfaced
// by the security widgets.
type AuditLog struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Action    string             `json:"action" bson:"action"`
	Username  string             `json:"username" bson:"username"`
	Method    string             `json:"method" bson:"method"`
	Path      string             `json:"path" bson:"path"`
	Status    int                `json:"status" bson:"status"`
	RemoteIP  string             `json:"remoteIp" bson:"remoteIp"`
	Timestamp primitive.DateTime `json:"timestamp" bson:"timestamp"`
}

// AuditLogResponse wraps the audit log list so list widgets can address it
// via a dataPath
type AuditLogResponse struct {
	Logs []AuditLog `json:"logs"`
}
