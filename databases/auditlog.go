package databases

// go generate: mockery --name AuditLogDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const auditLogName = "auditLogs"

// AuditLogDatabase contains the methods to use with the audit log database
type AuditLogDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AuditLog, error)
	FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.AuditLog, error)
	InsertOne(ctx context.Context, entry models.AuditLog, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type auditLogDatabase struct {
	db DatabaseHelper
}

// NewAuditLogDatabase initializes a new instance of audit log database with the provided db connection
func NewAuditLogDatabase(db DatabaseHelper) AuditLogDatabase {
	return &auditLogDatabase{
		db: db,
	}
}

func (a *auditLogDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := a.db.Collection(auditLogName).Find(ctx, filter, opts...).Decode(&logs)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// FindPaginated returns one page of audit entries, newest first
func (a *auditLogDatabase) FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.AuditLog, error) {
	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.M{"timestamp": -1})
	return a.Find(ctx, filter, opts)
}

func (a *auditLogDatabase) InsertOne(ctx context.Context, entry models.AuditLog, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := a.db.Collection(auditLogName).InsertOne(ctx, entry, opts...)
	return res, nil
}
