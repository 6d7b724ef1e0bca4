package databases

// go generate: mockery --name TaskDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const taskName = "tasks"

// TaskDatabase contains the methods to use with the task database
type TaskDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Task, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error)
	InsertOne(ctx context.Context, task models.Task, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type taskDatabase struct {
	db DatabaseHelper
}

// NewTaskDatabase initializes a new instance of task database with the provided db connection
func NewTaskDatabase(db DatabaseHelper) TaskDatabase {
	return &taskDatabase{
		db: db,
	}
}

func (t *taskDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Task, error) {
	task := &models.Task{}
	err := t.db.Collection(taskName).FindOne(ctx, filter, opts...).Decode(&task)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (t *taskDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Task, error) {
	var tasks []models.Task
	err := t.db.Collection(taskName).Find(ctx, filter, opts...).Decode(&tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (t *taskDatabase) InsertOne(ctx context.Context, task models.Task, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := t.db.Collection(taskName).InsertOne(ctx, task, opts...)
	return res, nil
}

func (t *taskDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return t.db.Collection(taskName).UpdateOne(ctx, filter, update, opts...)
}

func (t *taskDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return t.db.Collection(taskName).DeleteOne(ctx, filter, opts...)
}

func (t *taskDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return t.db.Collection(taskName).CountDocuments(ctx, filter, opts...)
}
