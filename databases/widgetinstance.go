package databases

// go generate: mockery --name WidgetInstanceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const widgetInstanceName = "widgetInstances"

// WidgetInstanceDatabase contains the methods to use with the widget instance database
type WidgetInstanceDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetInstance, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetInstance, error)
	InsertOne(ctx context.Context, instance models.WidgetInstance, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type widgetInstanceDatabase struct {
	db DatabaseHelper
}

// NewWidgetInstanceDatabase initializes a new instance of widget instance database with the provided db connection
func NewWidgetInstanceDatabase(db DatabaseHelper) WidgetInstanceDatabase {
	return &widgetInstanceDatabase{
		db: db,
	}
}

func (w *widgetInstanceDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetInstance, error) {
	instance := &models.WidgetInstance{}
	err := w.db.Collection(widgetInstanceName).FindOne(ctx, filter, opts...).Decode(&instance)
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func (w *widgetInstanceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetInstance, error) {
	var instances []models.WidgetInstance
	err := w.db.Collection(widgetInstanceName).Find(ctx, filter, opts...).Decode(&instances)
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (w *widgetInstanceDatabase) InsertOne(ctx context.Context, instance models.WidgetInstance, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := w.db.Collection(widgetInstanceName).InsertOne(ctx, instance, opts...)
	return res, nil
}

func (w *widgetInstanceDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return w.db.Collection(widgetInstanceName).UpdateOne(ctx, filter, update, opts...)
}

func (w *widgetInstanceDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return w.db.Collection(widgetInstanceName).DeleteOne(ctx, filter, opts...)
}

func (w *widgetInstanceDatabase) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return w.db.Collection(widgetInstanceName).DeleteMany(ctx, filter, opts...)
}

func (w *widgetInstanceDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return w.db.Collection(widgetInstanceName).CountDocuments(ctx, filter, opts...)
}
