package databases

// go generate: mockery --name WidgetTemplateDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const widgetTemplateName = "widgetTemplates"

// WidgetTemplateDatabase contains the methods to use with the widget template database
type WidgetTemplateDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetTemplate, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetTemplate, error)
	InsertOne(ctx context.Context, template models.WidgetTemplate, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type widgetTemplateDatabase struct {
	db DatabaseHelper
}

// NewWidgetTemplateDatabase initializes a new instance of widget template database with the provided db connection
func NewWidgetTemplateDatabase(db DatabaseHelper) WidgetTemplateDatabase {
	return &widgetTemplateDatabase{
		db: db,
	}
}

func (w *widgetTemplateDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetTemplate, error) {
	template := &models.WidgetTemplate{}
	err := w.db.Collection(widgetTemplateName).FindOne(ctx, filter, opts...).Decode(&template)
	if err != nil {
		return nil, err
	}
	return template, nil
}

func (w *widgetTemplateDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetTemplate, error) {
	var templates []models.WidgetTemplate
	err := w.db.Collection(widgetTemplateName).Find(ctx, filter, opts...).Decode(&templates)
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (w *widgetTemplateDatabase) InsertOne(ctx context.Context, template models.WidgetTemplate, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := w.db.Collection(widgetTemplateName).InsertOne(ctx, template, opts...)
	return res, nil
}

func (w *widgetTemplateDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return w.db.Collection(widgetTemplateName).DeleteOne(ctx, filter, opts...)
}

func (w *widgetTemplateDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return w.db.Collection(widgetTemplateName).CountDocuments(ctx, filter, opts...)
}
