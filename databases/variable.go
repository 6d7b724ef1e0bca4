package databases

// go generate: mockery --name WidgetVariableDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const widgetVariableName = "widgetVariables"

// WidgetVariableDatabase contains the methods to use with the widget variable database
type WidgetVariableDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetVariable, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetVariable, error)
	InsertOne(ctx context.Context, variable models.WidgetVariable, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type widgetVariableDatabase struct {
	db DatabaseHelper
}

// NewWidgetVariableDatabase initializes a new instance of widget variable database with the provided db connection
func NewWidgetVariableDatabase(db DatabaseHelper) WidgetVariableDatabase {
	return &widgetVariableDatabase{
		db: db,
	}
}

func (v *widgetVariableDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.WidgetVariable, error) {
	variable := &models.WidgetVariable{}
	err := v.db.Collection(widgetVariableName).FindOne(ctx, filter, opts...).Decode(&variable)
	if err != nil {
		return nil, err
	}
	return variable, nil
}

func (v *widgetVariableDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.WidgetVariable, error) {
	var variables []models.WidgetVariable
	err := v.db.Collection(widgetVariableName).Find(ctx, filter, opts...).Decode(&variables)
	if err != nil {
		return nil, err
	}
	return variables, nil
}

func (v *widgetVariableDatabase) InsertOne(ctx context.Context, variable models.WidgetVariable, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := v.db.Collection(widgetVariableName).InsertOne(ctx, variable, opts...)
	return res, nil
}

func (v *widgetVariableDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return v.db.Collection(widgetVariableName).UpdateOne(ctx, filter, update, opts...)
}

func (v *widgetVariableDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return v.db.Collection(widgetVariableName).DeleteOne(ctx, filter, opts...)
}
