package databases

// go generate: mockery --name DashboardDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const dashboardName = "dashboards"

// DashboardDatabase contains the methods to use with the dashboard database
type DashboardDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Dashboard, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Dashboard, error)
	InsertOne(ctx context.Context, dashboard models.Dashboard, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type dashboardDatabase struct {
	db DatabaseHelper
}

// NewDashboardDatabase initializes a new instance of dashboard database with the provided db connection
func NewDashboardDatabase(db DatabaseHelper) DashboardDatabase {
	return &dashboardDatabase{
		db: db,
	}
}

func (d *dashboardDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Dashboard, error) {
	dashboard := &models.Dashboard{}
	err := d.db.Collection(dashboardName).FindOne(ctx, filter, opts...).Decode(&dashboard)
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (d *dashboardDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Dashboard, error) {
	var dashboards []models.Dashboard
	err := d.db.Collection(dashboardName).Find(ctx, filter, opts...).Decode(&dashboards)
	if err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (d *dashboardDatabase) InsertOne(ctx context.Context, dashboard models.Dashboard, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := d.db.Collection(dashboardName).InsertOne(ctx, dashboard, opts...)
	return res, nil
}

func (d *dashboardDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return d.db.Collection(dashboardName).UpdateOne(ctx, filter, update, opts...)
}

func (d *dashboardDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return d.db.Collection(dashboardName).DeleteOne(ctx, filter, opts...)
}
