package databases

// go generate: mockery --name ProjectDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const projectName = "projects"

// ProjectDatabase contains the methods to use with the project database
type ProjectDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Project, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Project, error)
	InsertOne(ctx context.Context, project models.Project, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type projectDatabase struct {
	db DatabaseHelper
}

// NewProjectDatabase initializes a new instance of project database with the provided db connection
func NewProjectDatabase(db DatabaseHelper) ProjectDatabase {
	return &projectDatabase{
		db: db,
	}
}

func (p *projectDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Project, error) {
	project := &models.Project{}
	err := p.db.Collection(projectName).FindOne(ctx, filter, opts...).Decode(&project)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (p *projectDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Project, error) {
	var projects []models.Project
	err := p.db.Collection(projectName).Find(ctx, filter, opts...).Decode(&projects)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (p *projectDatabase) InsertOne(ctx context.Context, project models.Project, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := p.db.Collection(projectName).InsertOne(ctx, project, opts...)
	return res, nil
}

func (p *projectDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	return p.db.Collection(projectName).UpdateOne(ctx, filter, update, opts...)
}

func (p *projectDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return p.db.Collection(projectName).DeleteOne(ctx, filter, opts...)
}
