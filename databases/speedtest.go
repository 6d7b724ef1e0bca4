package databases

// go generate: mockery --name SpeedTestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/infinitelyweird/OpenClaw-Dashboard/models"
)

const speedTestName = "speedTests"

// SpeedTestDatabase contains the methods to use with the speed test database
type SpeedTestDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.SpeedTestResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SpeedTestResult, error)
	InsertOne(ctx context.Context, result models.SpeedTestResult, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type speedTestDatabase struct {
	db DatabaseHelper
}

// NewSpeedTestDatabase initializes a new instance of speed test database with the provided db connection
func NewSpeedTestDatabase(db DatabaseHelper) SpeedTestDatabase {
	return &speedTestDatabase{
		db: db,
	}
}

func (s *speedTestDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.SpeedTestResult, error) {
	result := &models.SpeedTestResult{}
	err := s.db.Collection(speedTestName).FindOne(ctx, filter, opts...).Decode(&result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *speedTestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.SpeedTestResult, error) {
	var results []models.SpeedTestResult
	err := s.db.Collection(speedTestName).Find(ctx, filter, opts...).Decode(&results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *speedTestDatabase) InsertOne(ctx context.Context, result models.SpeedTestResult, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res := s.db.Collection(speedTestName).InsertOne(ctx, result, opts...)
	return res, nil
}
