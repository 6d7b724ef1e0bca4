package seed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/infinitelyweird/OpenClaw-Dashboard/databases"
	mocksdb "github.com/infinitelyweird/OpenClaw-Dashboard/databases/mocks"
	"github.com/infinitelyweird/OpenClaw-Dashboard/seed"
)

func TestTemplates_SeedsEmptyCatalog(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResult := &mocksdb.SingleResultHelper{}
	insertResult := &mocksdb.InsertOneResultHelper{}

	// nothing exists yet, every lookup misses
	singleResult.On("Decode", mock.Anything).Return(errors.New("mongo: no documents in result"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	insertResult.On("Decode").Return("mocked-id")
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult)
	db.On("Collection", "widgetTemplates").Return(conn)

	err := seed.Templates(context.Background(), databases.NewWidgetTemplateDatabase(db))
	assert.NoError(t, err)

	conn.AssertNumberOfCalls(t, "InsertOne", 37)
}

func TestTemplates_SkipsExisting(t *testing.T) {
	db := &mocksdb.DatabaseHelper{}
	conn := &mocksdb.CollectionHelper{}
	singleResult := &mocksdb.SingleResultHelper{}

	// every template already present
	singleResult.On("Decode", mock.Anything).Return(nil)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.On("Collection", "widgetTemplates").Return(conn)

	err := seed.Templates(context.Background(), databases.NewWidgetTemplateDatabase(db))
	assert.NoError(t, err)

	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}
