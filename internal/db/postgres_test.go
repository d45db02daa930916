package db_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobly/jobs-service/internal/db"
)

func TestEnsureSchema_CreatesAllTables(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS companies")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, db.EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_WrapsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("permission denied")
	mock.ExpectExec("CREATE TABLE").WillReturnError(boom)

	err = db.EnsureSchema(context.Background(), mock)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "apply schema")
}

func TestNewRedisClient_EmptyURLDisablesRedis(t *testing.T) {
	rdb, err := db.NewRedisClient(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := db.NewRedisClient(context.Background(), "not-a-redis-url")
	assert.Error(t, err)
}

func TestNewPostgresPool_BadURL(t *testing.T) {
	_, err := db.NewPostgresPool(context.Background(), "postgres://%zz", 4)
	assert.Error(t, err)
}
