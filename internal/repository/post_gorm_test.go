package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLiteRepo(t *testing.T) PostRepository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	// :memory: 每个连接一份独立库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	repo := NewGormPostRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestGormPostRepository(t *testing.T) {
	runPostRepositoryContract(t, setupSQLiteRepo)
}
