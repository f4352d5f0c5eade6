package repository

import (
	"context"
	"fmt"

	"github.com/d60-Lab/restful-blog/config"
	"github.com/d60-Lab/restful-blog/pkg/database"
)

// Open 按 database.driver 连接存储并返回对应仓储；调用方负责 Close
func Open(ctx context.Context, cfg *config.Config) (PostRepository, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		client, err := database.InitMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return NewMongoPostRepository(coll), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.InitDB(cfg)
		if err != nil {
			return nil, err
		}
		return NewGormPostRepository(db), nil
	case config.DriverRedis:
		client, err := database.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisPostRepository(client), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
