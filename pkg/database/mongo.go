package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/d60-Lab/restful-blog/config"
)

// InitMongo 连接 MongoDB 并做一次 ping
func InitMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.Timeout > 0 {
		opts.SetTimeout(cfg.Timeout)
		opts.SetConnectTimeout(cfg.Timeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}
