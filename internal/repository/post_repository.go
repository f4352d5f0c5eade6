package repository

import (
	"context"
	"errors"

	"github.com/d60-Lab/restful-blog/internal/model"
)

// ErrNotFound 记录不存在（包括无法解析的 ID）
var ErrNotFound = errors.New("post not found")

// PostRepository 文章仓储接口，后端可以是 mongo / gorm / redis
type PostRepository interface {
	// FindAll 按创建时间升序返回全部文章
	FindAll(ctx context.Context) ([]*model.Post, error)

	// FindByID 按 ID 查询，不存在返回 ErrNotFound
	FindByID(ctx context.Context, id string) (*model.Post, error)

	// Create 写入文章并回填 post.ID
	Create(ctx context.Context, post *model.Post) error

	// UpdateByID 覆盖 title/image/body，返回更新后的文章
	UpdateByID(ctx context.Context, id string, fields model.PostFields) (*model.Post, error)

	// DeleteByID 删除文章，不存在返回 ErrNotFound
	DeleteByID(ctx context.Context, id string) error

	// InitSchema 建表 / 建索引
	InitSchema(ctx context.Context) error

	// Ping 健康检查
	Ping(ctx context.Context) error

	// Close 关闭底层连接
	Close() error
}

var (
	_ PostRepository = (*MongoPostRepository)(nil)
	_ PostRepository = (*GormPostRepository)(nil)
	_ PostRepository = (*RedisPostRepository)(nil)
)
