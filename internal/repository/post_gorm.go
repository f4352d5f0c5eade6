package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/restful-blog/internal/model"
)

// GormPostRepository 关系型存储实现（postgres / sqlite）
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository 创建 gorm 仓储
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).Order("created ASC").Order("id ASC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GormPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) Create(ctx context.Context, post *model.Post) error {
	post.ID = uuid.New().String()
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *GormPostRepository) UpdateByID(ctx context.Context, id string, fields model.PostFields) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// map 形式才会写入空字符串
		res := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Updates(map[string]any{"title": fields.Title, "image": fields.Image, "body": fields.Body})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *GormPostRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InitSchema 初始化 posts 表
func (r *GormPostRepository) InitSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&model.Post{}); err != nil {
		return fmt.Errorf("failed to migrate posts table: %w", err)
	}
	return nil
}

func (r *GormPostRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (r *GormPostRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
