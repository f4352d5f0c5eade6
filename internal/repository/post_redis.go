package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/restful-blog/internal/model"
)

const (
	redisPostIndexKey = "posts:index"
	redisPostKeyFmt   = "post:%s"
)

func redisPostKey(id string) string { return fmt.Sprintf(redisPostKeyFmt, id) }

// RedisPostRepository 每篇文章一个 hash，posts:index 为按创建时间排序的 zset
type RedisPostRepository struct {
	client *redis.Client
}

// NewRedisPostRepository 创建 redis 仓储
func NewRedisPostRepository(client *redis.Client) *RedisPostRepository {
	return &RedisPostRepository{client: client}
}

func decodeRedisPost(id string, vals map[string]string) (*model.Post, error) {
	created, err := time.Parse(time.RFC3339Nano, vals["created"])
	if err != nil {
		return nil, fmt.Errorf("decode post %s: %w", id, err)
	}
	return &model.Post{
		ID:      id,
		Title:   vals["title"],
		Image:   vals["image"],
		Body:    vals["body"],
		Created: created,
	}, nil
}

func (r *RedisPostRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	ids, err := r.client.ZRange(ctx, redisPostIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, redisPostKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	posts := make([]*model.Post, 0, len(ids))
	for i, cmd := range cmds {
		vals := cmd.Val()
		// 索引残留（hash 已删除）时跳过
		if len(vals) == 0 {
			continue
		}
		p, err := decodeRedisPost(ids[i], vals)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *RedisPostRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	vals, err := r.client.HGetAll(ctx, redisPostKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}
	return decodeRedisPost(id, vals)
}

func (r *RedisPostRepository) Create(ctx context.Context, post *model.Post) error {
	id := uuid.New().String()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisPostKey(id),
			"title", post.Title,
			"image", post.Image,
			"body", post.Body,
			"created", post.Created.UTC().Format(time.RFC3339Nano),
		)
		pipe.ZAdd(ctx, redisPostIndexKey, redis.Z{Score: float64(post.Created.UnixMicro()), Member: id})
		return nil
	})
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

func (r *RedisPostRepository) UpdateByID(ctx context.Context, id string, fields model.PostFields) (*model.Post, error) {
	key := redisPostKey(id)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "title", fields.Title, "image", fields.Image, "body", fields.Body)
			return nil
		})
		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, fmt.Errorf("update post %s: concurrent modification: %w", id, err)
		}
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *RedisPostRepository) DeleteByID(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisPostKey(id))
		pipe.ZRem(ctx, redisPostIndexKey, id)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// InitSchema redis 无需建表
func (r *RedisPostRepository) InitSchema(context.Context) error { return nil }

func (r *RedisPostRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisPostRepository) Close() error {
	return r.client.Close()
}
