package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/restful-blog/internal/model"
	"github.com/d60-Lab/restful-blog/internal/repository"
	"github.com/d60-Lab/restful-blog/internal/sanitize"
)

// PostInput 表单 / JSON 可写字段白名单
type PostInput struct {
	Title string `json:"title" form:"post[title]" validate:"max=200"`
	Image string `json:"image" form:"post[image]" validate:"omitempty,url,max=2048"`
	Body  string `json:"body" form:"post[body]" validate:"max=100000"`
}

// PostService 文章服务
type PostService interface {
	List(ctx context.Context) ([]*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Create(ctx context.Context, in PostInput) (*model.Post, error)
	Update(ctx context.Context, id string, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// createdPrecision Mongo 只存毫秒，统一截断保证各存储读回一致
const createdPrecision = time.Millisecond

// Option 配置 PostService
type Option func(*postService)

// WithClock 替换创建时间的时钟，每条记录调用一次
func WithClock(now func() time.Time) Option {
	return func(s *postService) { s.now = now }
}

type postService struct {
	repo      repository.PostRepository
	sanitizer *sanitize.Sanitizer
	validate  *validator.Validate
	now       func() time.Time
}

func NewPostService(repo repository.PostRepository, sanitizer *sanitize.Sanitizer, opts ...Option) PostService {
	s := &postService{
		repo:      repo,
		sanitizer: sanitizer,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, wrapRepoErr("list posts", "", err)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("get post", id, err)
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, in PostInput) (*model.Post, error) {
	fields, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	post := &model.Post{Created: s.now().Truncate(createdPrecision)}
	fields.Apply(post)
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, wrapRepoErr("create post", "", err)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id string, in PostInput) (*model.Post, error) {
	fields, err := s.prepare(in)
	if err != nil {
		return nil, err
	}
	post, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, wrapRepoErr("update post", id, err)
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return wrapRepoErr("delete post", id, err)
	}
	return nil
}

// prepare 校验输入并清洗 body
func (s *postService) prepare(in PostInput) (model.PostFields, error) {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field()
			}
			return model.PostFields{}, &ValidationError{Fields: fields}
		}
		return model.PostFields{}, fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}
	return model.PostFields{
		Title: in.Title,
		Image: in.Image,
		Body:  s.sanitizer.Clean(in.Body),
	}, nil
}

func wrapRepoErr(op, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", op, id, ErrPostNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
