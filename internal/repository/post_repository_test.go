package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/restful-blog/internal/model"
)

// runPostRepositoryContract 所有后端共享的行为约束
func runPostRepositoryContract(t *testing.T, newRepo func(t *testing.T) PostRepository) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("CreateAssignsUniqueIDs", func(t *testing.T) {
		repo := newRepo(t)
		a := &model.Post{Title: "a", Body: "x", Created: base}
		b := &model.Post{Title: "b", Body: "y", Created: base.Add(time.Second)}
		require.NoError(t, repo.Create(ctx, a))
		require.NoError(t, repo.Create(ctx, b))
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, b.ID)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("FindAllOrderedByCreated", func(t *testing.T) {
		repo := newRepo(t)
		late := &model.Post{Title: "late", Created: base.Add(time.Hour)}
		early := &model.Post{Title: "early", Created: base}
		require.NoError(t, repo.Create(ctx, late))
		require.NoError(t, repo.Create(ctx, early))

		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "early", posts[0].Title)
		assert.Equal(t, "late", posts[1].Title)
	})

	t.Run("FindByIDRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		p := &model.Post{Title: "Hi", Image: "https://example.com/a.png", Body: "hello", Created: base}
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "Hi", got.Title)
		assert.Equal(t, "https://example.com/a.png", got.Image)
		assert.Equal(t, "hello", got.Body)
		assert.True(t, base.Equal(got.Created), "created = %v", got.Created)
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByID(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("UpdateKeepsIDAndCreated", func(t *testing.T) {
		repo := newRepo(t)
		p := &model.Post{Title: "old", Image: "https://example.com/old.png", Body: "old body", Created: base}
		require.NoError(t, repo.Create(ctx, p))

		got, err := repo.UpdateByID(ctx, p.ID, model.PostFields{Title: "new", Body: "new body"})
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "new", got.Title)
		assert.Equal(t, "", got.Image)
		assert.Equal(t, "new body", got.Body)
		assert.True(t, base.Equal(got.Created))
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.UpdateByID(ctx, "does-not-exist", model.PostFields{Title: "x"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("DeleteRemovesPost", func(t *testing.T) {
		repo := newRepo(t)
		p := &model.Post{Title: "bye", Created: base}
		require.NoError(t, repo.Create(ctx, p))

		require.NoError(t, repo.DeleteByID(ctx, p.ID))
		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		posts, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)

		assert.ErrorIs(t, repo.DeleteByID(ctx, p.ID), ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		repo := newRepo(t)
		assert.NoError(t, repo.Ping(ctx))
	})
}
