package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	PostID uint   `json:"post_id"`
	Title  string `json:"title"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideFetchesOnMissAndServesFromCache(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			*dest = cachedPost{PostID: 7, Title: "bài viết"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "bài viết", first.Title)

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read must be served from cache")
	assert.Equal(t, first, second)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)

	var dest cachedPost
	boom := errors.New("db down")
	err := Aside(context.Background(), PostKey(1), &dest, PostTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestInvalidateDropsKey(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{PostID: 3}, PostTTL))
	require.True(t, mr.Exists(PostKey(3)))

	InvalidatePost(ctx, 3)
	assert.False(t, mr.Exists(PostKey(3)))
}

func TestHelpersAreNoopsWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, PostsListKey(), &struct{}{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, PostsListKey(), "x", ListTTL))

	var dest cachedPost
	err = Aside(ctx, PostKey(9), &dest, PostTTL, func() error {
		dest.PostID = 9
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(9), dest.PostID)
}
