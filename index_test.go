package flint_test

import (
	"testing"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPrimaryKeyOverwritesCache(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	_, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)

	index := client.Index("movies")
	index.PrimaryKey = "stale"

	pk, err := index.FetchPrimaryKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "movieId", pk)
	assert.Equal(t, "movieId", index.PrimaryKey)

	// repeated calls are safe and keep returning server truth
	pk, err = index.FetchPrimaryKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "movieId", pk)
}

func TestFetchPrimaryKeyNotFound(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	_, err := client.Index("nothing").FetchPrimaryKey(ctx)
	require.Error(t, err)
	assert.True(t, flint.IsNotFound(err))
}

func TestUpdatePrimaryKey(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "")
	require.NoError(t, err)
	previousUpdatedAt := index.UpdatedAt

	require.NoError(t, index.UpdatePrimaryKey(ctx, "movieId"))
	assert.Equal(t, "movieId", index.PrimaryKey)
	assert.False(t, index.UpdatedAt.Before(previousUpdatedAt))

	fetched, err := client.GetIndex(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, "movieId", fetched.PrimaryKey)
}

func TestUpdatePrimaryKeyNotFound(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	err := client.Index("nothing").UpdatePrimaryKey(ctx, "id")
	require.Error(t, err)
	assert.True(t, flint.IsNotFound(err))
}

func TestUpdatePrimaryKeyRejectedWithDocuments(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)
	_, err = index.AddDocuments(ctx, []map[string]any{{"movieId": "1", "title": "Alien"}})
	require.NoError(t, err)

	err = index.UpdatePrimaryKey(ctx, "somethingElse")
	require.Error(t, err)
	assert.Equal(t, flint.CodePrimaryKeyAlreadyPresent, flint.ErrCode(err))
}

func TestGetStats(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)

	stats, err := index.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.NumberOfDocuments)
	assert.Empty(t, stats.FieldDistribution)

	_, err = index.AddDocuments(ctx, []map[string]any{
		{"movieId": "1", "title": "Alien"},
		{"movieId": "2", "title": "Aliens", "year": 1986},
	})
	require.NoError(t, err)

	stats, err = index.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.NumberOfDocuments)
	assert.False(t, stats.IsIndexing)
	assert.Equal(t, map[string]int64{"movieId": 2, "title": 2, "year": 1}, stats.FieldDistribution)
}

func TestGetStatsNotFound(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	_, err := client.Index("nothing").GetStats(ctx)
	require.Error(t, err)
	assert.True(t, flint.IsNotFound(err))
}

func TestIndexDelete(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "")
	require.NoError(t, err)

	require.NoError(t, index.Delete(ctx))
	_, err = client.GetIndex(ctx, "movies")
	assert.True(t, flint.IsNotFound(err))
}
