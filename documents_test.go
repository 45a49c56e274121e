package flint_test

import (
	"testing"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movie struct {
	MovieID string `json:"movieId"`
	Title   string `json:"title"`
}

func TestAddAndGetDocuments(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)

	indexed, err := index.AddDocuments(ctx, []movie{
		{MovieID: "1", Title: "Alien"},
		{MovieID: "2", Title: "Aliens"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, indexed)

	var got movie
	require.NoError(t, index.GetDocument(ctx, "2", &got))
	assert.Equal(t, movie{MovieID: "2", Title: "Aliens"}, got)
}

func TestAddDocumentsAdoptsPrimaryKeyHint(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "")
	require.NoError(t, err)

	_, err = index.AddDocuments(ctx, []map[string]any{{"ref": "a", "title": "Alien"}}, "ref")
	require.NoError(t, err)
	assert.Equal(t, "ref", index.PrimaryKey)

	fetched, err := client.GetIndex(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, "ref", fetched.PrimaryKey)
}

func TestAddDocumentsInfersPrimaryKey(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "")
	require.NoError(t, err)

	_, err = index.AddDocuments(ctx, []movie{{MovieID: "1", Title: "Alien"}})
	require.NoError(t, err)
	assert.Equal(t, "movieId", index.PrimaryKey)
}

func TestAddDocumentsMissingID(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)

	_, err = index.AddDocuments(ctx, []map[string]any{{"title": "Alien"}})
	require.Error(t, err)
	assert.Equal(t, flint.CodeMissingDocumentID, flint.ErrCode(err))
}

func TestDeleteDocument(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)
	_, err = index.AddDocuments(ctx, []movie{{MovieID: "1", Title: "Alien"}})
	require.NoError(t, err)

	require.NoError(t, index.DeleteDocument(ctx, "1"))

	var got movie
	err = index.GetDocument(ctx, "1", &got)
	require.Error(t, err)
	assert.Equal(t, flint.CodeDocumentNotFound, flint.ErrCode(err))

	err = index.DeleteDocument(ctx, "1")
	assert.Equal(t, flint.CodeDocumentNotFound, flint.ErrCode(err))
}

func TestDeleteAllDocuments(t *testing.T) {
	ctx := test.Context(t)
	client := newTestClient(t)

	index, err := client.CreateIndex(ctx, "movies", "movieId")
	require.NoError(t, err)
	_, err = index.AddDocuments(ctx, []movie{
		{MovieID: "1", Title: "Alien"},
		{MovieID: "2", Title: "Aliens"},
	})
	require.NoError(t, err)

	require.NoError(t, index.DeleteAllDocuments(ctx))

	stats, err := index.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.NumberOfDocuments)

	// the index itself and its primary key survive
	fetched, err := client.GetIndex(ctx, "movies")
	require.NoError(t, err)
	assert.Equal(t, "movieId", fetched.PrimaryKey)
}
