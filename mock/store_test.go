package mock

import (
	"testing"

	"github.com/flintsearch/flint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceCode(t *testing.T, err error) string {
	var se *serviceError
	require.ErrorAs(t, err, &se)
	return se.Code
}

func TestStoreCreateIndex(t *testing.T) {
	s := newStore()

	record, err := s.createIndex("movies", "movieId")
	require.NoError(t, err)
	assert.Equal(t, "movies", record.UID)
	assert.Equal(t, "movieId", record.PrimaryKey)
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, record.CreatedAt, record.UpdatedAt)

	_, err = s.createIndex("movies", "")
	assert.Equal(t, flint.CodeIndexAlreadyExists, serviceCode(t, err))

	for _, uid := range []string{"bad uid", "bad/uid", "", "bad.uid"} {
		_, err = s.createIndex(uid, "")
		assert.Equal(t, flint.CodeInvalidIndexUID, serviceCode(t, err), uid)
	}

	for _, uid := range []string{"movies-2", "movies_2", "Movies2"} {
		_, err = s.createIndex(uid, "")
		assert.NoError(t, err, uid)
	}
}

func TestStoreGetAndList(t *testing.T) {
	s := newStore()

	_, err := s.getIndex("movies")
	assert.Equal(t, flint.CodeIndexNotFound, serviceCode(t, err))
	assert.Empty(t, s.listIndexes())

	_, err = s.createIndex("movies", "movieId")
	require.NoError(t, err)
	_, err = s.createIndex("books", "isbn")
	require.NoError(t, err)

	record, err := s.getIndex("books")
	require.NoError(t, err)
	assert.Equal(t, "isbn", record.PrimaryKey)
	assert.Len(t, s.listIndexes(), 2)
}

func TestStoreUpdatePrimaryKey(t *testing.T) {
	s := newStore()
	_, err := s.createIndex("movies", "")
	require.NoError(t, err)

	record, err := s.updatePrimaryKey("movies", "movieId")
	require.NoError(t, err)
	assert.Equal(t, "movieId", record.PrimaryKey)

	// key change is fine while the index is empty
	_, err = s.updatePrimaryKey("movies", "ref")
	require.NoError(t, err)

	_, _, err = s.putDocuments("movies", []map[string]any{{"ref": "1"}}, "")
	require.NoError(t, err)
	_, err = s.updatePrimaryKey("movies", "movieId")
	assert.Equal(t, flint.CodePrimaryKeyAlreadyPresent, serviceCode(t, err))

	_, err = s.updatePrimaryKey("nothing", "id")
	assert.Equal(t, flint.CodeIndexNotFound, serviceCode(t, err))
}

func TestStoreDeleteIndexCascades(t *testing.T) {
	s := newStore()
	_, err := s.createIndex("movies", "movieId")
	require.NoError(t, err)
	_, _, err = s.putDocuments("movies", []map[string]any{{"movieId": "1"}}, "")
	require.NoError(t, err)

	require.NoError(t, s.deleteIndex("movies"))
	assert.Equal(t, flint.CodeIndexNotFound, serviceCode(t, s.deleteIndex("movies")))

	// documents went away with the index
	_, err = s.createIndex("movies", "movieId")
	require.NoError(t, err)
	stats, err := s.stats("movies")
	require.NoError(t, err)
	assert.Zero(t, stats.NumberOfDocuments)
}

func TestStorePutDocuments(t *testing.T) {
	s := newStore()
	_, err := s.createIndex("movies", "")
	require.NoError(t, err)

	// primary key inferred from the first document
	n, pk, err := s.putDocuments("movies", []map[string]any{{"movieId": "1", "title": "Alien"}}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "movieId", pk)

	// numeric primary key values are canonicalized
	_, _, err = s.putDocuments("movies", []map[string]any{{"movieId": float64(2), "title": "Aliens"}}, "")
	require.NoError(t, err)
	fields, err := s.getDocument("movies", "2")
	require.NoError(t, err)
	assert.Equal(t, "Aliens", fields["title"])

	// upsert by primary key value, not append
	_, _, err = s.putDocuments("movies", []map[string]any{{"movieId": "1", "title": "Alien (1979)"}}, "")
	require.NoError(t, err)
	stats, err := s.stats("movies")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.NumberOfDocuments)

	_, _, err = s.putDocuments("movies", []map[string]any{{"title": "No ID"}}, "")
	assert.Equal(t, flint.CodeMissingDocumentID, serviceCode(t, err))
}

func TestStorePutDocumentsNoCandidateKey(t *testing.T) {
	s := newStore()
	_, err := s.createIndex("notes", "")
	require.NoError(t, err)

	_, _, err = s.putDocuments("notes", []map[string]any{{"title": "plain"}}, "")
	assert.Equal(t, "primary_key_inference_failed", serviceCode(t, err))
}

func TestStoreExport(t *testing.T) {
	s := newStore()
	for _, uid := range []string{"b", "a"} {
		_, err := s.createIndex(uid, "id")
		require.NoError(t, err)
		_, _, err = s.putDocuments(uid, []map[string]any{{"id": "1", "from": uid}}, "")
		require.NoError(t, err)
	}

	records := s.export()
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].IndexUID) // grouped by index in UID order
	assert.Equal(t, "b", records[1].IndexUID)
}
