package flint

import (
	"context"
	"net/http"

	"time"
)

// Index is a local handle for a remote index.
//
// A handle is a reference, not a guarantee that the remote index exists, and
// its fields are a locally cached view of remote state. PrimaryKey is not
// authoritative until the handle was produced by a create, get or update
// response, or refreshed with FetchPrimaryKey. An empty PrimaryKey means the
// key is not known locally (or not configured remotely).
//
// Handle fields are overwritten as a whole by whichever server response lands
// last; they are never merged partially. Concurrent use of distinct handles
// is safe; concurrent mutation of the same handle is undefined-order.
type Index struct {
	// UID is the unique identifier of the index, immutable once created
	UID string

	// PrimaryKey is the locally cached primary key attribute, possibly stale
	PrimaryKey string

	// CreatedAt and UpdatedAt are the server-reported timestamps, zero until known
	CreatedAt time.Time
	UpdatedAt time.Time

	client *Client
}

// indexInfo is the wire representation of an index resource
type indexInfo struct {
	UID        string    `json:"uid"`
	PrimaryKey string    `json:"primaryKey,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IndexStats are operational statistics of a single index
type IndexStats struct {
	NumberOfDocuments int64            `json:"numberOfDocuments"`
	IsIndexing        bool             `json:"isIndexing"`
	FieldDistribution map[string]int64 `json:"fieldDistribution"`
}

func (i *Index) apply(info indexInfo) {
	i.PrimaryKey = info.PrimaryKey
	i.CreatedAt = info.CreatedAt
	i.UpdatedAt = info.UpdatedAt
}

// FetchPrimaryKey queries the server for the authoritative primary key,
// refreshes the handle in place and returns the key ("" if the index has no
// primary key configured).
//
// Idempotent; safe to call repeatedly. Always overwrites the local cache with
// server truth.
func (i *Index) FetchPrimaryKey(ctx context.Context) (string, error) {
	var info indexInfo
	if err := i.client.send(ctx, http.MethodGet, "/indexes/"+i.UID, nil, http.StatusOK, &info); err != nil {
		return "", err
	}
	i.apply(info)
	return i.PrimaryKey, nil
}

// UpdatePrimaryKey changes the primary key of the remote index and refreshes
// the handle from the server's response.
//
// Fails with code "index_not_found" if the index does not exist. The server
// owns the policy on when the key may change; a rejected change surfaces with
// the server's code (typically "index_primary_key_already_present").
func (i *Index) UpdatePrimaryKey(ctx context.Context, primaryKey string) error {
	body := map[string]string{"primaryKey": primaryKey}
	var info indexInfo
	if err := i.client.send(ctx, http.MethodPatch, "/indexes/"+i.UID, body, http.StatusOK, &info); err != nil {
		return err
	}
	i.apply(info)
	return nil
}

// GetStats fetches operational statistics of the index.
//
// Fails with code "index_not_found" if the index does not exist.
func (i *Index) GetStats(ctx context.Context) (IndexStats, error) {
	var stats IndexStats
	err := i.client.send(ctx, http.MethodGet, "/indexes/"+i.UID+"/stats", nil, http.StatusOK, &stats)
	return stats, err
}

// Delete removes the remote index. Equivalent to Client.DeleteIndex with the
// handle's UID; the handle becomes a dangling reference on success.
func (i *Index) Delete(ctx context.Context) error {
	return i.client.DeleteIndex(ctx, i.UID)
}
