package flint

import (
	"context"
	"net/http"
)

// CreateIndex creates a new index with the given UID. primaryKey may be ""
// to create the index without one.
//
// Fails with code "index_already_exists" if the UID is already in use, and
// with code "invalid_index_uid" if the UID violates the server's format
// constraint (the client performs no validation of its own).
func (c *Client) CreateIndex(ctx context.Context, uid, primaryKey string) (*Index, error) {
	body := map[string]string{"uid": uid}
	if primaryKey != "" {
		body["primaryKey"] = primaryKey
	}
	var info indexInfo
	if err := c.send(ctx, http.MethodPost, "/indexes", body, http.StatusCreated, &info); err != nil {
		return nil, err
	}
	index := c.Index(uid)
	index.apply(info)
	return index, nil
}

// Index returns a local handle for the index with the given UID without
// contacting the server. The handle's primary key starts out unknown
// regardless of remote state; use FetchPrimaryKey or GetIndex for the
// authoritative value.
func (c *Client) Index(uid string) *Index {
	return &Index{
		UID:    uid,
		client: c,
	}
}

// GetIndex fetches the index with the given UID and returns a fully populated
// handle.
//
// Fails with code "index_not_found" if the index does not exist.
func (c *Client) GetIndex(ctx context.Context, uid string) (*Index, error) {
	var info indexInfo
	if err := c.send(ctx, http.MethodGet, "/indexes/"+uid, nil, http.StatusOK, &info); err != nil {
		return nil, err
	}
	index := c.Index(uid)
	index.apply(info)
	return index, nil
}

// GetAllIndexes returns a handle for every index on the server. The order is
// server-defined and not guaranteed stable across calls. An empty result is
// not an error.
func (c *Client) GetAllIndexes(ctx context.Context) ([]*Index, error) {
	var infos []indexInfo
	if err := c.send(ctx, http.MethodGet, "/indexes", nil, http.StatusOK, &infos); err != nil {
		return nil, err
	}
	indexes := make([]*Index, 0, len(infos))
	for _, info := range infos {
		index := c.Index(info.UID)
		index.apply(info)
		indexes = append(indexes, index)
	}
	return indexes, nil
}

// GetOrCreateIndex fetches the index with the given UID, creating it with the
// given primary key if it does not exist. An existing index is returned
// unchanged: its primary key is never overwritten even if a different
// primaryKey argument was supplied.
//
// The call tolerates a concurrent creation of the same index: if the create
// step loses the race and the server reports "index_already_exists", the
// result of one more fetch is returned instead of the conflict.
func (c *Client) GetOrCreateIndex(ctx context.Context, uid, primaryKey string) (*Index, error) {
	index, err := c.GetIndex(ctx, uid)
	if err == nil || !IsNotFound(err) {
		return index, err
	}

	index, err = c.CreateIndex(ctx, uid, primaryKey)
	if err != nil && IsConflict(err) {
		// someone else created it between our fetch and create
		return c.GetIndex(ctx, uid)
	}
	return index, err
}

// DeleteIndex removes the index with the given UID. Any local handles for it
// become dangling references.
//
// Fails with code "index_not_found" if the index does not exist; see
// DeleteIfExists for the idempotent variant.
func (c *Client) DeleteIndex(ctx context.Context, uid string) error {
	return c.send(ctx, http.MethodDelete, "/indexes/"+uid, nil, http.StatusNoContent, nil)
}

// DeleteIfExists removes the index with the given UID if it exists. Returns
// true if an index existed and was deleted, false if there was nothing to
// delete; a missing index is never an error. Two sequential calls for the
// same existing index yield true and then false.
func (c *Client) DeleteIfExists(ctx context.Context, uid string) (bool, error) {
	switch err := c.DeleteIndex(ctx, uid); {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}
