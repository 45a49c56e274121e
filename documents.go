package flint

import (
	"context"
	"net/http"
	"net/url"
)

// AddDocuments uploads documents to the index. documents must marshal to a
// JSON array of objects. Returns the number of documents indexed.
//
// Every document must carry the index's primary key attribute; a document
// without it is rejected with code "missing_document_id". If the index has no
// primary key yet, the server adopts the optional primaryKey argument, or
// infers one from the first document, and the handle picks up the adopted key.
func (i *Index) AddDocuments(ctx context.Context, documents any, primaryKey ...string) (int64, error) {
	path := "/indexes/" + i.UID + "/documents"
	if len(primaryKey) > 0 && primaryKey[0] != "" {
		path += "?primaryKey=" + url.QueryEscape(primaryKey[0])
	}
	var result struct {
		Indexed    int64  `json:"indexed"`
		PrimaryKey string `json:"primaryKey"`
	}
	if err := i.client.send(ctx, http.MethodPost, path, documents, http.StatusOK, &result); err != nil {
		return 0, err
	}
	i.PrimaryKey = result.PrimaryKey
	return result.Indexed, nil
}

// GetDocument fetches a single document by its primary key value and decodes
// it into out.
//
// Fails with code "document_not_found" if there is no such document, and with
// code "index_not_found" if the index does not exist.
func (i *Index) GetDocument(ctx context.Context, id string, out any) error {
	return i.client.send(ctx, http.MethodGet, "/indexes/"+i.UID+"/documents/"+url.PathEscape(id), nil, http.StatusOK, out)
}

// DeleteDocument removes a single document by its primary key value.
//
// Fails with code "document_not_found" if there is no such document.
func (i *Index) DeleteDocument(ctx context.Context, id string) error {
	return i.client.send(ctx, http.MethodDelete, "/indexes/"+i.UID+"/documents/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

// DeleteAllDocuments removes every document from the index, keeping the index
// itself and its primary key in place.
func (i *Index) DeleteAllDocuments(ctx context.Context) error {
	return i.client.send(ctx, http.MethodDelete, "/indexes/"+i.UID+"/documents", nil, http.StatusNoContent, nil)
}
