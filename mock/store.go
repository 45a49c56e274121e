package mock

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/flintsearch/flint"
	"github.com/hashicorp/go-memdb"
	"github.com/ridge/must/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"time"
)

var uidPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// serviceError is an error the mock service reports to the client the same
// way the real service does: an HTTP status and a structured JSON body
type serviceError struct {
	Status  int
	Code    string
	Type    string
	Message string
}

func (e *serviceError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func errIndexNotFound(uid string) *serviceError {
	return &serviceError{
		Status:  http.StatusNotFound,
		Code:    flint.CodeIndexNotFound,
		Type:    "invalid_request",
		Message: fmt.Sprintf("Index `%s` not found.", uid),
	}
}

func errDocumentNotFound(id string) *serviceError {
	return &serviceError{
		Status:  http.StatusNotFound,
		Code:    flint.CodeDocumentNotFound,
		Type:    "invalid_request",
		Message: fmt.Sprintf("Document `%s` not found.", id),
	}
}

type indexRecord struct {
	UID        string
	PrimaryKey string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r indexRecord) info() indexInfo {
	return indexInfo{
		UID:        r.UID,
		PrimaryKey: r.PrimaryKey,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type documentRecord struct {
	IndexUID string
	ID       string
	Fields   map[string]any
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"index": {
			Name: "index",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "UID"},
				},
			},
		},
		"document": {
			Name: "document",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:   "id",
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "IndexUID"},
							&memdb.StringFieldIndex{Field: "ID"},
						},
					},
				},
				"index": {
					Name:    "index",
					Indexer: &memdb.StringFieldIndex{Field: "IndexUID"},
				},
			},
		},
	},
}

// store keeps the entire state of the mock service in memory
type store struct {
	db *memdb.MemDB
}

func newStore() *store {
	return &store{db: must.OK1(memdb.NewMemDB(schema))}
}

func (s *store) createIndex(uid, primaryKey string) (indexRecord, error) {
	if !uidPattern.MatchString(uid) {
		return indexRecord{}, &serviceError{
			Status:  http.StatusBadRequest,
			Code:    flint.CodeInvalidIndexUID,
			Type:    "invalid_request",
			Message: fmt.Sprintf("`%s` is not a valid index UID. Index UIDs can be an integer or a string containing only alphanumeric characters, hyphens (-) and underscores (_).", uid),
		}
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	if existing := must.OK1(txn.First("index", "id", uid)); existing != nil {
		return indexRecord{}, &serviceError{
			Status:  http.StatusConflict,
			Code:    flint.CodeIndexAlreadyExists,
			Type:    "invalid_request",
			Message: fmt.Sprintf("Index `%s` already exists.", uid),
		}
	}

	now := time.Now().UTC()
	record := indexRecord{
		UID:        uid,
		PrimaryKey: primaryKey,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	must.OK(txn.Insert("index", record))
	txn.Commit()
	return record, nil
}

func (s *store) getIndex(uid string) (indexRecord, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw := must.OK1(txn.First("index", "id", uid))
	if raw == nil {
		return indexRecord{}, errIndexNotFound(uid)
	}
	return raw.(indexRecord), nil
}

func (s *store) listIndexes() []indexRecord {
	txn := s.db.Txn(false)
	defer txn.Abort()

	var records []indexRecord
	it := must.OK1(txn.Get("index", "id"))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		records = append(records, raw.(indexRecord))
	}
	return records
}

func (s *store) updatePrimaryKey(uid, primaryKey string) (indexRecord, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw := must.OK1(txn.First("index", "id", uid))
	if raw == nil {
		return indexRecord{}, errIndexNotFound(uid)
	}
	record := raw.(indexRecord)

	if record.PrimaryKey != "" && record.PrimaryKey != primaryKey && s.countDocuments(txn, uid) > 0 {
		return indexRecord{}, &serviceError{
			Status:  http.StatusBadRequest,
			Code:    flint.CodePrimaryKeyAlreadyPresent,
			Type:    "invalid_request",
			Message: fmt.Sprintf("Index `%s` already has a primary key: `%s`.", uid, record.PrimaryKey),
		}
	}

	record.PrimaryKey = primaryKey
	record.UpdatedAt = time.Now().UTC()
	must.OK(txn.Insert("index", record))
	txn.Commit()
	return record, nil
}

func (s *store) deleteIndex(uid string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw := must.OK1(txn.First("index", "id", uid))
	if raw == nil {
		return errIndexNotFound(uid)
	}
	must.OK(txn.Delete("index", raw))
	must.OK1(txn.DeleteAll("document", "index", uid))
	txn.Commit()
	return nil
}

// putDocuments upserts documents into an index, adopting a primary key for
// the index if it has none yet (the hint argument wins over inference from
// the first document). Returns the number of documents indexed and the
// index's primary key.
func (s *store) putDocuments(uid string, documents []map[string]any, hint string) (int, string, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw := must.OK1(txn.First("index", "id", uid))
	if raw == nil {
		return 0, "", errIndexNotFound(uid)
	}
	record := raw.(indexRecord)

	primaryKey := record.PrimaryKey
	if primaryKey == "" {
		primaryKey = hint
	}
	if primaryKey == "" && len(documents) > 0 {
		primaryKey = inferPrimaryKey(documents[0])
	}
	if primaryKey == "" {
		return 0, "", &serviceError{
			Status:  http.StatusBadRequest,
			Code:    "primary_key_inference_failed",
			Type:    "invalid_request",
			Message: "The primary key inference failed as the received documents do not contain any fields ending with `id`. Please specify the primary key manually.",
		}
	}

	for _, fields := range documents {
		id, ok := documentID(fields, primaryKey)
		if !ok {
			return 0, "", &serviceError{
				Status:  http.StatusBadRequest,
				Code:    flint.CodeMissingDocumentID,
				Type:    "invalid_request",
				Message: fmt.Sprintf("Document doesn't have a `%s` attribute.", primaryKey),
			}
		}
		must.OK(txn.Insert("document", documentRecord{IndexUID: uid, ID: id, Fields: fields}))
	}

	if record.PrimaryKey != primaryKey {
		record.PrimaryKey = primaryKey
	}
	record.UpdatedAt = time.Now().UTC()
	must.OK(txn.Insert("index", record))
	txn.Commit()
	return len(documents), primaryKey, nil
}

func (s *store) getDocument(uid, id string) (map[string]any, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if must.OK1(txn.First("index", "id", uid)) == nil {
		return nil, errIndexNotFound(uid)
	}
	raw := must.OK1(txn.First("document", "id", uid, id))
	if raw == nil {
		return nil, errDocumentNotFound(id)
	}
	return raw.(documentRecord).Fields, nil
}

func (s *store) deleteDocument(uid, id string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if must.OK1(txn.First("index", "id", uid)) == nil {
		return errIndexNotFound(uid)
	}
	raw := must.OK1(txn.First("document", "id", uid, id))
	if raw == nil {
		return errDocumentNotFound(id)
	}
	must.OK(txn.Delete("document", raw))
	txn.Commit()
	return nil
}

func (s *store) deleteAllDocuments(uid string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if must.OK1(txn.First("index", "id", uid)) == nil {
		return errIndexNotFound(uid)
	}
	must.OK1(txn.DeleteAll("document", "index", uid))
	txn.Commit()
	return nil
}

func (s *store) stats(uid string) (flint.IndexStats, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if must.OK1(txn.First("index", "id", uid)) == nil {
		return flint.IndexStats{}, errIndexNotFound(uid)
	}

	stats := flint.IndexStats{FieldDistribution: map[string]int64{}}
	it := must.OK1(txn.Get("document", "index", uid))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		stats.NumberOfDocuments++
		for field := range raw.(documentRecord).Fields {
			stats.FieldDistribution[field]++
		}
	}
	return stats, nil
}

// export returns every document of every index, grouped by index in UID order
func (s *store) export() []documentRecord {
	txn := s.db.Txn(false)
	defer txn.Abort()

	byIndex := map[string][]documentRecord{}
	it := must.OK1(txn.Get("document", "id"))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		record := raw.(documentRecord)
		byIndex[record.IndexUID] = append(byIndex[record.IndexUID], record)
	}

	uids := maps.Keys(byIndex)
	slices.Sort(uids)

	var records []documentRecord
	for _, uid := range uids {
		records = append(records, byIndex[uid]...)
	}
	return records
}

func (s *store) countDocuments(txn *memdb.Txn, uid string) int {
	n := 0
	it := must.OK1(txn.Get("document", "index", uid))
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n
}

// inferPrimaryKey picks the first attribute whose name ends with "id",
// case-insensitively, the way the real service does
func inferPrimaryKey(fields map[string]any) string {
	keys := maps.Keys(fields)
	slices.Sort(keys)
	for _, key := range keys {
		if len(key) >= 2 && (key == "id" || hasIDSuffix(key)) {
			return key
		}
	}
	return ""
}

func hasIDSuffix(key string) bool {
	if len(key) < 2 {
		return false
	}
	suffix := key[len(key)-2:]
	return suffix == "id" || suffix == "Id" || suffix == "ID"
}

// documentID extracts the primary key value of a document as a string.
// JSON numbers arrive as float64; integral values are accepted.
func documentID(fields map[string]any, primaryKey string) (string, bool) {
	value, ok := fields[primaryKey]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, v != ""
	case float64:
		if v != float64(int64(v)) {
			return "", false
		}
		return fmt.Sprintf("%d", int64(v)), true
	default:
		return "", false
	}
}
