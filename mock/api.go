package mock

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/flintsearch/flint"
	"github.com/flintsearch/flint/thttp"
	"github.com/flintsearch/flint/tlog"
	"github.com/gorilla/mux"
	"github.com/ridge/must/v2"
	"go.uber.org/zap"
	"time"
)

// indexInfo is the wire representation of an index resource
type indexInfo struct {
	UID        string    `json:"uid"`
	PrimaryKey string    `json:"primaryKey,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

// Handler returns the HTTP handler of the mock service, without middleware.
// Wrap it with thttp.StandardMiddleware when serving for real; tests may use
// it bare with httptest.
func (s *Service) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	router.HandleFunc("/indexes", s.handleCreateIndex).Methods(http.MethodPost)
	router.HandleFunc("/indexes", s.handleListIndexes).Methods(http.MethodGet)
	router.HandleFunc("/indexes/{uid}", s.handleGetIndex).Methods(http.MethodGet)
	router.HandleFunc("/indexes/{uid}", s.handleUpdateIndex).Methods(http.MethodPatch)
	router.HandleFunc("/indexes/{uid}", s.handleDeleteIndex).Methods(http.MethodDelete)
	router.HandleFunc("/indexes/{uid}/stats", s.handleStats).Methods(http.MethodGet)

	router.HandleFunc("/indexes/{uid}/documents", s.handleAddDocuments).Methods(http.MethodPost)
	router.HandleFunc("/indexes/{uid}/documents", s.handleDeleteAllDocuments).Methods(http.MethodDelete)
	router.HandleFunc("/indexes/{uid}/documents/{id}", s.handleGetDocument).Methods(http.MethodGet)
	router.HandleFunc("/indexes/{uid}/documents/{id}", s.handleDeleteDocument).Methods(http.MethodDelete)

	router.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	return router
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := tlog.Get(r.Context())

	var se *serviceError
	if !errors.As(err, &se) {
		logger.Error("Internal error", zap.Error(err))
		se = &serviceError{
			Status:  http.StatusInternalServerError,
			Code:    "internal",
			Type:    "internal",
			Message: "An internal error has occurred.",
		}
	}
	thttp.JSONResult(logger, w, errorBody{Message: se.Message, Code: se.Code, Type: se.Type}, se.Status)
}

func readJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return &serviceError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_request",
			Type:    "invalid_request",
			Message: "The request body could not be read.",
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &serviceError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_request",
			Type:    "invalid_request",
			Message: "The request body is not valid JSON.",
		}
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	thttp.JSONResult(tlog.Get(r.Context()), w, map[string]string{"status": "available"}, http.StatusOK)
}

func (s *Service) handleVersion(w http.ResponseWriter, r *http.Request) {
	thttp.JSONResult(tlog.Get(r.Context()), w, s.version, http.StatusOK)
}

func (s *Service) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID        string `json:"uid"`
		PrimaryKey string `json:"primaryKey"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	record, err := s.store.createIndex(req.UID, req.PrimaryKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexCreated, record.UID)
	thttp.JSONResult(tlog.Get(r.Context()), w, record.info(), http.StatusCreated)
}

func (s *Service) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	infos := []indexInfo{}
	for _, record := range s.store.listIndexes() {
		infos = append(infos, record.info())
	}
	thttp.JSONResult(tlog.Get(r.Context()), w, infos, http.StatusOK)
}

func (s *Service) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.getIndex(mux.Vars(r)["uid"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	thttp.JSONResult(tlog.Get(r.Context()), w, record.info(), http.StatusOK)
}

func (s *Service) handleUpdateIndex(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrimaryKey string `json:"primaryKey"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	record, err := s.store.updatePrimaryKey(mux.Vars(r)["uid"], req.PrimaryKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexUpdated, record.UID)
	thttp.JSONResult(tlog.Get(r.Context()), w, record.info(), http.StatusOK)
}

func (s *Service) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if err := s.store.deleteIndex(uid); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexDeleted, uid)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.stats(mux.Vars(r)["uid"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	thttp.JSONResult(tlog.Get(r.Context()), w, stats, http.StatusOK)
}

func (s *Service) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var documents []map[string]any
	if err := readJSON(r, &documents); err != nil {
		writeError(w, r, err)
		return
	}

	indexed, primaryKey, err := s.store.putDocuments(uid, documents, r.URL.Query().Get("primaryKey"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexUpdated, uid)
	thttp.JSONResult(tlog.Get(r.Context()), w, map[string]any{
		"indexed":    indexed,
		"primaryKey": primaryKey,
	}, http.StatusOK)
}

func (s *Service) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fields, err := s.store.getDocument(vars["uid"], vars["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	thttp.JSONResult(tlog.Get(r.Context()), w, fields, http.StatusOK)
}

func (s *Service) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.deleteDocument(vars["uid"], vars["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexUpdated, vars["uid"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleDeleteAllDocuments(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if err := s.store.deleteAllDocuments(uid); err != nil {
		writeError(w, r, err)
		return
	}
	s.publish(flint.IndexUpdated, uid)
	w.WriteHeader(http.StatusNoContent)
}

// handleExport streams every document of every index as NDJSON, one document
// per line with its index UID attached, gzip-compressed when negotiated
func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	var payload []byte
	for _, record := range s.store.export() {
		line := map[string]any{
			"index":    record.IndexUID,
			"document": record.Fields,
		}
		payload = append(payload, must.OK1(json.Marshal(line))...)
		payload = append(payload, '\n')
	}
	if err := thttp.ServeGzipNegotiated(w, r, "application/x-ndjson", payload); err != nil {
		tlog.Get(r.Context()).Debug("failed to write export to client", zap.Error(err))
	}
}
