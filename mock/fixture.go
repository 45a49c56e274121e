package mock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/flintsearch/flint"
	"github.com/fsnotify/fsnotify"
	"github.com/flintsearch/flint/tlog"
	"github.com/ridge/must/v2"
	"go.uber.org/zap"
)

// TailFixture seeds the given index from an NDJSON file of documents and
// keeps tailing the file until the context closes: lines appended while the
// service runs are indexed live. The index is created if it does not exist.
//
// Returns a non-nil error: the context's cancelation reason, or a fatal
// problem with the fixture file (removal included).
func (s *Service) TailFixture(ctx context.Context, p, indexUID string) error {
	logger := tlog.Get(ctx).With(zap.String("fixture", p), zap.String("index", indexUID))

	if _, err := s.store.createIndex(indexUID, ""); err != nil {
		var se *serviceError
		if !errors.As(err, &se) || se.Code != flint.CodeIndexAlreadyExists {
			return err
		}
	} else {
		s.publish(flint.IndexCreated, indexUID)
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(path.Dir(p)); err != nil {
		return err
	}

	logger.Info("Tailing fixture")

	var pending []byte
	buf := make([]byte, 64*1024)
	for {
		n, err := f.Read(buf)
		pending = append(pending, buf[:n]...)
		for {
			line, rest, found := bytes.Cut(pending, []byte("\n"))
			if !found {
				break
			}
			pending = rest
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			if err := s.indexFixtureLine(line, indexUID); err != nil {
				logger.Warn("Skipping bad fixture line", zap.Error(err))
				continue
			}
			s.publish(flint.IndexUpdated, indexUID)
		}

		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			return err
		}
		if err := waitForMore(ctx, w, p); err != nil {
			return err
		}
	}
}

func (s *Service) indexFixtureLine(line []byte, indexUID string) error {
	var fields map[string]any
	if err := json.Unmarshal(line, &fields); err != nil {
		return err
	}
	_, _, err := s.store.putDocuments(indexUID, []map[string]any{fields}, "")
	return err
}

func waitForMore(ctx context.Context, w *fsnotify.Watcher, p string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.Events:
			if event.Name != p {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				return fmt.Errorf("fixture file %s removed", p)
			case event.Op&fsnotify.Write != 0:
				return nil
			}
		case err := <-w.Errors:
			must.OK(err)
		}
	}
}
