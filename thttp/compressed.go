package thttp

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"

	"github.com/kevinpollet/nego"
)

func gzipCompress(r io.Reader) ([]byte, error) {
	compressed := bytes.NewBuffer(nil)
	compressor := gzip.NewWriter(compressed)
	if _, err := io.Copy(compressor, r); err != nil {
		return nil, err
	}
	if err := compressor.Close(); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}

// ShouldGzip returns if gzip-compression is asked for in HTTP request
func ShouldGzip(r *http.Request) bool {
	// nego.NegotiateContentEncoding(r, "gzip") returns "gzip"
	// if there is no "Accept-Encoding" header there. Guard against it.
	return r.Header.Get("Accept-Encoding") != "" && nego.NegotiateContentEncoding(r, "gzip") == "gzip"
}

// ServeGzipNegotiated writes the payload, gzip-compressed when the HTTP
// request asks for gzip Content-Encoding, verbatim otherwise
func ServeGzipNegotiated(w http.ResponseWriter, r *http.Request, contentType string, payload []byte) error {
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("Content-Type", contentType)
	if ShouldGzip(r) {
		compressed, err := gzipCompress(bytes.NewReader(payload))
		if err != nil {
			return err
		}
		w.Header().Set("Content-Encoding", "gzip")
		_, err = w.Write(compressed)
		return err
	}
	_, err := w.Write(payload)
	return err
}
