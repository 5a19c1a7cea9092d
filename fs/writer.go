// Package fs provides file-based storage for crawl results.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/harvest"
)

// Ensure JSONWriter implements harvest.ResultWriter at compile time.
var _ harvest.ResultWriter = (*JSONWriter)(nil)

// JSONWriter writes crawl results to a file as a pretty-printed JSON array.
// Non-ASCII characters and HTML-significant characters are written literally.
//
// The file is replaced atomically: results are written to a temporary file
// in the same directory and renamed over the destination, so a failed write
// never leaves a truncated file behind.
type JSONWriter struct {
	path string
}

// NewJSONWriter creates a new JSONWriter that writes to path.
func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{path: path}
}

// WriteResults encodes results and replaces the destination file.
// A nil or empty slice is written as [].
func (w *JSONWriter) WriteResults(ctx context.Context, results []*harvest.PageResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if results == nil {
		results = []*harvest.PageResult{}
	}

	data, err := encode(results)
	if err != nil {
		return err
	}

	return writeAtomic(w.path, data)
}

// WriteJSON writes results to w in the format JSONWriter stores them.
func WriteJSON(w io.Writer, results []*harvest.PageResult) error {
	if results == nil {
		results = []*harvest.PageResult{}
	}
	data, err := encode(results)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// encode renders results with four-space indentation and a trailing newline.
func encode(results []*harvest.PageResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(results); err != nil {
		return nil, harvest.Errorf(harvest.EINTERNAL, "encoding results: %v", err)
	}
	return buf.Bytes(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
