// Package formats provides parsers and writers for rigcore document
// formats: animation clips and character rigs, as YAML or JSON, with
// optional gzip framing.
package formats

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Shared format errors.
var (
	ErrTruncatedData      = errors.New("truncated document data")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Version is the current document version written by this package.
const Version = 1

// gzip magic bytes.
var gzipMagic = []byte{0x1f, 0x8b}

// decompress transparently gunzips framed data and passes everything
// else through.
func decompress(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, ErrTruncatedData
	}
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// compress gzips a serialized document.
func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isJSON reports whether the first non-space byte starts a JSON value.
func isJSON(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}
