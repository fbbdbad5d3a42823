package io

import (
	"io"
	"os"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/errors"
)

// ReadJSON decodes a document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*bin.Document, error) {
	return bin.Decode(r)
}

// ImportJSON reads the document at path.
func ImportJSON(path string) (*bin.Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "open %s", path)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "read %s", path)
	}
	return doc, nil
}
