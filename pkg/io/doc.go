// Package io reads and writes converted bin documents on disk.
//
// Documents are the JSON files ritobin produces from .bin files. Use
// [ImportJSON] to read one from a path, or [ReadJSON] with any io.Reader:
//
//	doc, err := io.ImportJSON("a120033c1ad32987.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [ExportJSON] writes a document back, creating parent directories and
// replacing the file atomically. A missing file is reported with
// errors.ErrCodeFileNotFound and malformed JSON with
// errors.ErrCodeInvalidDocument.
package io
