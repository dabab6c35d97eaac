// Package wire implements the binary encoding used to move IR documents
// between the indexing pipeline and the query facade (spec §6). Msgpack
// is the wire format: compact, schema-free, and already a teacher
// dependency.
package wire

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// Marshal encodes v as msgpack bytes.
func Marshal(v interface{}) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes msgpack bytes into v.
func Unmarshal(data []byte, v interface{}) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wire: unmarshal: %w", err)
	}
	return nil
}

// EncodeDocument msgpack-encodes an IR document's nodes and edges.
func EncodeDocument(doc types.Document) ([]byte, error) {
	return Marshal(doc)
}

// DecodeDocument msgpack-decodes an IR document produced by EncodeDocument
// or by any upstream producer emitting a {"nodes": [...], "edges": [...]}
// map (spec §4.14: "nodes and edges keys").
func DecodeDocument(data []byte) (types.Document, error) {
	var doc types.Document
	if err := Unmarshal(data, &doc); err != nil {
		return types.Document{}, fmt.Errorf("wire: decode document: %w", err)
	}
	return doc, nil
}
