// Package bin models the parsed wire tree of a game-asset document.
//
// The external serializer converts binary asset documents into JSON whose
// unit is the field triple
//
//	{"key": "ColorRenderFlags", "type": "u32", "value": 3}
//
// Order is significant and is the only addressing mechanism: there are no
// indices or paths, and keys inside one record may repeat (the first match
// wins).
//
// # Payloads
//
// A [Node]'s Value holds a payload whose Go shape is fixed by its [Type]:
// scalars decode into canonical Go values (int64 for signed tags, uint64 for
// unsigned tags, float32 for f32, fixed-size arrays for vectors and colours),
// while containers decode into pointers so that edits mutate the tree in
// place:
//
//   - list, list2, option → *[List] with raw item payloads of ValueType
//   - map → *[Map] with ordered *[MapEntry] pairs
//   - embed, pointer → *[Struct], a named, ordered list of fields
//
// [Coerce] converts generic Go values (for example numbers read from an edit
// script) into canonical payloads and rejects anything that would not
// re-serialize.
//
// # Documents
//
// A [Document] is an ordered set of named sections. The real converter emits
// typed sections ({"type", "value"}); a section given as a bare array of
// fields is also accepted and re-encoded the same way. [Document.Entries]
// returns the root an edit pass operates on.
//
//	doc, err := bin.Decode(r)
//	root, err := doc.Entries()
//	// ... edit root in place ...
//	err = bin.Encode(w, doc)
package bin
