// Package value builds typed values for insertion into a wire tree.
//
// Edits that add data to a document need well-formed payloads: a list whose
// items all share its declared element type, a map whose keys are primitive,
// a record with a name. Package value provides constructors that enforce
// these rules when the value is built, so a bad value fails where it is
// written rather than when the external serializer rejects the document.
//
//	reticle, err := value.List(bin.TypeString, "a.dds", "b.dds")
//	node, err := value.ToNode("Textures", reticle)
//
// Raw Go scalars passed to a container constructor are wrapped to the
// declared element type when that type is primitive; items for container or
// record element types must be Values already. A Value of a different type
// is an [errors.ErrCodeInvalidValue] error.
//
// The matrix, file and link variants exist in the type schema but have no
// implementation; their constructors always return
// [errors.ErrCodeUnsupportedVariant].
//
// [Payload] and [ToNode] convert Values into the payloads described in
// package bin. Conversion always allocates fresh containers.
package value
