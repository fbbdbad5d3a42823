// Package edit implements composable, in-place transforms over a wire tree.
//
// An edit script is a tree of transforms applied to the entries of one
// document. Every transform normalizes to a [Func], a unary operation that
// takes a [Subject] and returns a [Result]: the next subject, an undefined
// result (nothing found), or the stop sentinel.
//
// # Transform Shapes
//
// Three shapes are accepted wherever a transform is expected:
//
//   - [Key]: a selector naming the first item with that key
//   - [Chain]: transforms applied left to right
//   - [Func]: an arbitrary operation
//
// [Normalize] also accepts plain strings, slices and functions so that
// transforms loaded from data can be resolved in one place. Shapes it does
// not recognize are rejected with errors.ErrCodeInvalidTransform.
//
// # Items
//
// Operations address the ordered items of their subject. A subject may be a
// field whose payload is a container, a bare container, or a raw list of
// fields; all resolve to the same items. Struct items are fields, map items
// are entries (matched on their key as text) and list items are elements,
// which have no keys.
//
// # Example
//
//	t := edit.Chain{
//	    edit.Key("Characters/Xerath/Skins/Skin5/Particles/Xerath_Skin05_Q_aoe_reticle_red"),
//	    edit.Key("ComplexEmitterDefinitionData"),
//	    edit.Iterate(
//	        edit.Try(edit.Remove("ParticleColorTexture"), edit.Pass()),
//	        edit.Modify("ColorRenderFlags", edit.ClearBits(1)),
//	        edit.AppendValue("Color", types.ValueColor(types.RGB(230, 100, 255, 1))),
//	    ),
//	}
//	res, err := edit.Exec(root, t)
//
// # Failure Semantics
//
// Selector misses are not errors; they produce an undefined result, and the
// next selector in a chain fails on it. Remove and Modify require their key
// to exist and return errors.ErrCodeStructuralLookup otherwise. [Try]
// converts any failure or undefined result of its transform into its
// fallback, which defaults to [Stop].
//
// # Concurrency
//
// Transforms mutate the tree in place and are not safe for concurrent use on
// the same tree. Distinct trees may be edited concurrently.
package edit
