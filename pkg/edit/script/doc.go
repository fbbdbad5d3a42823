// Package script loads edit scripts written in YAML and compiles them into
// transforms.
//
// A script lists edit units. Each unit names an archive, a converted
// document inside it, and the steps applied to the document's entries:
//
//	units:
//	  - wad: Champions/Xerath.wad.client
//	    bin: a120033c1ad32987.json
//	    transforms:
//	      - Characters/Xerath/Skins/Skin5/Particles/Xerath_Skin05_Q_aoe_reticle_red
//	      - ComplexEmitterDefinitionData
//	      - iterate:
//	          - remove: ParticleColorTexture
//	          - modify: { key: ColorRenderFlags, expr: "bitnand(value, 1)" }
//	          - append:
//	              key: Color
//	              value: { helper: ValueColor, rgb: [230, 100, 255] }
//
// # Steps
//
// A bare string selects, an integer picks by position and a list chains.
// Every other step is a mapping with one operator key:
//
//	select: KEY            match: REGEXP          nth: N
//	filter: KEY            chain: [STEP...]       iterate: STEP | [STEP...]
//	remove: KEY            stop: {}               pass: {}
//	print: MESSAGE         debug: {}
//	try: STEP              (optional or: STEP)
//	if: KEY                then: STEP             (optional else: STEP)
//	modify: {key: KEY, value: V | expr: EXPR | set_bits: N | clear_bits: N}
//	append: {key: KEY, value: VALUE}
//
// Malformed steps are rejected with errors.ErrCodeInvalidTransform and the
// line of the offending node.
//
// # Expressions
//
// modify expressions use github.com/expr-lang/expr. The current payload is
// bound to value; the bit builtins (bitand, bitor, bitnand, ...) work on
// integer fields and rgb(r, g, b) yields a normalized colour. The result is
// coerced to the field's type.
//
// # Values
//
// append values are given by type tag and payload:
//
//	{type: u32, value: 3}
//	{type: list, elementType: string, items: [a.dds, b.dds]}
//	{type: map, keyType: hash, valueType: string, entries: [{key: 0x1, value: a}]}
//	{type: embed, name: ValueFloat, fields: [{key: ConstantValue, value: {type: f32, value: 1}}]}
//
// or by helper name (ValueFloat, ValueVector2, ValueVector3, ValueColor).
package script
