package edit_test

import (
	"fmt"

	"github.com/matzehuels/binpatch/pkg/bin"
	"github.com/matzehuels/binpatch/pkg/edit"
)

func ExampleExec() {
	emitter := &bin.Struct{Name: "VfxEmitterDefinitionData", Items: []*bin.Node{
		{Key: "ParticleColorTexture", Type: bin.TypeString, Value: "color.dds"},
		{Key: "ColorRenderFlags", Type: bin.TypeU8, Value: uint64(3)},
	}}

	_, err := edit.Exec(emitter, edit.Chain{
		edit.Remove("ParticleColorTexture"),
		edit.Modify("ColorRenderFlags", edit.ClearBits(1)),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, f := range emitter.Items {
		fmt.Println(f.Key, f.Value)
	}
	// Output: ColorRenderFlags 2
}

func ExampleTry() {
	emitter := &bin.Struct{Name: "VfxEmitterDefinitionData"}

	res, _ := edit.Exec(emitter, edit.Try(edit.Remove("ParticleColorTexture")))
	fmt.Println(res)

	res, _ = edit.Exec(emitter, edit.Try(edit.Remove("ParticleColorTexture"), edit.Pass()))
	fmt.Println(res)
	// Output:
	// stop
	// VfxEmitterDefinitionData{0}
}
