// Package pkg provides the core libraries for binpatch.
//
// # Overview
//
// binpatch edits the property bin files shipped inside League of Legends game
// archives. The game's bins are converted to a typed JSON text form by an
// external converter. binpatch edits that form with small composable
// transforms, then converts the result back and packages it as an overlay mod.
// The pkg directory is organized into four main areas:
//
//  1. [bin] - The typed value model of converted documents
//  2. [edit] - Transforms and the YAML edit script compiler
//  3. [pipeline] - Orchestration (load → edit → rebuild → package → overlay)
//  4. Infrastructure - [cache], [config], [tools], [observability]
//
// # Architecture
//
// The typical data flow through binpatch:
//
//	Game archive (.wad.client)
//	         ↓
//	    [tools] package (extract bins, convert to JSON)
//	         ↓
//	    [cache] package (store converted documents per game version)
//	         ↓
//	    [io] + [bin] packages (decode the typed document)
//	         ↓
//	    [edit] package (apply edit units)
//	         ↓
//	    [tools] package (convert back, build the overlay)
//
// # Quick Start
//
// Apply an edit script to a converted document:
//
//	import (
//	    "github.com/matzehuels/binpatch/pkg/edit"
//	    "github.com/matzehuels/binpatch/pkg/edit/script"
//	    "github.com/matzehuels/binpatch/pkg/io"
//	)
//
//	s, _ := script.Load("edits.yaml", script.Options{})
//	doc, _ := io.ImportJSON("a120033c1ad32987.json")
//	root, _ := doc.Entries()
//	for _, u := range s.ForDocument("a120033c1ad32987.json") {
//	    if _, err := edit.Exec(root, u.Transform); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	_ = io.ExportJSON(doc, "edited.json")
//
// # Package Organization
//
// ## Value model
//
// [bin] - Documents, sections and the addressable containers (nodes, lists,
// maps, structs, field lists) of the converted text form.
//
// [bin/types] - Type names and payload conversions for every bin type.
//
// [bin/value] - Typed values as written in edit scripts, including the
// ValueColor and ValueFloat helpers.
//
// [io] - Reading and writing converted documents.
//
// ## Editing
//
// [edit] - Selection, iteration, modification and control-flow transforms.
// Transforms compose into chains; [edit.Exec] runs one unit.
//
// [edit/script] - Compiles YAML edit scripts into units, with expressions
// evaluated by expr-lang.
//
// ## Build
//
// [pipeline] - Runs a complete build with bounded concurrency across archives
// and documents.
//
// [tools] - Runs the external archive, converter and overlay tools.
//
// [cache] - Converted document caching with file, Redis and null backends.
//
// [config] - TOML configuration and the work directory layout.
//
// [observability] - Hooks for stage, cache and tool events.
//
// [render] - Document trees as terminal text, DOT or SVG.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/edit/...        # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [bin]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/bin
// [bin/types]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/bin/types
// [bin/value]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/bin/value
// [io]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/io
// [edit]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/edit
// [edit.Exec]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/edit#Exec
// [edit/script]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/edit/script
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/pipeline
// [tools]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/tools
// [cache]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/binpatch/pkg/errors
package pkg
