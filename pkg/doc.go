// Package pkg provides the core libraries for Flowcanvas node flow graphs.
//
// # Overview
//
// A flow graph is a set of named modules. Each module holds nodes with
// numbered input and output ports; connections join an output port to an
// input port of another node in the same module and may bend through
// reroute points. The pkg directory is organized into these areas:
//
//  1. [flow] - the graph model and the Store every mutation goes through
//  2. [events] - the event bus the Store and the view session emit on
//  3. [canvas] - transient view state: viewport, selection, drags, mounting
//  4. [render] - connection curves, wired SVG and Graphviz previews
//  5. [io] - JSON and MessagePack codecs with optional zstd compression
//  6. [pipeline] - cached, concurrent preview rendering
//
// Supporting packages: [errors] (structured error codes), [config] (TOML
// settings), [cache] (artifact caches), [observability] (hooks) and
// [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	graph file (.json / .msgpack[.zst])
//	         ↓
//	    [io] package (decode)
//	         ↓
//	    [flow] Store (validate, mutate, emit events)
//	         ↓
//	    [canvas] Session / [render] (paths, previews)
//	         ↓
//	    SVG / DOT / path JSON
//
// # Quick Start
//
// Build a two-node flow and compute the path of its connection:
//
//	store := flow.NewStore()
//	a, _ := store.AddNode(flow.NodeSpec{Name: "trigger", Outputs: 1})
//	b, _ := store.AddNode(flow.NodeSpec{Name: "action", Inputs: 1, X: 300})
//	conn := flow.Connection{SourceNode: a, TargetNode: b, OutputPort: "output_1", InputPort: "input_1"}
//	store.AddConnection(conn)
//
//	m, _ := store.Module(flow.DefaultModule)
//	svg, _ := wires.RenderSVG(m, wires.DefaultOptions())
//
// Save and reload every module:
//
//	io.ExportFile(store.ExportAll(), "flow.json.zst")
//	g, _ := io.ImportFile("flow.json.zst")
//	store.ImportAll(g)
//
// # Errors
//
// Store operations return *errors.Error values carrying a code such as
// NODE_NOT_FOUND or CROSS_MODULE_EDGE. A failed operation leaves the graph
// unchanged and emits nothing:
//
//	if errors.Is(err, errors.ErrCodeCrossModuleEdge) {
//	    // endpoints live in different modules
//	}
//
// [flow]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/flow
// [events]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/events
// [canvas]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/canvas
// [render]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowcanvas/pkg/buildinfo
package pkg
