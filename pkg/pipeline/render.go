package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/render/nodelink"
	"github.com/matzehuels/flowcanvas/pkg/render/wires"
)

// Render produces one artifact of m without touching any cache.
func Render(m *flow.Module, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatWires:
		return wires.RenderSVG(m, wiresOptions(opts))
	case FormatSVG:
		return nodelink.RenderSVG(nodelink.ToDOT(m, nodelink.Options{Detailed: opts.Detailed}))
	case FormatDOT:
		return []byte(nodelink.ToDOT(m, nodelink.Options{Detailed: opts.Detailed})), nil
	case FormatJSON:
		ws, err := wires.Paths(m, wiresOptions(opts))
		if err != nil {
			return nil, err
		}
		if ws == nil {
			ws = []wires.Wire{}
		}
		return json.MarshalIndent(ws, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func wiresOptions(opts Options) wires.Options {
	w := wires.DefaultOptions()
	w.Curves = opts.Curves
	return w
}
