package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flowcanvas/pkg/cache"
	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
	flowio "github.com/matzehuels/flowcanvas/pkg/io"
)

// Load reads a graph file and validates it. The format follows the file
// extension (see flowio.FormatFromPath).
func Load(path string) (*flow.Graph, error) {
	g, err := flowio.ImportFile(path)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ModuleHash hashes the JSON form of one module. encoding/json sorts map
// keys, so equal modules hash equally regardless of insertion order.
func ModuleHash(g *flow.Graph, module string) (string, error) {
	m, ok := g.Modules[module]
	if !ok {
		return "", errors.New(errors.ErrCodeModuleNotFound, "module %q not found", module)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash module %q", module)
	}
	return cache.Hash(data), nil
}
