package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// graphRecord is the msgpack shape of a graph. It mirrors the JSON layout so
// both formats carry identical field names.
type graphRecord struct {
	Modules map[string]moduleRecord `json:"modules"`
}

type moduleRecord struct {
	Nodes map[string]flow.NodeRecord `json:"nodes"`
}

// Write encodes g to w in the given format.
func Write(w io.Writer, g *flow.Graph, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetSortMapKeys(true)
		if err := enc.Encode(toRecord(g)); err != nil {
			return fmt.Errorf("encode msgpack: %w", err)
		}
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format: %q", f)
}

// Read decodes a graph from r. The result is not validated; pass it to
// flow.Store.ImportAll, which rejects corrupt graphs.
func Read(r io.Reader, f Format) (*flow.Graph, error) {
	switch f {
	case FormatJSON:
		var g flow.Graph
		if err := json.NewDecoder(r).Decode(&g); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
		if g.Modules == nil {
			g.Modules = map[string]*flow.Module{}
		}
		return &g, nil
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		dec.UseLooseInterfaceDecoding(true)
		var rec graphRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode msgpack")
		}
		return fromRecord(rec)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format: %q", f)
}

func toRecord(g *flow.Graph) graphRecord {
	rec := graphRecord{Modules: make(map[string]moduleRecord, len(g.Modules))}
	for name, m := range g.Modules {
		mr := moduleRecord{Nodes: make(map[string]flow.NodeRecord, len(m.Nodes))}
		for id, n := range m.Nodes {
			mr.Nodes[id.String()] = n.Record()
		}
		rec.Modules[name] = mr
	}
	return rec
}

func fromRecord(rec graphRecord) (*flow.Graph, error) {
	g := &flow.Graph{Modules: make(map[string]*flow.Module, len(rec.Modules))}
	for name, mr := range rec.Modules {
		m := flow.NewModule()
		for id, nr := range mr.Nodes {
			n, err := flow.NodeFromRecord(nr)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "module %q", name)
			}
			m.Nodes[flow.NodeID(id)] = n
		}
		g.Modules[name] = m
	}
	return g, nil
}
