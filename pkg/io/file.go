package io

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/matzehuels/flowcanvas/pkg/errors"
	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// ImportFile reads a graph from path, choosing the format and compression
// from the file name (see FormatFromPath).
func ImportFile(path string) (*flow.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var r io.Reader = file
	if compressed {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer dec.Close()
		r = dec
	}

	g, err := Read(r, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ExportFile writes g to path, choosing the format and compression from
// the file name. The file is written to a temporary sibling and renamed
// into place, so readers never observe a partial graph.
func ExportFile(g *flow.Graph, path string) (err error) {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, compressed, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	var w io.Writer = file
	var enc *zstd.Encoder
	if compressed {
		if enc, err = zstd.NewWriter(file); err != nil {
			return fmt.Errorf("zstd %s: %w", path, err)
		}
		w = enc
	}
	if err = Write(w, g, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if enc != nil {
		if err = enc.Close(); err != nil {
			return fmt.Errorf("zstd %s: %w", path, err)
		}
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
