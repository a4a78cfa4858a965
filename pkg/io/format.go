package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/flowcanvas/pkg/errors"
)

// Format identifies a graph encoding.
type Format string

const (
	// FormatJSON is indented JSON, the canonical interchange format.
	FormatJSON Format = "json"
	// FormatMsgpack is MessagePack with the same field names as JSON.
	FormatMsgpack Format = "msgpack"
)

// CompressedSuffix marks zstd-compressed files, e.g. "graph.json.zst".
const CompressedSuffix = ".zst"

var extensions = map[string]Format{
	".json":    FormatJSON,
	".msgpack": FormatMsgpack,
	".mpk":     FormatMsgpack,
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack, "mpk":
		return FormatMsgpack, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown graph format: %q", s)
}

// FormatFromPath infers the format from a file name. A trailing ".zst"
// reports compressed and is stripped before the format extension is read.
func FormatFromPath(path string) (f Format, compressed bool, err error) {
	name := strings.ToLower(filepath.Base(path))
	if trimmed, ok := strings.CutSuffix(name, CompressedSuffix); ok {
		name, compressed = trimmed, true
	}
	f, ok := extensions[filepath.Ext(name)]
	if !ok {
		return "", false, errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer graph format from %q (want .json, .msgpack or .mpk, optionally with .zst)", path)
	}
	return f, compressed, nil
}
