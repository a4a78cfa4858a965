// Package nodelink renders a flow module as a Graphviz node-link diagram.
//
// # Overview
//
// Each node becomes a record shape whose left column lists its input ports
// and whose right column lists its output ports. Connections are drawn
// between the matching record fields, so a diagram shows exactly which
// port each edge leaves and enters.
//
// Stored node positions are ignored: Graphviz computes its own layout. Use
// the wires package for a preview at the editor's coordinates.
//
// # Usage
//
//	g := store.ExportAll()
//	dot := nodelink.ToDOT(g.Modules["Home"], nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
