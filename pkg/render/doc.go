// Package render groups the output side of flowcanvas.
//
// Subpackages:
//
//   - [curve]: the Bezier path geometry shared by the editor and previews
//   - [wires]: SVG preview at the stored node positions
//   - [nodelink]: Graphviz node-link diagram with its own layout
//
// [curve]: github.com/matzehuels/flowcanvas/pkg/render/curve
// [wires]: github.com/matzehuels/flowcanvas/pkg/render/wires
// [nodelink]: github.com/matzehuels/flowcanvas/pkg/render/nodelink
package render
