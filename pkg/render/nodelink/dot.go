package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowcanvas/pkg/flow"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id, class and data keys to each label.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts one module to Graphviz DOT. Nodes become record shapes with
// an input column on the left and an output column on the right; every edge
// is drawn between the named record fields so port order is preserved.
//
// Reroute points are not represented: Graphviz routes edges itself.
func ToDOT(m *flow.Module, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, id := range m.NodeIDs() {
		n := m.Nodes[id]
		fmt.Fprintf(&buf, "  %q [%s];\n", string(n.ID), strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, c := range m.Connections() {
		fmt.Fprintf(&buf, "  %q:%q:e -> %q:%q:w;\n",
			string(c.SourceNode), c.OutputPort, string(c.TargetNode), c.InputPort)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *flow.Node, detailed bool) string {
	title := escapeRecord(n.Name)
	if detailed {
		lines := []string{escapeRecord(fmt.Sprintf("#%s %s", n.ID, n.Name))}
		if n.Class != "" {
			lines = append(lines, escapeRecord("."+n.Class))
		}
		for _, k := range slices.Sorted(maps.Keys(n.Data)) {
			lines = append(lines, escapeRecord(fmt.Sprintf("%s: %v", k, n.Data[k])))
		}
		title = strings.Join(lines, `\n`)
	}

	return fmt.Sprintf("{ {%s} | %s | {%s} }",
		portFields(flow.Input, len(n.Inputs)), title, portFields(flow.Output, len(n.Outputs)))
}

func portFields(side flow.Side, count int) string {
	fields := make([]string, count)
	for i := range fields {
		fields[i] = fmt.Sprintf("<%s> %d", flow.PortName(side, i+1), i+1)
	}
	return strings.Join(fields, " | ")
}

func fmtAttrs(n *flow.Node, detailed bool) []string {
	attrs := []string{"label=" + dotQuote(fmtLabel(n, detailed))}
	if n.Content.Kind == flow.ContentComponent {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`, `{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`, "\n", " ",
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }

// dotQuote quotes s as a DOT string. Only the double quote is escaped so
// record escapes and \n line breaks reach Graphviz unchanged.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg element with a
// viewBox-only one so the preview scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
