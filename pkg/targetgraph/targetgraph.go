// Package targetgraph renders a project's target dependency graph. Targets
// become nodes, requirements become edges, and the result can be emitted as
// Graphviz DOT text or rendered to SVG and PNG.
package targetgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/stagehand-dev/stagehand/pkg/project"
)

// Options configures graph rendering.
type Options struct {
	// Detailed includes target kind and source directory in node labels.
	// When false, only the target name is shown.
	Detailed bool
}

// ToDOT converts a project's target graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// App targets are drawn with a bold outline to distinguish build roots from
// frameworks and themes.
func ToDOT(p *project.Project, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph targets {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, t := range p.Targets() {
		label := fmtLabel(t, opts.Detailed)
		attrs := fmtAttrs(t, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", t.Name(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, t := range p.Targets() {
		for _, req := range t.RequiredNames() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", t.Name(), req)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *project.Target, detailed bool) string {
	if !detailed {
		return t.Name()
	}
	parts := []string{fmt.Sprintf("kind: %s", t.Kind())}
	if dir := t.SourceDir(); dir != "" {
		parts = append(parts, fmt.Sprintf("source: %s", dir))
	}
	return t.Name() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(t *project.Target, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch t.Kind() {
	case project.KindApp:
		attrs = append(attrs, "penwidth=2")
	case project.KindTheme:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG, nil)
}

func render(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
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
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root tag so the viewBox starts at the
// origin, which keeps embedding in HTML pages predictable.
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
