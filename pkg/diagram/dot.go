// Package diagram draws a traced run as a Graphviz diagram: one row per
// round, one cell per processor, with the processors that were grouped in
// that round shaded.
package diagram

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/errors"
)

// Options configures diagram rendering.
type Options struct {
	// Groups shades the processors of each round's groups.
	Groups bool

	// MaxRounds limits the number of rows after the initial one. 0 draws
	// every round.
	MaxRounds int
}

// groupColors alternate between neighbouring groups of a round.
var groupColors = [2]string{"#cfe2ff", "#ffe5b4"}

// ToDOT converts a traced run to Graphviz DOT. It fails when rl carries no
// trace.
func ToDOT(rl *engine.RoundLog, opts Options) (string, error) {
	if rl == nil || len(rl.Trace) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "run has no trace; rerun with tracing enabled")
	}
	trace := rl.Trace
	if opts.MaxRounds > 0 && len(trace) > opts.MaxRounds+1 {
		trace = trace[:opts.MaxRounds+1]
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=grey50];\n")
	buf.WriteString("  ranksep=0.25;\n")
	fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", fmt.Sprintf("%s, n=%d, %d rounds", rl.Strategy, rl.Size, rl.Rounds))
	buf.WriteString("\n")

	for _, snap := range trace {
		fmt.Fprintf(&buf, "  r%d [label=<%s>];\n", snap.Round, rowLabel(snap, opts.Groups))
	}
	buf.WriteString("\n")
	for i := 1; i < len(trace); i++ {
		fmt.Fprintf(&buf, "  r%d -> r%d;\n", trace[i-1].Round, trace[i].Round)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// rowLabel renders one snapshot as an HTML-like table.
func rowLabel(snap engine.Snapshot, shade bool) string {
	fill := make(map[int]string)
	if shade {
		for gi, g := range snap.Groups {
			for _, m := range g {
				fill[m] = groupColors[gi%2]
			}
		}
	}

	border := "grey60"
	if snap.Sorted {
		border = "forestgreen"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<table border="1" cellborder="1" cellspacing="0" color="%s"><tr>`, border)
	fmt.Fprintf(&buf, `<td bgcolor="grey92"><b>%d</b></td>`, snap.Round)
	for i, v := range snap.Values {
		if c, ok := fill[i]; ok {
			fmt.Fprintf(&buf, `<td bgcolor="%s">%d</td>`, c, v)
		} else {
			fmt.Fprintf(&buf, `<td>%d</td>`, v)
		}
	}
	buf.WriteString(`</tr></table>`)
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces graphviz's point-based svg header with one sized
// from its viewBox, so the diagram scales in a browser.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
