package diagram

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/matzehuels/sortnet/pkg/engine"
	"github.com/matzehuels/sortnet/pkg/errors"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Render produces the diagram of rl in format. PNG and PDF are converted from
// SVG with rsvg-convert, which must be installed.
func Render(ctx context.Context, rl *engine.RoundLog, format string, opts Options) ([]byte, error) {
	dot, err := ToDOT(rl, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG, FormatPNG, FormatPDF:
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg, png or pdf)", format)
	}

	svg, err := RenderSVG(ctx, dot)
	if err != nil || format == FormatSVG {
		return svg, err
	}
	if format == FormatPNG {
		return rsvgConvert(ctx, svg, "png", "-z", "2.00")
	}
	return rsvgConvert(ctx, svg, "pdf")
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnavailable,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
