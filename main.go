// Command svgscale rescales SVG documents: every quantity in user
// units is multiplied by a factor while the markup structure, relative
// units and rendering stay intact.
package main

import (
	"bytes"
	"fmt"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/benoitkugler/svgscale/svgnum"
	"github.com/benoitkugler/svgscale/svgraster"
	"github.com/benoitkugler/svgscale/svgscale"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

type options struct {
	input     string
	precision int
	from      float64
	to        string
	scale     float64
	output    string
	outDir    string
	fixStroke bool
	png       bool
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:          "svgscale",
		Short:        "rescale an SVG document",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(&opts)
		},
	}
	fl := rootCmd.Flags()
	fl.StringVarP(&opts.input, "input", "i", "", "input SVG file")
	fl.IntVar(&opts.precision, "precision", 4, "fractional digits in rewritten numbers")
	fl.Float64Var(&opts.from, "from", 0, "original size (autodetected when omitted)")
	fl.StringVar(&opts.to, "to", "", "target size, or several: 128 or 16,32,48")
	fl.Float64Var(&opts.scale, "scale", 0, "scale factor, overrides --to")
	fl.StringVarP(&opts.output, "output", "o", "", "output file (single size; default stdout)")
	fl.StringVar(&opts.outDir, "out-dir", "", "batch output directory, needs --to")
	fl.BoolVar(&opts.fixStroke, "fix-stroke", false, "bake non-scaling strokes into a scaled width")
	fl.BoolVar(&opts.png, "png", false, "also render a PNG next to each SVG output")
	_ = rootCmd.MarkFlagRequired("input")

	vscodeCmd := &cobra.Command{
		Use:   "vscode",
		Short: "produce a 128px VSCode extension icon (SVG and PNG) from a 512px source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVscode(&opts)
		},
	}
	vfl := vscodeCmd.Flags()
	vfl.StringVarP(&opts.input, "input", "i", "", "input SVG file")
	vfl.IntVar(&opts.precision, "precision", 4, "fractional digits in rewritten numbers")
	vfl.StringVar(&opts.outDir, "out-dir", "images/dist", "output directory")
	_ = vscodeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(vscodeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// detectSize reads the document size from the width attribute, then
// from the viewBox width.
func detectSize(doc *svgdom.Document) (float64, bool) {
	if w, ok := doc.Root.Attr("width"); ok {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(w, "px"), 64); err == nil {
			return v, true
		}
	}
	if vb, ok := doc.Root.Attr("viewBox"); ok {
		parts := strings.Fields(vb)
		if len(parts) == 4 {
			if v, err := strconv.ParseFloat(parts[2], 64); err == nil {
				return v, true
			}
		}
	}
	return 0, false
}

func parseTargets(to string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(to, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --to value %q", part)
		}
		out = append(out, v)
	}
	return out, nil
}

func run(opts *options) error {
	doc, err := svgdom.ParseFile(opts.input)
	if err != nil {
		return err
	}

	fromSize := opts.from
	if fromSize == 0 {
		var ok bool
		fromSize, ok = detectSize(doc)
		if !ok {
			return fmt.Errorf("cannot detect the size of %s, pass --from", opts.input)
		}
		log.Info().Float64("size", fromSize).Msg("autodetected original size")
	}

	if opts.outDir != "" {
		return runBatch(opts, doc, fromSize)
	}

	scale := opts.scale
	switch {
	case scale != 0:
	case opts.to != "":
		targets, err := parseTargets(opts.to)
		if err != nil {
			return err
		}
		scale = targets[0] / fromSize
	default:
		return fmt.Errorf("pass --scale or --to")
	}

	ctx := &svgscale.ScaleContext{Scale: scale, Precision: opts.precision, FixStroke: opts.fixStroke}
	if err := ctx.Validate(); err != nil {
		return err
	}
	out, err := svgscale.Scale(doc, ctx)
	if err != nil {
		return err
	}

	if opts.output == "" {
		if opts.png {
			return fmt.Errorf("--png needs a file output")
		}
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return err
	}
	log.Info().Str("path", opts.output).Msg("wrote SVG")
	if opts.png {
		size := int(math.Round(fromSize * scale))
		return writePNG(out, pngName(opts.output), size)
	}
	return nil
}

func runBatch(opts *options, doc *svgdom.Document, fromSize float64) error {
	if opts.to == "" {
		return fmt.Errorf("batch output needs --to (for example: --to 16,32,48)")
	}
	targets, err := parseTargets(opts.to)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	for _, target := range targets {
		ctx := &svgscale.ScaleContext{
			Scale:     target / fromSize,
			Precision: opts.precision,
			FixStroke: opts.fixStroke,
		}
		if err := ctx.Validate(); err != nil {
			return err
		}
		out, err := svgscale.Scale(doc, ctx)
		if err != nil {
			return err
		}
		name := "icon.svg"
		if len(targets) > 1 {
			name = fmt.Sprintf("icon-%s.svg", svgnum.Format(target, 0))
		}
		path := filepath.Join(opts.outDir, name)
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote SVG")
		if opts.png {
			if err := writePNG(out, pngName(path), int(math.Round(target))); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	vscodeSourceSize = 512
	vscodeIconSize   = 128
)

func runVscode(opts *options) error {
	doc, err := svgdom.ParseFile(opts.input)
	if err != nil {
		return err
	}
	ctx := &svgscale.ScaleContext{
		Scale:     float64(vscodeIconSize) / vscodeSourceSize,
		Precision: opts.precision,
		FixStroke: true,
	}
	out, err := svgscale.Scale(doc, ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	svgPath := filepath.Join(opts.outDir, "icon.svg")
	if err := os.WriteFile(svgPath, out, 0o644); err != nil {
		return err
	}
	pngPath := filepath.Join(opts.outDir, "icon.png")
	if err := writePNG(out, pngPath, vscodeIconSize); err != nil {
		return err
	}
	log.Info().Str("svg", svgPath).Str("png", pngPath).Msg("VSCode icon generated")
	return nil
}

func pngName(svgPath string) string {
	return strings.TrimSuffix(svgPath, filepath.Ext(svgPath)) + ".png"
}

// writePNG rasterizes the scaled document to a square size x size PNG.
func writePNG(svg []byte, path string, size int) error {
	if size <= 0 {
		return fmt.Errorf("cannot render %s: non-positive size %d", path, size)
	}
	doc, err := svgdom.Parse(bytes.NewReader(svg))
	if err != nil {
		return err
	}
	img, err := svgraster.Render(doc, size, size)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("wrote PNG")
	return nil
}
