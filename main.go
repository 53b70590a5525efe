// Package main provides the perspectivefix command: load a photo, optionally
// rotate it, square off the quadrilateral given by four corners and save it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"perspectivefix/internal/app"
	"perspectivefix/internal/cvwarp"
	"perspectivefix/internal/image"
	"perspectivefix/internal/perspective"
	"perspectivefix/internal/prefs"
	"perspectivefix/internal/version"
	"perspectivefix/pkg/geometry"
)

// stdio is the path that selects stdin for -in and stdout for -out.
const stdio = "-"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appPrefs := prefs.Load()

	in := flag.String("in", "", "Path to the source image, or - for stdin")
	out := flag.String("out", "", "Path to write the corrected image, or - for stdout. A bare file name goes to the last output directory")
	format := flag.String("format", ".png", "Encoding used with -out -")
	cornersArg := flag.String("corners", "", `Four corners "x,y x,y x,y x,y", clockwise from top-left`)
	rotateArg := flag.String("rotate", "", "Rotations applied before the corners, e.g. cw, ccw,180")
	order := flag.Bool("order", appPrefs.OrderCorners(), "Sort corners clockwise from top-left before correcting")
	backend := flag.String("backend", appPrefs.Backend(), "Warp backend: go or opencv")
	interp := flag.String("interp", appPrefs.Interpolation(), "Interpolation: bilinear or nearest")
	quality := flag.Int("quality", appPrefs.JPEGQuality(), "JPEG quality 1-100")
	previewPath := flag.String("preview", "", "Also write a scaled-down preview to this path")
	previewSize := flag.String("preview-size", "800x600", "Preview bounding box WxH")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *in == "" || (*out == "" && *previewPath == "") {
		fmt.Fprintln(os.Stderr, "Usage: perspectivefix -in <image> -out <image> [-corners \"x,y x,y x,y x,y\"] [-rotate cw|ccw|180] [-order]")
		fmt.Fprintf(os.Stderr, "Inputs: %s\n", image.FileFilter())
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Printf("Starting %s", version.String())

	corrector, err := newCorrector(*backend, *interp)
	if err != nil {
		log.Fatalf("%v", err)
	}

	state := app.NewState(corrector)
	state.On(app.EventImageLoaded, func(data interface{}) {
		if b, ok := data.(*image.Buffer); ok && b != nil {
			log.Printf("Loaded %dx%d image", b.Width, b.Height)
		}
	})
	state.On(app.EventImageRotated, func(data interface{}) {
		if b, ok := data.(*image.Buffer); ok && b != nil {
			log.Printf("Rotated to %dx%d", b.Width, b.Height)
		}
	})

	if err := loadInput(state, *in); err != nil {
		log.Fatalf("Failed to load %s: %v", *in, err)
	}

	turns, err := app.ParseTurns(*rotateArg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := state.Apply(turns...); err != nil {
		log.Fatalf("Rotate failed: %v", err)
	}

	var result *image.Buffer
	if *cornersArg == "" {
		log.Println("No corners given, writing the rotated image unchanged")
		result = state.Image()
	} else {
		corners, err := perspective.ParseCornerSet(*cornersArg)
		if err != nil {
			log.Fatalf("Bad -corners: %v", err)
		}
		if *order {
			corners = corners.Ordered()
			log.Printf("Corner order: %s", corners)
		}
		for _, w := range cornerWarnings(state.Image(), corners) {
			log.Printf("Warning: %s", w)
		}

		if err := state.SetCorners(corners); err != nil {
			log.Fatalf("%v", err)
		}
		result, err = state.Correct()
		if err != nil {
			log.Fatalf("Correction failed: %v", err)
		}
		log.Printf("Corrected to %dx%d (%s, %s)", result.Width, result.Height, *backend, *interp)
	}

	if *out == stdio {
		if err := image.Encode(os.Stdout, result, *format, *quality); err != nil {
			log.Fatalf("%v", err)
		}
	} else if *out != "" {
		path := resolveOutput(*out, appPrefs.LastDir())
		if err := image.Save(path, result, *quality); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("Wrote %s", path)
		if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
			appPrefs.SetString(prefs.KeyLastDir, abs)
		}
	}

	if *previewPath != "" {
		maxW, maxH, err := parseSize(*previewSize)
		if err != nil {
			log.Fatalf("Bad -preview-size: %v", err)
		}
		if err := image.Save(*previewPath, image.Fit(result, maxW, maxH), *quality); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("Wrote preview %s", *previewPath)
	}

	appPrefs.SetString(prefs.KeyBackend, *backend)
	appPrefs.SetString(prefs.KeyInterpolation, *interp)
	appPrefs.SetInt(prefs.KeyJPEGQuality, *quality)
	appPrefs.SetBool(prefs.KeyOrderCorners, *order)
	if err := appPrefs.Save(); err != nil {
		log.Printf("Failed to save preferences to %s: %v", appPrefs.Path(), err)
	}
}

// loadInput reads the working image from a file or, for "-", from stdin.
func loadInput(state *app.State, in string) error {
	if in != stdio {
		return state.LoadImage(in)
	}
	buf, err := image.Decode(os.Stdin)
	if err != nil {
		return err
	}
	state.SetImage(buf, "stdin")
	return nil
}

// newCorrector builds the correction backend named by the flags.
func newCorrector(backend, interp string) (app.Corrector, error) {
	mode, err := perspective.ParseInterpolation(interp)
	if err != nil {
		return nil, err
	}
	opts := perspective.DefaultOptions()
	opts.Interpolation = mode

	switch backend {
	case prefs.BackendGo:
		return perspective.NewCorrector(opts), nil
	case prefs.BackendOpenCV:
		return cvwarp.NewCorrector(opts), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backend, prefs.BackendGo, prefs.BackendOpenCV)
}

// resolveOutput places a bare file name in lastDir. Paths with a directory
// part, and every path when lastDir is unset, are used as given.
func resolveOutput(out, lastDir string) string {
	if lastDir == "" || filepath.IsAbs(out) || filepath.Base(out) != out {
		return out
	}
	return filepath.Join(lastDir, out)
}

// parseSize reads "WxH".
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New("want WxH")
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0, err
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("size %dx%d must be positive", width, height)
	}
	return width, height, nil
}

// cornerWarnings lists corners that fall off the image and corner sets that
// do not run clockwise around a convex quad. Such sets are still corrected;
// off-image samples come out as background and the result may be mirrored or
// folded.
func cornerWarnings(b *image.Buffer, corners perspective.CornerSet) []string {
	var warnings []string
	if b != nil {
		bounds := geometry.NewRect(0, 0, float64(b.Width), float64(b.Height))
		for i, p := range corners.Points() {
			if !bounds.Contains(p) {
				warnings = append(warnings, fmt.Sprintf("corner %d (%.1f,%.1f) is outside the %dx%d image", i, p.X, p.Y, b.Width, b.Height))
			}
		}
	}

	switch corners.Winding() {
	case perspective.WindingCounterClockwise:
		warnings = append(warnings, "corners run counter-clockwise, the result will be mirrored (use -order)")
	case perspective.WindingNotConvex:
		warnings = append(warnings, "corners do not form a convex quad, the result will be folded (use -order)")
	}
	return warnings
}
