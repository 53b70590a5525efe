// Command warpcompare corrects one image with both warp backends and prints
// how far apart their results are.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"perspectivefix/internal/app"
	"perspectivefix/internal/cvwarp"
	"perspectivefix/internal/image"
	"perspectivefix/internal/perspective"
)

func main() {
	in := flag.String("in", "", "Path to the source image")
	cornersArg := flag.String("corners", "", `Four corners "x,y x,y x,y x,y", clockwise from top-left`)
	interp := flag.String("interp", "bilinear", "Interpolation: bilinear or nearest")
	rotateArg := flag.String("rotate", "", "Rotations applied before the corners, e.g. cw or ccw,180")
	diffOut := flag.String("diff", "", "Optional path for an amplified difference image")
	flag.Parse()

	if *in == "" || *cornersArg == "" {
		fmt.Println("Usage: warpcompare -in <image> -corners \"x,y x,y x,y x,y\" [-rotate cw|ccw|180] [-interp nearest] [-diff out.png]")
		os.Exit(1)
	}

	corners, err := perspective.ParseCornerSet(*cornersArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad corners: %v\n", err)
		os.Exit(1)
	}
	turns, err := app.ParseTurns(*rotateArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	mode, err := perspective.ParseInterpolation(*interp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	opts := perspective.DefaultOptions()
	opts.Interpolation = mode

	state := app.NewState(perspective.NewCorrector(opts))
	if err := state.LoadImage(*in); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load: %v\n", err)
		os.Exit(1)
	}
	if err := state.Apply(turns...); err != nil {
		fmt.Fprintf(os.Stderr, "Rotate failed: %v\n", err)
		os.Exit(1)
	}
	if err := state.SetCorners(corners); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	src := state.Image()
	fmt.Printf("=== Source: %s (%dx%d after %d turns) ===\n", *in, src.Width, src.Height, len(turns))
	fmt.Printf("Corners: %s (%s)\n", corners, corners.Winding())

	plan, err := perspective.PlanFor(src, corners)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Plan failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Edges: %.2f x %.2f -> output %dx%d\n", plan.EdgeWidth, plan.EdgeHeight, plan.Width, plan.Height)

	fmt.Printf("\n=== Go backend ===\n")
	goOut, err := timedCorrect(state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Go backend failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n=== OpenCV backend ===\n")
	state.SetCorrector(cvwarp.NewCorrector(opts))
	cvOut, err := timedCorrect(state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenCV backend failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n=== Difference ===\n")
	d, err := compare(goOut, cvOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Mean abs: %.4f\n", d.Mean)
	fmt.Printf("Max abs:  %d\n", d.Max)
	fmt.Printf("Channels differing by more than 1: %d of %d (%.3f%%)\n",
		d.Over1, d.Count, 100*float64(d.Over1)/math.Max(1, float64(d.Count)))

	if *diffOut != "" {
		if err := image.Save(*diffOut, d.Image, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save diff: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *diffOut)
	}
}

func timedCorrect(state *app.State) (*image.Buffer, error) {
	start := time.Now()
	out, err := state.Correct()
	if err != nil {
		return nil, err
	}
	fmt.Printf("%dx%d in %v\n", out.Width, out.Height, time.Since(start))
	return out, nil
}

// diff summarises per-channel absolute differences between two buffers.
type diff struct {
	Mean  float64
	Max   int
	Over1 int
	Count int
	Image *image.Buffer // |a-b| scaled by 8
}

func compare(a, b *image.Buffer) (diff, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return diff{}, fmt.Errorf("size mismatch: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	d := diff{Count: len(a.Pix), Image: image.NewBuffer(a.Width, a.Height)}
	var sum int
	for i := range a.Pix {
		v := int(a.Pix[i]) - int(b.Pix[i])
		if v < 0 {
			v = -v
		}
		sum += v
		if v > d.Max {
			d.Max = v
		}
		if v > 1 {
			d.Over1++
		}
		d.Image.Pix[i] = uint8(min(255, v*8))
	}
	if d.Count > 0 {
		d.Mean = float64(sum) / float64(d.Count)
	}
	return d, nil
}
