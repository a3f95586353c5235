// Command GazeCal-go runs the simulated 9-point gaze calibration, prints the
// fitted mapping and probes it with a moved head.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
	"github.com/CK6170/GazeCal-go/modern"
	"github.com/CK6170/GazeCal-go/ui"
)

var featureNames = [models.FeatureCount]string{"dx", "dy", "headX", "headY", "headZ", "bias"}

func main() {
	configPath := flag.String("config", "", "path to parameters JSON (optional)")
	seed := flag.Int64("seed", -1, "simulator seed (overrides SEED)")
	ridge := flag.Float64("ridge", -1, "diagonal regularization (overrides RIDGE)")
	initPath := flag.String("init", "", "write default parameters JSON to this path and exit")
	interactive := flag.Bool("interactive", false, "keep running: p=probe r=recalibrate q/Esc=quit")
	flag.Parse()

	if *initPath != "" {
		if err := modern.PersistParameters(*initPath, models.DefaultParameters()); err != nil {
			fmt.Fprintf(os.Stderr, "error writing parameters: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *initPath)
		return
	}

	p := models.DefaultParameters()
	if *configPath != "" {
		loaded, err := modern.LoadParameters(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		p = loaded
	}
	if *seed >= 0 {
		p.SEED = *seed
	}
	if *ridge >= 0 {
		p.RIDGE = *ridge
	}
	ui.Debugf(p.DEBUG, "Parameters: grid=%d jitter=%g seed=%d ridge=%g\n", p.GRID, p.JITTER, p.SEED, p.RIDGE)

	sess, err := modern.Connect(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	calibrate(sess)
	probe(sess, modern.DefaultProbeHead)

	if !*interactive {
		if !sess.Model.IsCalibrated() {
			os.Exit(1)
		}
		return
	}
	runInteractive(sess)
}

func calibrate(sess *modern.Session) {
	fmt.Printf("Collecting %d calibration points with simulated head movement...\n", len(sess.Plan))
	err := sess.Recalibrate()
	switch {
	case err == nil:
		ui.Greenf("Calibration succeeded over %d samples.\n", sess.Model.Len())
		printWeights(sess.Model)
	case errors.Is(err, gaze.ErrInsufficientSamples):
		ui.Warnf("Calibration failed: %v. Add more samples.\n", err)
	case errors.Is(err, gaze.ErrSingular):
		ui.Warnf("Calibration failed: %v. Vary gaze and head position.\n", err)
	default:
		ui.Warnf("Calibration failed: %v\n", err)
	}
}

func printWeights(m *gaze.Model) {
	wx, wy, ok := m.Weights()
	if !ok {
		return
	}
	fmt.Println("Mapping coefficients:")
	for i, name := range featureNames {
		fmt.Printf("  %-6s x=% .10g  y=% .10g\n", name, wx[i], wy[i])
	}
	if rep, ok := m.Report(); ok {
		fmt.Printf("Fit: rmse=%.3g max=%.3g cond(A)=%.3g det(A)=%.3g\n", rep.RMSE, rep.MaxErr, rep.CondA, rep.DetA)
	}
}

func probe(sess *modern.Session, head r3.Vector) {
	if !sess.Model.IsCalibrated() {
		ui.Warnf("Calibrate first.\n")
		return
	}
	snap := modern.Probe(sess.Model, modern.ProbeSample(sess.Params, head))
	fmt.Printf("Head position: (%.3f, %.3f, %.3f)\n", head.X, head.Y, head.Z)
	fmt.Printf("Predicted screen point: (%.3f, %.3f)  error from center %.3f\n", snap.Predicted.X, snap.Predicted.Y, snap.Error)
}

func runInteractive(sess *modern.Session) {
	if !ui.KeysAvailable() {
		ui.Warnf("Keyboard not available; interactive mode disabled.\n")
		return
	}
	ui.DrainKeys()
	rng := rand.New(rand.NewSource(sess.Params.SEED + 1))
	fmt.Println("p=probe  r=recalibrate  q/Esc=quit")
	for k := range ui.StartKeyEvents() {
		switch k {
		case 'p':
			j := sess.Params.JITTER
			head := modern.DefaultProbeHead.Add(r3.Vector{
				X: j*0.5 - j*rng.Float64(),
				Y: j*0.5 - j*rng.Float64(),
			})
			probe(sess, head)
		case 'r':
			seed := rng.Int63()
			sess.Source = &modern.Simulator{Params: sess.Params, Rand: rand.New(rand.NewSource(seed))}
			ui.ClearScreen(fmt.Sprintf("Recalibrating (seed %d)  p=probe  r=recalibrate  q/Esc=quit", seed))
			calibrate(sess)
		case 'q', ui.KeyEsc:
			return
		}
	}
}
