package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/export"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
)

func loadSeries(runID string) (*storage.RunMetadata, *storage.Series, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	series, err := st.LoadSeries(runID, body)
	if err != nil {
		return nil, nil, err
	}
	if series.Len() == 0 {
		return nil, nil, fmt.Errorf("no data for %s", body)
	}
	return meta, series, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %s\n", series.Body)
	fmt.Printf("samples: %d\n\n", series.Len())

	fmt.Println(viz.PlotSeries(series.R, "heliocentric distance (AU)", 80, 10))
	fmt.Println()

	p := analysis.PlaneXY
	if plane == "xz" {
		p = analysis.PlaneXZ
	}
	fmt.Println(analysis.OrbitToASCII(series.Position, p, 60, 24))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, series, err := loadSeries(args[0])
	if err != nil {
		return err
	}
	if series.Len() < 2 {
		return fmt.Errorf("need at least two samples, have %d", series.Len())
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body: %s, %d samples over %.2f days\n\n",
		series.Body, series.Len(), series.JD[series.Len()-1]-series.JD[0])

	dt := series.JD[1] - series.JD[0]
	period, err := analysis.EstimatePeriod(series.R, dt)
	switch {
	case errors.Is(err, analysis.ErrTooShort), errors.Is(err, analysis.ErrNoSignal):
		fmt.Printf("period: not resolved (%v)\n", err)
	case err != nil:
		return err
	default:
		fmt.Printf("period: %.2f days (%.3f years)\n", period, period/365.25)
	}

	apsides := analysis.FindApsides(series.JD, series.R)
	if len(apsides) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "APSIS\tJD\tR (AU)")
		for _, a := range apsides {
			fmt.Fprintf(w, "%s\t%.3f\t%.6f\n", a.Kind, a.JD, a.R)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	nodes := analysis.NodeCrossings(series.JD, series.Position)
	if len(nodes) > 0 {
		fmt.Printf("\nnode crossings: %d\n", len(nodes))
		for _, jd := range nodes {
			fmt.Printf("  JD %.3f\n", jd)
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportFile(args[0], outFile); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outFile)
		return nil
	}
	return st.Export(args[0], os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	all, err := st.LoadAllSeries(args[0])
	if err != nil {
		return err
	}
	tracks := make([]export.Track, 0, len(all))
	for id, ser := range all {
		tracks = append(tracks, export.Track{Name: id, Points: ser.Position})
	}
	export.SortTracks(tracks)

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.OrbitsToSVG(f, tracks, 800); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d tracks to %s\n", len(tracks), path)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.Build(cfg, sim.Deps{Logger: logger})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	checkpoints, runErr := automation.NewRunner(s, time.Now(), logger).Run(ctx, sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tDATE\tCLOCK\tDETAIL")
	for _, cp := range checkpoints {
		detail := ""
		switch {
		case cp.Mark != nil:
			detail = fmt.Sprintf("%s r=%.6f AU", cp.Mark.Body, cp.Mark.R)
		case cp.Frame != nil:
			detail = fmt.Sprintf("frame %d, %d bodies", cp.Frame.Index, len(cp.Frame.Positions))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			cp.Step, cp.Action, cp.Clock.Date.Format("2006-01-02 15:04:05"), cp.Clock, detail)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

// bench gives every member its own registry so collectors never collide,
// then sums the counters.
func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if members < 1 {
		return fmt.Errorf("members must be positive, got %d", members)
	}

	regs := make([]*prometheus.Registry, members)
	ens := sim.NewEnsemble(func(i int) (*sim.Simulator, error) {
		c := cfg.Clone()
		c.Belt.Seed += int64(i)
		reg := prometheus.NewRegistry()
		regs[i] = reg
		return sim.Build(c, sim.Deps{Registerer: reg, Logger: logger})
	}, members)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("benchmarking %d simulators x %d frames (belt %d)\n\n", members, cfg.Run.Frames, cfg.Belt.Count)
	start := time.Now()
	results, err := ens.Run(ctx, sim.RunConfig{Frames: cfg.Run.Frames, FPS: cfg.Run.FPS, Synthetic: true})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEMBER\tFRAMES\tSIMULATED\tERRORS")
	for i, r := range results {
		total += r.FramesRun
		fmt.Fprintf(w, "%d\t%d\t%v\t%d\n", i, r.FramesRun, r.End.Sub(r.Start), len(r.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d frames in %v (%.0f frames/sec)\n\n", total, elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds())

	counters := map[string]float64{}
	for _, reg := range regs {
		if reg == nil {
			continue
		}
		families, err := reg.Gather()
		if err != nil {
			level.Warn(logger).Log("msg", "gather failed", "err", err)
			continue
		}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				switch {
				case m.GetCounter() != nil:
					counters[mf.GetName()] += m.GetCounter().GetValue()
				case m.GetHistogram() != nil:
					counters[mf.GetName()+"_count"] += float64(m.GetHistogram().GetSampleCount())
					counters[mf.GetName()+"_sum"] += m.GetHistogram().GetSampleSum()
				}
			}
		}
	}
	names := make([]string, 0, len(counters))
	for name := range counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, counters[name])
	}
	return nil
}
