package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/orrery/internal/clock"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/ephem"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	dataDir     string
	configFile  string
	preset      string
	logLevel    string
	startDate   string
	scale       float64
	clockPreset string
	frames      int
	fps         float64
	synthetic   bool
	follow      string
	body        string
	outFile     string
	theme       string
	members     int
	plane       string
)

var logger log.Logger = log.NewNopLogger()

func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "solar system ephemeris and simulation clock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".orrery", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "named configuration preset")
	pf.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	pf.StringVar(&startDate, "start", "", "start date (RFC 3339, YYYY-MM-DD, J2000 or \"JD n\")")
	pf.Float64Var(&scale, "scale", 1, "simulated seconds per wall second; negative rewinds")
	pf.StringVar(&clockPreset, "speed", "", "named time scale (realtime, minute, hour, day, week, month, year); keeps the --scale direction")

	positionsCmd := &cobra.Command{
		Use:   "positions [date]",
		Short: "print every body's position at a date",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printPositions,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the frame loop and report metrics",
		RunE:  runFrames,
	}
	addRunFlags(runCmd)

	recordCmd := &cobra.Command{
		Use:   "record [label]",
		Short: "run a reproducible session and save its trajectories",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordRun,
	}
	addRunFlags(recordCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's distance and orbit track",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&body, "body", "earth", "body to plot")
	plotCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane for the track (xy or xz)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate period, apsides and node crossings",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&body, "body", "earth", "body to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw every recorded orbit track to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live terminal orrery",
		RunE:  watch,
	}
	watchCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a YAML clock scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets and time scales",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("configuration presets:")
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-12s scale %g, belt %d\n", p, cfg.Clock.Scale, cfg.Belt.Count)
			}
			fmt.Println("\ntime scales:")
			for i, p := range clock.ListPresets() {
				fmt.Printf("  %d %-10s x%g\n", i+1, p.Name, p.Scale)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run independent simulators in parallel and report throughput",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&members, "members", 4, "number of simulators")
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per simulator")

	rootCmd.AddCommand(positionsCmd, runCmd, recordCmd, listCmd, plotCmd, analyzeCmd,
		exportJSONCmd, exportSVGCmd, watchCmd, scriptCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&frames, "frames", 600, "frames to run")
	cmd.Flags().Float64Var(&fps, "fps", 60, "frame rate; 0 runs unpaced")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "advance a synthetic wall clock instead of pacing")
	cmd.Flags().StringVar(&follow, "follow", "earth", "body the belt scheduler treats as the observer")
}

func newLogger(lvl string) (log.Logger, error) {
	var opt level.Option
	switch strings.ToLower(lvl) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn", "":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("unknown log level %q", lvl)
	}
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(l, opt), nil
}

// loadConfig layers defaults, preset, config file and changed flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.Clock.Start = startDate
	}
	if flags.Changed("scale") {
		cfg.Clock.Scale = scale
	}
	if clockPreset != "" {
		if err := cfg.SetSpeed(clockPreset); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.Run.FPS = fps
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printPositions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := sim.Build(cfg, sim.Deps{Logger: logger})
	if err != nil {
		return err
	}
	at := s.Clock().Now()
	if len(args) == 1 {
		if at, err = clock.ParseDate(args[0]); err != nil {
			return err
		}
	}

	prop := s.Propagator()
	positions, err := prop.PositionsFor(at)
	if err != nil {
		level.Warn(logger).Log("msg", "some bodies skipped", "err", err)
	}

	fmt.Printf("%s  JD %.5f\n\n", at.Format(time.RFC3339), ephem.JulianDate(at))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPARENT\tX (AU)\tY (AU)\tZ (AU)\tR (AU)\tANOMALY\tITER")
	for _, id := range prop.Registry().IDs() {
		st, ok := positions[id]
		if !ok {
			fmt.Fprintf(w, "%s\t\t-\t-\t-\t-\t-\t-\n", id)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.2f°\t%d\n",
			id, st.Parent, st.Position.X, st.Position.Y, st.Position.Z,
			st.R, st.TrueAnomaly*180/math.Pi, st.Iterations)
	}
	return w.Flush()
}

func buildRun(cmd *cobra.Command, keep bool) (*config.Config, *sim.Simulator, sim.RunConfig, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, sim.RunConfig{}, err
	}
	s, err := sim.Build(cfg, sim.Deps{Logger: logger, Follow: follow})
	if err != nil {
		return nil, nil, sim.RunConfig{}, err
	}
	s.AddMetric(metrics.NewDistance(follow, metrics.Min))
	s.AddMetric(metrics.NewDistance(follow, metrics.Max))
	if follow != "earth" {
		s.AddMetric(metrics.NewSeparation("earth", follow))
	}
	s.AddMetric(metrics.NewStaleness())
	s.AddMetric(metrics.NewSkipped())

	rc := sim.RunConfig{
		Frames:     cfg.Run.Frames,
		FPS:        cfg.Run.FPS,
		Synthetic:  synthetic || keep,
		KeepFrames: keep,
	}
	return cfg, s, rc, nil
}

func printResult(r *sim.Result, elapsed time.Duration) {
	fmt.Printf("completed %d frames in %v\n", r.FramesRun, elapsed.Round(time.Millisecond))
	fmt.Printf("simulated %s -> %s\n", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
	if len(r.Errors) > 0 {
		fmt.Printf("frames with errors: %d\n", len(r.Errors))
	}

	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, r.Metrics[name])
	}
}

func runFrames(cmd *cobra.Command, args []string) error {
	_, s, rc, err := buildRun(cmd, false)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d frames at %s\n", rc.Frames, s.Clock().Snapshot())
	start := time.Now()
	result, err := s.Run(ctx, rc)
	if err != nil {
		return err
	}
	printResult(result, time.Since(start))
	return nil
}

func recordRun(cmd *cobra.Command, args []string) error {
	label := "run"
	if len(args) == 1 {
		label = args[0]
	}
	cfg, s, rc, err := buildRun(cmd, true)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	result, err := s.Run(context.Background(), rc)
	if err != nil {
		return err
	}
	runID, err := st.Save(label, cfg, result)
	if err != nil {
		return err
	}
	printResult(result, time.Since(start))
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECORDED\tFROM\tTO\tFRAMES\tBODIES\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.SimStart.Format("2006-01-02 15:04"),
			run.SimEnd.Format("2006-01-02 15:04"),
			run.Frames,
			len(run.Bodies),
			run.Errors,
		)
	}
	return w.Flush()
}

func watch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Logging to stderr would tear the alternate screen.
	s, err := sim.Build(cfg, sim.Deps{CopyBelt: true})
	if err != nil {
		return err
	}
	model := viz.NewModel(s).WithTheme(theme)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
