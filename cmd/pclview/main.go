package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/compute"
	"github.com/san-kum/pclview/internal/config"
	"github.com/san-kum/pclview/internal/logging"
	"github.com/san-kum/pclview/internal/particles"
	"github.com/san-kum/pclview/internal/store"
	"github.com/san-kum/pclview/internal/tui"
	"github.com/san-kum/pclview/internal/viewer"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	numPoints   int
	seed        int64
	dt          float32
	gravity     float32
	smooth      float32
	backendName string
	workers     int
	maxSteps    int
	recordEvery int
	verbose     bool
	// bench
	benchSizes []int
	benchSteps int
	// replay
	replayFPS int
	// headless
	stepsPerTick int
	frameRate    int
)

// GLFW and GL calls must all come from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "pclview",
		Short:        "point cloud viewer with an n-body example",
		SilenceUsage: true,
		RunE:         runViewer,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".pclview", "data directory for recorded runs")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&numPoints, "points", config.DefaultPoints, "number of points")
	pf.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	pf.Float32Var(&dt, "dt", config.DefaultDt, "timestep")
	pf.Float32Var(&gravity, "gravity", config.DefaultGravity, "gravity constant")
	pf.Float32Var(&smooth, "smooth", config.DefaultSmooth, "force smoothing")
	pf.StringVar(&backendName, "backend", config.DefaultBackend, "force backend")
	pf.IntVar(&workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	pf.IntVar(&maxSteps, "steps", 0, "stop after this many steps (0 = run until closed)")
	pf.IntVar(&recordEvery, "record-every", 0, "record a frame every n steps (0 = off)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate and render in a window",
		RunE:  runViewer,
	}

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "simulate in the terminal without a window",
		RunE:  runHeadless,
	}
	headlessCmd.Flags().IntVar(&stepsPerTick, "steps-per-tick", 1, "simulation steps per refresh")
	headlessCmd.Flags().IntVar(&frameRate, "fps", 30, "refresh rate")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time simulation steps for each backend",
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&benchSizes, "sizes", []int{250, 500, 1000, 2000}, "point counts")
	benchCmd.Flags().IntVar(&benchSteps, "bench-steps", 5, "steps per measurement")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "play back a recorded run in a window",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().IntVar(&replayFPS, "fps", 30, "playback frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, headlessCmd, benchCmd, listCmd, replayCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers defaults, the preset, the config file and finally
// any flags set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("points") {
		cfg.Simulation.Points = numPoints
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if flags.Changed("gravity") {
		cfg.Simulation.Gravity = gravity
	}
	if flags.Changed("smooth") {
		cfg.Simulation.Smooth = smooth
	}
	if flags.Changed("backend") {
		cfg.Simulation.Backend = backendName
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers = workers
	}
	if flags.Changed("steps") {
		cfg.Simulation.Steps = maxSteps
	}
	if flags.Changed("record-every") {
		cfg.Record.Every = recordEvery
	}
	if flags.Changed("data") || cfg.Record.Dir == "" {
		cfg.Record.Dir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logHandler() slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.NewCallbackHandler(func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	}, level)
}

func newSystem(cfg *config.Config) (*particles.System, error) {
	backend, err := compute.Lookup(cfg.Simulation.Backend, cfg.Simulation.Workers)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	return particles.New(cfg.Simulation.Points, rng,
		particles.WithBackend(backend),
		particles.WithGravity(cfg.Simulation.Gravity),
		particles.WithSmooth(cfg.Simulation.Smooth),
		particles.WithValidation(true),
	), nil
}

// frameSink records every Every-th step. A nil sink records nothing.
type frameSink struct {
	rec   *store.Recorder
	every int
}

func openSink(cfg *config.Config, sys *particles.System, log *slog.Logger) (*frameSink, error) {
	if cfg.Record.Every == 0 {
		return nil, nil
	}
	st := store.New(cfg.Record.Dir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	rec, err := st.Create(store.RunMetadata{
		Preset:  preset,
		Points:  cfg.Simulation.Points,
		Seed:    cfg.Simulation.Seed,
		Dt:      cfg.Simulation.Dt,
		Gravity: cfg.Simulation.Gravity,
		Smooth:  cfg.Simulation.Smooth,
		Backend: sys.Backend().Name(),
		Every:   cfg.Record.Every,
	})
	if err != nil {
		return nil, err
	}
	log.Info("recording", "run", rec.ID(), "every", cfg.Record.Every)
	if err := rec.WriteFrame(sys.Steps(), sys.Vertices()); err != nil {
		rec.Close()
		return nil, err
	}
	return &frameSink{rec: rec, every: cfg.Record.Every}, nil
}

func (f *frameSink) record(step int, vs []cloud.Vertex) error {
	if f == nil || step%f.every != 0 {
		return nil
	}
	return f.rec.WriteFrame(step, vs)
}

func (f *frameSink) Close() error {
	if f == nil {
		return nil
	}
	return f.rec.Close()
}

func vec3(a [3]float32) mgl32.Vec3 { return mgl32.Vec3(a) }

func openViewer(cfg *config.Config, handler slog.Handler) (*viewer.Viewer, error) {
	w := cfg.Window
	v, err := viewer.New(w.Title,
		viewer.WithSize(w.Width, w.Height),
		viewer.WithSamples(w.Samples),
		viewer.WithMaximized(w.Maximized),
		viewer.WithVSync(w.VSync),
		viewer.WithPointSize(w.PointSize),
		viewer.WithBackground(w.Background[0], w.Background[1], w.Background[2], w.Background[3]),
		viewer.WithLogger(handler),
	)
	if err != nil {
		return nil, err
	}
	c := cfg.Camera
	v.SetCameraControlsEnabled(c.Controls)
	v.LookAt(vec3(c.Eye), vec3(c.Center), vec3(c.Up))
	return v, nil
}

func runViewer(cmd *cobra.Command, args []string) (err error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	handler := logHandler()
	log := slog.New(handler)

	sys, err := newSystem(cfg)
	if err != nil {
		return err
	}
	defer sys.Backend().Cleanup()

	if err := viewer.GlobalInit(); err != nil {
		return err
	}
	defer viewer.GlobalCleanup()

	v, err := openViewer(cfg, handler)
	if err != nil {
		return err
	}
	defer v.Destroy()

	sink, err := openSink(cfg, sys, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	log.Info("simulating", "points", sys.Len(), "backend", sys.Backend().Name())

	fovy := mgl32.DegToRad(cfg.Camera.FovyDeg)
	lastTitle := time.Now()
	frames := 0
	for !v.ShouldClose() {
		v.SetPerspective(fovy, cfg.Camera.Near, cfg.Camera.Far)
		if err := v.BeginFrame(); err != nil {
			return err
		}
		if err := v.RenderVertices(sys.Vertices()); err != nil {
			return err
		}
		v.EndFrame()
		v.PollInput()

		if err := sys.Step(cfg.Simulation.Dt); err != nil {
			return err
		}
		if err := sink.record(sys.Steps(), sys.Vertices()); err != nil {
			return err
		}
		if cfg.Simulation.Steps > 0 && sys.Steps() >= cfg.Simulation.Steps {
			v.RequestClose()
		}

		frames++
		if since := time.Since(lastTitle); since >= time.Second {
			fps := float64(frames) / since.Seconds()
			v.SetWindowTitle(fmt.Sprintf("%s | step %d | %.1f fps", cfg.Window.Title, sys.Steps(), fps))
			log.Debug("frame", "step", sys.Steps(), "fps", fps)
			frames = 0
			lastTitle = time.Now()
		}
	}

	st := sys.Stats()
	log.Info("finished", "steps", st.Step, "kinetic", st.KineticEnergy, "radius", st.RMSRadius)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) (err error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the monitor while it runs; buffer log lines
	// and print them afterwards.
	var logLines []string
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(logging.NewCallbackHandler(func(msg string) {
		logLines = append(logLines, msg)
	}, level))
	defer func() {
		for _, l := range logLines {
			fmt.Fprintln(os.Stderr, l)
		}
	}()

	sys, err := newSystem(cfg)
	if err != nil {
		return err
	}
	defer sys.Backend().Cleanup()

	sink, err := openSink(cfg, sys, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	c := cfg.Camera
	final, err := tui.Run(sys, tui.Config{
		Dt:           cfg.Simulation.Dt,
		StepsPerTick: stepsPerTick,
		MaxSteps:     cfg.Simulation.Steps,
		FPS:          frameRate,
		View:         mgl32.LookAtV(vec3(c.Eye), vec3(c.Center), vec3(c.Up)),
		FovyRad:      mgl32.DegToRad(c.FovyDeg),
		Hook:         sink.record,
	})
	if err != nil {
		var stepErr *particles.StepError
		if errors.As(err, &stepErr) {
			log.Error("simulation diverged", "step", stepErr.Step, "point", stepErr.Point)
		}
		return err
	}

	st := final.Stats()
	log.Info("finished", "steps", st.Step, "kinetic", st.KineticEnergy, "radius", st.RMSRadius)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d steps per size\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tPOINTS\tSTEPS\tTIME\tSTEPS/SEC")

	series := make(map[string][]float64)
	for _, name := range compute.Names() {
		for _, n := range benchSizes {
			backend, err := compute.Lookup(name, cfg.Simulation.Workers)
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
			sys := particles.New(n, rng,
				particles.WithBackend(backend),
				particles.WithGravity(cfg.Simulation.Gravity),
				particles.WithSmooth(cfg.Simulation.Smooth),
			)

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				if err := sys.Step(cfg.Simulation.Dt); err != nil {
					backend.Cleanup()
					return err
				}
			}
			elapsed := time.Since(start)
			backend.Cleanup()

			stepsPerSec := float64(benchSteps) / elapsed.Seconds()
			series[name] = append(series[name], elapsed.Seconds()*1000/float64(benchSteps))
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.1f\n", name, n, benchSteps, elapsed.Round(time.Microsecond), stepsPerSec)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	names := compute.Names()
	data := make([][]float64, 0, len(names))
	for _, name := range names {
		data = append(data, series[name])
	}
	if len(benchSizes) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
			asciigraph.Caption(fmt.Sprintf("ms per step over sizes %v (%s)", benchSizes, strings.Join(names, ", "))),
		))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPOINTS\tSTEPS\tFRAMES\tDT\tGRAVITY\tBACKEND")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%g\t%g\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Points,
			run.Steps,
			run.Frames,
			run.Dt,
			run.Gravity,
			run.Backend,
		)
	}
	return w.Flush()
}

func replayRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	handler := logHandler()
	log := slog.New(handler)

	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", meta.ID)
	}

	if err := viewer.GlobalInit(); err != nil {
		return err
	}
	defer viewer.GlobalCleanup()

	v, err := openViewer(cfg, handler)
	if err != nil {
		return err
	}
	defer v.Destroy()

	log.Info("replaying", "run", meta.ID, "frames", len(frames), "points", meta.Points)

	fovy := mgl32.DegToRad(cfg.Camera.FovyDeg)
	interval := time.Second / time.Duration(max(replayFPS, 1))
	next := time.Now()
	i := 0
	for !v.ShouldClose() {
		v.SetPerspective(fovy, cfg.Camera.Near, cfg.Camera.Far)
		if err := v.BeginFrame(); err != nil {
			return err
		}
		if err := v.RenderVertices(frames[i].Points); err != nil {
			return err
		}
		v.EndFrame()
		v.PollInput()

		if now := time.Now(); !now.Before(next) {
			v.SetWindowTitle(fmt.Sprintf("%s | step %d", meta.ID, frames[i].Step))
			i = (i + 1) % len(frames)
			next = now.Add(interval)
		}
	}
	return nil
}
