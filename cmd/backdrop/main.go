package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/backdrop/internal/automation"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/dynamo"
	"github.com/san-kum/backdrop/internal/export"
	"github.com/san-kum/backdrop/internal/gui"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/scene"
	"github.com/san-kum/backdrop/internal/storage"
	"github.com/san-kum/backdrop/internal/tier"
	"github.com/san-kum/backdrop/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	tierFlag   string
	seed       int64
	// snapshot and bench
	snapshotFrames int
	benchFrames    int
	scenarioFile   string
	format         string
	output         string
	// plot
	svgOut string
	// sweep
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepFrames int
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8ab4f8")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "interactive ambient background and skill bubbles",
		RunE:  runGUI,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".backdrop", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&tierFlag, "tier", "", "tier override (auto, standard, reduced)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 keeps the configured seed)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, t, err := setup()
			if err != nil {
				return err
			}
			return viz.Run(cfg, t, rand.New(rand.NewSource(cfg.Seed)))
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render headlessly to png, gif or svg",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapshotFrames, "frames", 120, "display refreshes to simulate")
	snapshotCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario (yaml)")
	snapshotCmd.Flags().StringVar(&format, "format", "", "png, gif or svg (default from output extension)")
	snapshotCmd.Flags().StringVarP(&output, "output", "o", "backdrop.png", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the simulation headlessly and save the run",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "display refreshes to simulate")
	benchCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list bench runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot step time of a bench run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the series as svg")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a bench run as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a bubble parameter and report metrics",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "max_speed", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 300, "frames per value")

	tierCmd := &cobra.Command{
		Use:   "tier",
		Short: "print host signals and the resolved tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := tier.Probe()
			t, err := cfg.ResolveTier(s)
			if err != nil {
				return err
			}
			fmt.Printf("signals:  %s\n", s)
			fmt.Printf("override: %s\n", cfg.Tier)
			fmt.Printf("tier:     %s\n", t)
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "backdrop.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, tuiCmd, snapshotCmd, benchCmd, listCmd, plotCmd, exportCmd, sweepCmd, tierCmd, presetsCmd, configCmd)
	return rootCmd
}

// loadConfig resolves preset, file and flag overrides, in that order.
func loadConfig() (*config.Config, error) {
	if preset != "" && configFile != "" {
		return nil, fmt.Errorf("--preset and --config are mutually exclusive")
	}

	var (
		cfg *config.Config
		err error
	)
	switch {
	case preset != "":
		cfg, err = config.GetPreset(preset)
	case configFile != "":
		cfg, err = config.Load(configFile)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	if tierFlag != "" {
		cfg.Tier = tierFlag
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func setup() (*config.Config, tier.Tier, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, tier.Standard, err
	}
	t, err := cfg.ResolveTier(tier.Probe())
	if err != nil {
		return nil, tier.Standard, err
	}
	return cfg, t, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, t, err := setup()
	if err != nil {
		return err
	}
	return gui.Run(cfg, t, rand.New(rand.NewSource(cfg.Seed)))
}

func loadScenario() (*automation.Scenario, error) {
	if scenarioFile == "" {
		return nil, nil
	}
	return automation.LoadScenario(scenarioFile)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, t, err := setup()
	if err != nil {
		return err
	}
	sc, err := loadScenario()
	if err != nil {
		return err
	}

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
	}
	w, h := cfg.Window.Width, cfg.Window.Height

	switch format {
	case "svg":
		field, bubbles := export.NewSVG(w, h, "field"), export.NewSVG(w, h, "bubbles")
		hl, err := newHeadless(cfg, t, scene.Layers{Field: field, Bubbles: bubbles}, sc)
		if err != nil {
			return err
		}
		defer hl.close()
		if err := hl.run(snapshotFrames); err != nil {
			return err
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteDocument(f, w, h, field, bubbles); err != nil {
			return err
		}

	case "png", "gif":
		field, bubbles := raster.NewCanvas(w, h), raster.NewCanvas(w, h)
		hl, err := newHeadless(cfg, t, scene.Layers{Field: field, Bubbles: bubbles}, sc)
		if err != nil {
			return err
		}
		defer hl.close()

		var rec *export.GIFRecorder
		if format == "gif" {
			rec = export.NewGIFRecorder(1 / cfg.FrameInterval(t).Seconds())
			hl.scene.Observe = func(f scene.Frame) {
				if f.Layer == scene.LayerBubbles {
					rec.Add(raster.Flatten(field, bubbles))
				}
			}
		}
		if err := hl.run(snapshotFrames); err != nil {
			return err
		}
		if rec != nil {
			if err := rec.Save(output); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d frames)\n", output, rec.Len())
			return nil
		}
		if err := export.SavePNG(output, raster.Flatten(field, bubbles)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown format %q (png, gif, svg)", format)
	}

	fmt.Printf("wrote %s\n", output)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, t, err := setup()
	if err != nil {
		return err
	}
	sc, err := loadScenario()
	if err != nil {
		return err
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	layers := scene.Layers{Field: export.NewDisplayList(w, h), Bubbles: export.NewDisplayList(w, h)}
	hl, err := newHeadless(cfg, t, layers, sc)
	if err != nil {
		return err
	}
	defer hl.close()

	ms := metrics.Standard(cfg.Bubbles.MaxSpeed)
	var samples []storage.Sample
	start := hl.clock.Now()
	hl.scene.Observe = func(f scene.Frame) {
		if f.Layer != scene.LayerBubbles {
			return
		}
		st := hl.scene.Stats()
		sim := hl.scene.Simulator()
		for _, m := range ms {
			m.Observe(sim.Particles(), sim.Elapsed())
		}
		samples = append(samples, storage.Sample{
			Frame:  len(samples),
			Time:   f.Now.Sub(start),
			Step:   st.LastBubbleStep,
			Pulses: st.ActivePulses,
		})
	}

	fmt.Printf("benchmarking %d refreshes, tier %s, %d bubbles\n\n", benchFrames, t, cfg.Bubbles.Count)
	began := time.Now()
	if err := hl.run(benchFrames); err != nil {
		return err
	}
	elapsed := time.Since(began)

	st := hl.scene.Stats()
	name := preset
	if name == "" {
		name = "custom"
	}
	store := storage.New(dataDir)
	id, err := store.Save(&storage.Run{
		Meta: storage.RunMetadata{
			Preset:    name,
			Tier:      t.String(),
			Seed:      cfg.Seed,
			Width:     w,
			Height:    h,
			Particles: st.Particles,
			Refreshes: benchFrames,
			Frames:    st.BubbleFrames,
			Skipped:   st.BubbleSkipped,
			Metrics:   metrics.Values(ms),
		},
		Samples: samples,
	})
	if err != nil {
		return err
	}

	var total time.Duration
	for _, s := range samples {
		total += s.Step
	}
	mean := time.Duration(0)
	if len(samples) > 0 {
		mean = total / time.Duration(len(samples))
	}

	rows := [][]string{
		{"refreshes", fmt.Sprintf("%d", benchFrames)},
		{"frames", fmt.Sprintf("%d processed, %d skipped", st.BubbleFrames, st.BubbleSkipped)},
		{"wall time", elapsed.Round(time.Microsecond).String()},
		{"mean step", mean.String()},
	}
	for _, m := range ms {
		rows = append(rows, []string{m.Name(), fmt.Sprintf("%.4g", m.Value())})
	}
	fmt.Println(renderTable([]string{"METRIC", "VALUE"}, rows))
	fmt.Printf("\nsaved run %s\n", id)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Preset,
			r.Tier,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", r.Particles),
			fmt.Sprintf("%d/%d", r.Frames, r.Refreshes),
		})
	}
	fmt.Println(renderTable([]string{"ID", "PRESET", "TIER", "TIME", "BUBBLES", "FRAMES"}, rows))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("run %s", meta.ID)))
	fmt.Printf("preset: %s  tier: %s  samples: %d\n\n", meta.Preset, meta.Tier, len(samples))

	steps := make([]float64, len(samples))
	pulses := make([]float64, len(samples))
	points := make([]dynamo.Vec2, len(samples))
	for i, s := range samples {
		us := float64(s.Step) / float64(time.Microsecond)
		steps[i] = us
		pulses[i] = float64(s.Pulses)
		points[i] = dynamo.Vec2{X: float64(s.Frame), Y: us}
	}

	fmt.Println(asciigraph.Plot(steps,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("step time (us)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(pulses,
		asciigraph.Height(5),
		asciigraph.Width(80),
		asciigraph.Caption("active pulses"),
	))

	if svgOut != "" {
		doc := export.SeriesToSVG(points, 800, 300, "#1565c0")
		if err := os.WriteFile(svgOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(context.Background(), cfg, automation.ParameterSweep{
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: sweepFrames,
	})
	if err != nil {
		return err
	}

	names := []string{"max_speed", "mean_speed", "radius_spread", "violations"}
	rows := make([][]string, 0, len(results))
	series := make([]float64, 0, len(results))
	for _, r := range results {
		row := []string{fmt.Sprintf("%.4g", r.Value)}
		for _, n := range names {
			row = append(row, fmt.Sprintf("%.4g", r.Metrics[n]))
		}
		rows = append(rows, row)
		series = append(series, r.Metrics["mean_speed"])
	}
	fmt.Println(renderTable(append([]string{strings.ToUpper(sweepParam)}, names...), rows))

	if len(series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(8),
			asciigraph.Caption(fmt.Sprintf("mean_speed vs %s", sweepParam)),
		))
	}
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}
