package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/drmarkreuter/physiCCs/internal/api"
	"github.com/drmarkreuter/physiCCs/internal/config"
	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
	"github.com/drmarkreuter/physiCCs/internal/midiout"
	"github.com/drmarkreuter/physiCCs/internal/sims"
	"github.com/drmarkreuter/physiCCs/internal/tui"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	debug      bool
	portName   string
	channel    int
	apiPort    int
	// gravity parameters
	ccList   []int
	strength float64
	// particle parameters
	redX        int
	redY        int
	greenX      int
	greenY      int
	temperature float64
	seed        int64
	// pendulum parameters
	ccNum   int
	mode    string
	length  float64
	gravity float64
	// headless run
	duration  float64
	meterView bool
	frameRate int
	// offline plot
	plotSeconds float64
	// connectivity sweep
	cycles int
)

// main is the entry point for the physiccs CLI; it registers commands and
// flags, launches the interactive TUI when no subcommand is given, and
// executes the root command. It exits the process with status 1 if command
// execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "physiccs",
		Short: "physics simulations that play your synth",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogger(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := baseConfig(cmd, "")
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	gravityCmd := &cobra.Command{
		Use:   "gravity",
		Short: "spring-return sliders",
		RunE:  launchSim,
	}
	gravityCmd.Flags().IntSliceVar(&ccList, "ccs", []int{74, 75, 76}, "cc numbers for the three sliders")
	gravityCmd.Flags().Float64Var(&strength, "strength", config.DefaultStrength, "gravity strength (0-1)")
	gravityCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	gravityCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")
	gravityCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	particleCmd := &cobra.Command{
		Use:   "particle",
		Short: "two-body collision arena",
		RunE:  launchSim,
	}
	particleCmd.Flags().IntVar(&redX, "red-x", 74, "red body x cc")
	particleCmd.Flags().IntVar(&redY, "red-y", 75, "red body y cc")
	particleCmd.Flags().IntVar(&greenX, "green-x", 76, "green body x cc")
	particleCmd.Flags().IntVar(&greenY, "green-y", 77, "green body y cc")
	particleCmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "speed multiplier control (0-1)")
	particleCmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed (0 = random)")
	particleCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	particleCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")
	particleCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	pendulumCmd := &cobra.Command{
		Use:   "pendulum",
		Short: "damped pendulum swing",
		RunE:  launchSim,
	}
	pendulumCmd.Flags().IntVar(&ccNum, "cc", config.DefaultCC, "cc number")
	pendulumCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "output mode (cc or bend)")
	pendulumCmd.Flags().Float64Var(&length, "length", config.DefaultArmLength, "arm length")
	pendulumCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "swing gravity")
	pendulumCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	pendulumCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")
	pendulumCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run [module]",
		Short: "stream a simulation without the TUI",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 0, "time limit in seconds (0 = forever)")
	runCmd.Flags().BoolVar(&meterView, "meter", false, "show live output meters")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "meter frame rate")
	runCmd.Flags().IntSliceVar(&ccList, "ccs", []int{74, 75, 76}, "cc numbers for the three sliders")
	runCmd.Flags().Float64Var(&strength, "strength", config.DefaultStrength, "gravity strength (0-1)")
	runCmd.Flags().IntVar(&redX, "red-x", 74, "red body x cc")
	runCmd.Flags().IntVar(&redY, "red-y", 75, "red body y cc")
	runCmd.Flags().IntVar(&greenX, "green-x", 76, "green body x cc")
	runCmd.Flags().IntVar(&greenY, "green-y", 77, "green body y cc")
	runCmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "speed multiplier control (0-1)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed (0 = random)")
	runCmd.Flags().IntVar(&ccNum, "cc", config.DefaultCC, "pendulum cc number")
	runCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "pendulum output mode (cc or bend)")
	runCmd.Flags().Float64Var(&length, "length", config.DefaultArmLength, "pendulum arm length")
	runCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "pendulum swing gravity")
	runCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	runCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	plotCmd := &cobra.Command{
		Use:   "plot [module]",
		Short: "simulate offline and plot the emitted values",
		Args:  cobra.ExactArgs(1),
		RunE:  plotModule,
	}
	plotCmd.Flags().Float64Var(&plotSeconds, "time", 5, "seconds of simulation to plot")
	plotCmd.Flags().IntSliceVar(&ccList, "ccs", []int{74, 75, 76}, "cc numbers for the three sliders")
	plotCmd.Flags().Float64Var(&strength, "strength", config.DefaultStrength, "gravity strength (0-1)")
	plotCmd.Flags().IntVar(&redX, "red-x", 74, "red body x cc")
	plotCmd.Flags().IntVar(&redY, "red-y", 75, "red body y cc")
	plotCmd.Flags().IntVar(&greenX, "green-x", 76, "green body x cc")
	plotCmd.Flags().IntVar(&greenY, "green-y", 77, "green body y cc")
	plotCmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "speed multiplier control (0-1)")
	plotCmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed (0 = random)")
	plotCmd.Flags().IntVar(&ccNum, "cc", config.DefaultCC, "pendulum cc number")
	plotCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "pendulum output mode (cc or bend)")
	plotCmd.Flags().Float64Var(&length, "length", config.DefaultArmLength, "pendulum arm length")
	plotCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "pendulum swing gravity")
	plotCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "list MIDI output ports",
		RunE:  listPorts,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [module]",
		Short: "list available presets for a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for module: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve [module]",
		Short: "stream headless with a REST monitor",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&apiPort, "api-port", config.DefaultAPIPort, "monitor listen port")
	serveCmd.Flags().IntSliceVar(&ccList, "ccs", []int{74, 75, 76}, "cc numbers for the three sliders")
	serveCmd.Flags().Float64Var(&strength, "strength", config.DefaultStrength, "gravity strength (0-1)")
	serveCmd.Flags().IntVar(&redX, "red-x", 74, "red body x cc")
	serveCmd.Flags().IntVar(&redY, "red-y", 75, "red body y cc")
	serveCmd.Flags().IntVar(&greenX, "green-x", 76, "green body x cc")
	serveCmd.Flags().IntVar(&greenY, "green-y", 77, "green body y cc")
	serveCmd.Flags().Float64Var(&temperature, "temperature", config.DefaultTemperature, "speed multiplier control (0-1)")
	serveCmd.Flags().Int64Var(&seed, "seed", 0, "spawn seed (0 = random)")
	serveCmd.Flags().IntVar(&ccNum, "cc", config.DefaultCC, "pendulum cc number")
	serveCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "pendulum output mode (cc or bend)")
	serveCmd.Flags().Float64Var(&length, "length", config.DefaultArmLength, "pendulum arm length")
	serveCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "pendulum swing gravity")
	serveCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	serveCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")
	serveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "sweep a cc to verify the MIDI connection",
		RunE:  sweepPort,
	}
	testCmd.Flags().IntVar(&ccNum, "cc", config.DefaultCC, "cc number to sweep")
	testCmd.Flags().IntVar(&cycles, "cycles", 1, "number of 0-127-0 sweeps")
	testCmd.Flags().StringVar(&portName, "port", "", "MIDI output port")
	testCmd.Flags().IntVar(&channel, "channel", config.DefaultChannel, "MIDI channel (1-16)")

	rootCmd.AddCommand(gravityCmd, particleCmd, pendulumCmd, runCmd, plotCmd, portsCmd, presetsCmd, serveCmd, testCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func launchSim(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig(cmd, cmd.Name())
	if err != nil {
		return err
	}
	return tui.RunModule(cfg, cmd.Name())
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := sims.NewRegistry()
	sim, err := registry.Get(cfg.Module, cfg)
	if err != nil {
		return err
	}

	out, err := midiout.Open(cfg.Port, cfg.Channel)
	if err != nil {
		return err
	}
	defer out.Close()

	loop, err := engine.NewLoop(sim, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(duration*float64(time.Second)))
		defer cancel()
	}

	if meterView {
		return runWithMeter(ctx, loop)
	}

	slog.Info("streaming", "module", cfg.Module, "port", out.Name(), "channel", out.Channel())
	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func runWithMeter(ctx context.Context, loop *engine.Loop) error {
	meter := tui.NewMeter(frameRate)
	meter.Start()
	defer meter.Stop()

	ticker := time.NewTicker(engine.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			loop.Tick(1.0)
			meter.OnTick(loop.Snapshot())
		}
	}
}

// plotModule runs a module offline at the fixed tick rate and draws each
// output's trace as an ascii graph. No MIDI port is involved.
func plotModule(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := sims.NewRegistry()
	sim, err := registry.Get(cfg.Module, cfg)
	if err != nil {
		return err
	}

	loop, err := engine.NewLoop(sim, nil)
	if err != nil {
		return err
	}

	ticks := int(plotSeconds * engine.TickRate)
	if ticks < 1 {
		return fmt.Errorf("nothing to plot in %.2fs", plotSeconds)
	}

	series := make([][]float64, len(sim.Outputs()))
	for i := range series {
		series[i] = make([]float64, 0, ticks)
	}
	for t := 0; t < ticks; t++ {
		loop.Tick(1.0)
		for i, out := range sim.Outputs() {
			series[i] = append(series[i], float64(out.Value))
		}
	}

	fmt.Printf("module: %s\n", cfg.Module)
	fmt.Printf("samples: %d\n\n", ticks)

	for i, out := range sim.Outputs() {
		caption := fmt.Sprintf("cc %d", out.Controller)
		if out.Kind == engine.OutputBend {
			caption = "pitch bend"
		}
		graph := asciigraph.Plot(series[i],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func listPorts(cmd *cobra.Command, args []string) error {
	names, err := midiout.Ports()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("no MIDI output ports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tNAME")
	for i, name := range names {
		fmt.Fprintf(w, "%d\t%s\n", i, name)
	}
	return w.Flush()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := baseConfig(cmd, args[0])
	if err != nil {
		return err
	}

	registry := sims.NewRegistry()
	sim, err := registry.Get(cfg.Module, cfg)
	if err != nil {
		return err
	}

	// The monitor is useful without a synth attached, so a failed open
	// degrades to record-only instead of aborting.
	var sink engine.Sink
	port, err := midiout.Open(cfg.Port, cfg.Channel)
	if err != nil {
		slog.Warn("running without MIDI output", "error", err)
	} else {
		defer port.Close()
		sink = port
	}

	rec := midiout.NewRecorder(256, sink)
	loop, err := engine.NewLoop(sim, rec)
	if err != nil {
		return err
	}

	store := api.NewStateStore()
	go func() {
		if err := api.StartServer(store, rec, cfg.APIPort); err != nil {
			slog.Error("monitor server stopped", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("serving", "module", cfg.Module, "api_port", cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(engine.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			loop.Tick(1.0)
			store.Publish(loop.Snapshot())
		}
	}
}

func sweepPort(cmd *cobra.Command, args []string) error {
	if ccNum < 0 || ccNum > midimap.ControlMax {
		return fmt.Errorf("cc %d out of range (0-127)", ccNum)
	}

	out, err := midiout.Open(portName, channel)
	if err != nil {
		return err
	}
	defer out.Close()

	fmt.Printf("sweeping cc %d on %q channel %d\n", ccNum, out.Name(), out.Channel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(engine.TickInterval)
	defer ticker.Stop()

	value := 0.0
	step := 0.5
	done := 0
	for done < cycles {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := out.SendControlChange(uint8(ccNum), uint8(value)); err != nil {
				return err
			}
			value += step
			if value >= midimap.ControlMax {
				value = midimap.ControlMax
				step = -step
			} else if value <= 0 && step < 0 {
				value = 0
				step = -step
				done++
				fmt.Printf("cycle %d/%d\n", done, cycles)
			}
		}
	}
	return nil
}

// baseConfig resolves the effective configuration: defaults, then preset,
// then config file, then explicitly set flags. An empty module keeps the
// config file's module choice.
func baseConfig(cmd *cobra.Command, module string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(module, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(module))
		}
		cfg = p
	}

	// Config file overrides preset, flags override both.
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if module != "" {
		cfg.Module = module
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = portName
	}
	if flags.Changed("channel") {
		cfg.Channel = channel
	}
	if flags.Changed("api-port") {
		cfg.APIPort = apiPort
	}
	if flags.Changed("ccs") {
		cfg.Gravity.Controllers = ccList
	}
	if flags.Changed("strength") {
		cfg.Gravity.Strength = strength
	}
	if flags.Changed("red-x") {
		cfg.Particle.Red.X = redX
	}
	if flags.Changed("red-y") {
		cfg.Particle.Red.Y = redY
	}
	if flags.Changed("green-x") {
		cfg.Particle.Green.X = greenX
	}
	if flags.Changed("green-y") {
		cfg.Particle.Green.Y = greenY
	}
	if flags.Changed("temperature") {
		cfg.Particle.Temperature = temperature
	}
	if flags.Changed("seed") {
		cfg.Particle.Seed = seed
	}
	if flags.Changed("cc") {
		cfg.Pendulum.CC = ccNum
	}
	if flags.Changed("mode") {
		cfg.Pendulum.Mode = mode
	}
	if flags.Changed("length") {
		cfg.Pendulum.Length = length
	}
	if flags.Changed("gravity") {
		cfg.Pendulum.Gravity = gravity
	}
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(h))
}
