package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/config"
	"github.com/comalice/fixedloop/internal/control"
	"github.com/comalice/fixedloop/internal/logging"
	"github.com/comalice/fixedloop/internal/telemetry"
)

type envFunc func() (*config.Config, *slog.Logger)

type runFlags struct {
	fps        uint32
	uncapped   bool
	frames     uint64
	restarts   uint32
	wait       string
	db         string
	http       string
	summaryDir string
	particles  int
	seed       uint64
}

func newRunCmd(env envFunc) *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the particle simulation on the loop",
		Long: `Run drops particles under gravity, integrating physics in fixed steps.
It stops after --frames frames per run and --restarts restarts, or on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := env()
			applyRunFlags(cmd, cfg, &flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runSim(ctx, cmd.OutOrStdout(), cfg, logger, flags.particles, flags.seed)
		},
	}

	f := cmd.Flags()
	f.Uint32Var(&flags.fps, "fps", fixedloop.DefaultTargetFPS, "Target frames per second")
	f.BoolVar(&flags.uncapped, "uncapped", false, "Run frames as fast as possible")
	f.Uint64Var(&flags.frames, "frames", 0, "Frames per run (0 runs until interrupted)")
	f.Uint32Var(&flags.restarts, "restarts", 0, "Restarts before shutting down")
	f.StringVar(&flags.wait, "wait", "spin", "Capped wait strategy (spin, hybrid)")
	f.StringVar(&flags.db, "db", "", "SQLite database for per-frame stats")
	f.StringVar(&flags.http, "http", "", "Control API listen address, eg. :8080")
	f.StringVar(&flags.summaryDir, "summary-dir", "", "Directory for YAML run summaries")
	f.IntVar(&flags.particles, "particles", 1000, "Number of simulated particles")
	f.Uint64Var(&flags.seed, "seed", 1, "Particle placement seed")

	return cmd
}

// applyRunFlags overrides config values with flags set on the command line.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlags) {
	changed := cmd.Flags().Changed
	if changed("fps") {
		cfg.TargetFPS = flags.fps
	}
	if changed("uncapped") {
		cfg.Capped = !flags.uncapped
	}
	if changed("frames") {
		cfg.Frames = flags.frames
	}
	if changed("restarts") {
		cfg.Restarts = flags.restarts
	}
	if changed("wait") {
		cfg.Wait = flags.wait
	}
	if changed("db") {
		cfg.DBPath = flags.db
	}
	if changed("http") {
		cfg.HTTPAddr = flags.http
	}
	if changed("summary-dir") {
		cfg.SummaryDir = flags.summaryDir
	}
}

func runSim(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, particles int, seed uint64) error {
	runID := uuid.NewString()
	startedAt := time.Now()
	logger = logger.With("run_id", runID)

	sim := newParticleSim(particles, seed, logger)
	sim.framesPerRun = cfg.Frames
	sim.restartsLeft = cfg.Restarts

	latest := &telemetry.Latest{}
	summarizer := telemetry.NewSummarizer(runID, startedAt)
	sinks := []fixedloop.FrameReporter{latest, summarizer}

	var (
		publisher *telemetry.ChannelPublisher
		drained   chan error
	)
	if cfg.DBPath != "" {
		rec, err := telemetry.NewSQLiteRecorder(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer rec.Close()
		if err := rec.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
		}
		err = rec.BeginRun(ctx, telemetry.RunRecord{ID: runID, TargetFPS: cfg.TargetFPS, Capped: cfg.Capped, StartedAt: startedAt})
		if err != nil {
			return err
		}

		ch := make(chan telemetry.PublishedFrame, 4096)
		publisher = telemetry.NewChannelPublisher(runID, ch)
		sinks = append(sinks, publisher)
		drained = make(chan error, 1)
		go func() { drained <- rec.Drain(context.WithoutCancel(ctx), ch) }()
	}

	loop := fixedloop.New(telemetry.Attach(sim, sinks...),
		append(cfg.LoopOptions(), fixedloop.WithLogger(logging.Component(logger, "loop")))...)
	sim.loop = loop

	if cfg.HTTPAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		srv := control.New(loop, logger, control.WithStats(latest))
		go func() {
			if err := srv.ListenAndServe(srvCtx, cfg.HTTPAddr); err != nil {
				logger.Error("control server stopped", "error", err)
				loop.RequestShutDown()
			}
		}()
	}

	if err := loop.RunContext(ctx, cfg.TargetFPS); err != nil {
		return err
	}

	if publisher != nil {
		publisher.Close()
		if err := <-drained; err != nil {
			return fmt.Errorf("record frames: %w", err)
		}
		if n := publisher.Dropped(); n > 0 {
			logger.Warn("frames dropped from the database", "count", n)
		}
	}

	summary := summarizer.Summary()
	if cfg.SummaryDir != "" {
		p, err := telemetry.NewYAMLPersister(cfg.SummaryDir)
		if err != nil {
			return err
		}
		if err := p.Save(context.WithoutCancel(ctx), summary); err != nil {
			return fmt.Errorf("save summary: %w", err)
		}
	}

	printSummary(out, summary)
	return nil
}

func printSummary(out io.Writer, s telemetry.RunSummary) {
	fmt.Fprintf(out, "Run:      %s\n", s.RunID)
	fmt.Fprintf(out, "  Started:  %s\n", humanize.Time(s.StartedAt))
	fmt.Fprintf(out, "  Runs:     %d\n", s.Runs)
	fmt.Fprintf(out, "  Frames:   %s\n", humanize.Comma(int64(s.Frames)))
	fmt.Fprintf(out, "  Duration: %s\n", s.TotalDur.Round(time.Millisecond))
	fmt.Fprintf(out, "  FPS:      %d avg / %d target\n", s.AverageFPS, s.TargetFPS)
	fmt.Fprintf(out, "  Frame:    %s min / %s max\n", s.MinFrameDur, s.MaxFrameDur)
}
