package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/sarchlab/casetta/policy"
	"github.com/sarchlab/casetta/sim"
	"github.com/sarchlab/casetta/simulation"
	"github.com/sarchlab/casetta/tracing"
)

var runFlags struct {
	ticks      int
	policy     string
	seed       int64
	record     bool
	output     string
	monitor    bool
	port       int
	open       bool
	noProgress bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one episode of a facility.",
	Long: "`run` resets the facility and steps it for the given number of " +
		"ticks, choosing actions with a built-in policy. The episode can " +
		"be recorded into SQLite and watched in a browser.",
	Args: cobra.NoArgs,
	RunE: runEpisode,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.IntVarP(&runFlags.ticks, "ticks", "n", 288, "number of ticks to run")
	f.StringVar(&runFlags.policy, "policy", policy.NameConstant,
		"action policy: constant or random")
	f.Int64Var(&runFlags.seed, "seed", 0, "seed of the random policy")
	f.BoolVar(&runFlags.record, "record", false,
		"record the episode into a SQLite file")
	f.StringVarP(&runFlags.output, "output", "o", "",
		"recording path prefix (default from the configuration)")
	f.BoolVar(&runFlags.monitor, "monitor", false,
		"serve the monitor while running")
	f.IntVar(&runFlags.port, "port", 0,
		"monitor port (default from the configuration, 0 picks a free port)")
	f.BoolVar(&runFlags.open, "open", false, "open the monitor in a browser")
	f.BoolVar(&runFlags.noProgress, "no-progress", false,
		"hide the progress bar")
}

func runEpisode(cmd *cobra.Command, _ []string) error {
	if runFlags.ticks < 0 {
		return fmt.Errorf("ticks must not be negative, got %d", runFlags.ticks)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b := simulation.MakeBuilder().
		WithConfig(cfg).
		WithLogger(logger).
		WithPolicyName(runFlags.policy, runFlags.seed)

	if runFlags.record || cmd.Flags().Changed("output") {
		path := runFlags.output
		if path == "" {
			path = cfg.Recording.Path
		}

		b = b.WithRecording(path)
	}

	if runFlags.monitor || runFlags.open || cmd.Flags().Changed("port") {
		port := cfg.Monitoring.Port
		if cmd.Flags().Changed("port") {
			port = runFlags.port
		}

		b = b.WithMonitorPort(port)
	}

	s, err := b.Build()
	if err != nil {
		return err
	}
	defer s.Terminate()

	if verbose {
		tracing.CollectTrace(s.Facility(), tracing.NewLogTracer(logger, nil))
	}

	if runFlags.open && s.MonitorPort() > 0 {
		url := fmt.Sprintf("http://localhost:%d", s.MonitorPort())
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("cannot open browser", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(
		contextOrBackground(cmd.Context()), os.Interrupt)
	defer stop()

	bar := startProgress(s, runFlags.ticks)

	err = s.Run(ctx, runFlags.ticks)

	if bar != nil {
		bar.Finish()
	}

	if err != nil {
		return err
	}

	printSummary(cmd, s)

	return nil
}

func startProgress(s *simulation.Simulation, ticks int) *pb.ProgressBar {
	if runFlags.noProgress || ticks == 0 {
		return nil
	}

	bar := pb.New(ticks)
	bar.Output = os.Stderr
	bar.Start()

	s.Facility().AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		if ctx.Pos == sim.HookPosAfterTick {
			bar.Increment()
		}
	}))

	return bar
}

func printSummary(cmd *cobra.Command, s *simulation.Simulation) {
	f := s.Facility()

	printf(cmd, "episode %s finished after %d ticks\n", f.EpisodeID(), f.Tick())

	for _, k := range sim.AllKinds() {
		printf(cmd, "  %-10s %12.4f\n", k, s.Balance().Total(k))
	}

	if s.OutputPath() != "" {
		printf(cmd, "recorded to %s\n", s.OutputPath())
	}
}

// contextOrBackground guards against commands executed without a context.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}

	return ctx
}
