package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dicesim/internal/config"
	"github.com/cory-johannsen/dicesim/internal/dice"
	"github.com/cory-johannsen/dicesim/internal/observability"
	"github.com/cory-johannsen/dicesim/internal/render"
	"github.com/cory-johannsen/dicesim/internal/server"
	"github.com/cory-johannsen/dicesim/internal/session"
	"github.com/cory-johannsen/dicesim/internal/sim"
)

type options struct {
	configPath string
	pool       string
	output     string
	noColor    bool
	noQuery    bool
}

func newRootCmd() *cobra.Command {
	v := config.New()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "dicesim [sides dice rolls]",
		Short: "Simulate a dice pool and query its distribution",
		Long: `dicesim rolls N dice with S sides R times, prints the outcome
distribution with summary statistics, then answers probability queries
(at most, at least, between) against the fitted normal approximation.
Missing parameters are prompted for.`,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to configuration file")
	f.StringVar(&opts.pool, "pool", "", "dice pool in NdS notation, e.g. 3d6")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or yaml")
	f.BoolVar(&opts.noColor, "no-color", false, "disable ANSI styling")
	f.BoolVar(&opts.noQuery, "no-query", false, "print the report and exit without the query session")
	f.Uint64("seed", 0, "seed for reproducible runs (0 = crypto/rand)")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address during the session")
	f.String("log-level", "warn", "log level: debug, info, warn, error")
	f.Int("bar-width", render.DefaultBarWidth, "width of the longest histogram bar")

	mustBind(v, "simulation.seed", cmd, "seed")
	mustBind(v, "metrics.addr", cmd, "metrics-addr")
	mustBind(v, "logging.level", cmd, "log-level")
	mustBind(v, "render.bar_width", cmd, "bar-width")

	return cmd
}

func mustBind(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", flag, err))
	}
}

func run(cmd *cobra.Command, v *viper.Viper, opts *options, args []string) error {
	ctx := cmd.Context()
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}
	if opts.configPath != "" {
		v.SetConfigFile(opts.configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return err
	}
	if opts.noColor {
		cfg.Render.Color = false
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	simCfg, err := resolveSimulation(cfg.Simulation, opts.pool, args, in, out)
	if err != nil {
		if errors.Is(err, errBadInput) {
			fmt.Fprintln(out)
			fmt.Fprintln(out, badInputMessage)
		}
		return err
	}
	pool := dice.Pool{Sides: simCfg.Sides, Count: simCfg.Dice}

	var src dice.Source
	if simCfg.Seed != 0 {
		src = dice.NewSeededSource(simCfg.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	metrics := observability.NewMetrics()
	runner := sim.NewRunner(src, logger, metrics)

	result, err := runner.Run(ctx, pool, simCfg.Trials)
	if err != nil {
		if errors.Is(err, sim.ErrCancelled) {
			fmt.Fprintln(out, "\nExiting.")
		}
		return err
	}

	if opts.output == "yaml" {
		return writeYAML(out, result)
	}

	renderer := render.NewText(cfg.Render.BarWidth, cfg.Render.Color)
	sess := session.New(result.Pool, result.Histogram, result.Summary,
		session.WithLogger(logger.With(zap.String("run_id", result.ID))),
		session.WithObserver(metrics),
	)
	fmt.Fprintln(out, renderer.Report(result, sess.RenderRequest()))
	if opts.noQuery {
		return nil
	}
	fmt.Fprintln(out, renderer.Help(session.DefaultRegistry().Commands()))

	return runSession(ctx, cfg.Metrics, logger, metrics, sess, renderer, in, out)
}

// resolveSimulation merges configuration, --pool, positional arguments and
// prompts, in increasing order of precedence, then validates the result.
func resolveSimulation(base config.SimulationConfig, poolExpr string, args []string, in *bufio.Reader, out io.Writer) (config.SimulationConfig, error) {
	s := base
	var set supplied
	if poolExpr != "" {
		p, err := dice.Parse(poolExpr)
		if err != nil {
			return s, err
		}
		s.Sides, s.Dice = p.Sides, p.Count
		set[0], set[1] = true, true
	}
	if err := applyArgs(&s, args, &set); err != nil {
		return s, err
	}
	if err := promptMissing(&s, set, in, out); err != nil {
		return s, err
	}
	if err := s.ValidateSimulation(); err != nil {
		return s, fmt.Errorf("%w: %v", dice.ErrInvalidParameter, err)
	}
	return s, nil
}

func runSession(
	ctx context.Context,
	mcfg config.MetricsConfig,
	logger *zap.Logger,
	metrics *observability.Metrics,
	sess *session.Session,
	renderer *render.Text,
	in io.Reader,
	out io.Writer,
) error {
	lc := server.NewLifecycle(logger)

	if mcfg.Addr != "" {
		srv, err := observability.NewMetricsServer(mcfg.Addr, metrics)
		if err != nil {
			return err
		}
		logger.Info("serving metrics", zap.String("addr", srv.Addr()))
		lc.Add("metrics", &server.FuncService{
			StartFn: func(context.Context) error { return srv.Serve() },
			StopFn:  srv.Stop,
		})
	}

	driver := session.NewDriver(sess, session.DefaultRegistry(), renderer, logger)
	lc.Add("session", &server.FuncService{
		StartFn: func(ctx context.Context) error { return driver.Run(ctx, in, out) },
	})

	if err := lc.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(out, "\nExiting.")
	}
	return nil
}
