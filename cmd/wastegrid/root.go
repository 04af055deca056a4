package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/wastegrid/config"
	"github.com/katalvlaran/wastegrid/logging"
	"github.com/katalvlaran/wastegrid/metrics"
	"github.com/katalvlaran/wastegrid/network"
	"github.com/katalvlaran/wastegrid/session"
	"github.com/katalvlaran/wastegrid/store"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "WASTEGRID_PASSWORD"

// offline marks commands that run without loading the data store.
const offline = "offline"

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	dataDir    string
	backend    string
	logLevel   string
	user       string
	password   string

	cfg     config.Config
	logFile *logging.Logger
	log     *slog.Logger
	metrics *metrics.Metrics
	svc     *network.Service
	gate    *session.Gate
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "wastegrid",
		Short:         "Facility registry and route planner for municipal waste networks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[offline] != "" {
				return nil
			}

			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "wastegrid.yaml", "path to the YAML configuration file")
	pf.StringVar(&a.dataDir, "data-dir", "", "data directory (overrides data_dir)")
	pf.StringVar(&a.backend, "backend", "", "store backend: file, sqlite or badger (overrides backend)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")
	pf.StringVar(&a.user, "user", "", "operator name for mutating commands")
	pf.StringVar(&a.password, "password", "", "operator password (default $"+passwordEnv+")")

	root.AddCommand(
		newFacilityCmd(a),
		newNodeCmd(a),
		newEdgeCmd(a),
		newRouteCmd(a),
		newReachCmd(a),
		newEmissionCmd(a),
		newMetricsCmd(a),
		newConfigCmd(),
		newHashPasswordCmd(),
	)

	return root
}

// setup loads configuration, applies flag overrides and opens the service.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("backend") {
		cfg.Backend = a.backend
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", network.ErrInvalidArgument, err)
	}
	a.cfg = cfg

	level, _ := logging.ParseLevel(cfg.Log.Level)
	lf, err := logging.New(logging.Config{Level: level, Dir: cfg.Log.Dir, Stderr: cmd.ErrOrStderr()})
	a.logFile = lf
	a.log = lf.With(slog.String("run_id", uuid.NewString()), slog.String("command", cmd.CommandPath()))
	if err != nil {
		a.log.Warn("file logging disabled", slog.Any("error", err))
	}

	a.metrics = metrics.New()
	st, err := store.Open(store.Options{Backend: cfg.Backend, Dir: cfg.DataDir, Logger: a.log})
	if err != nil {
		return fmt.Errorf("%w: %w", network.ErrIOFailure, err)
	}
	a.svc, err = network.New(cmd.Context(), network.Options{
		Store:      st,
		Backend:    cfg.Backend,
		MultiEdges: cfg.Graph.MultiEdges,
		ClosedAt:   cfg.Graph.ClosedAt,
		BaseFactor: cfg.Emission.BaseFactor,
		Logger:     a.log,
		Metrics:    a.metrics,
	})
	if err != nil {
		_ = st.Close()
		return err
	}

	creds := make(session.StaticProvider, len(cfg.Admins))
	for _, adm := range cfg.Admins {
		creds[adm.Name] = []byte(adm.PasswordHash)
	}
	a.gate = session.NewGate(creds)

	return nil
}

// mutate runs fn as an authenticated operator and saves the result.
func (a *app) mutate(cmd *cobra.Command, op string, fn func() error) error {
	password := a.password
	if password == "" {
		password = os.Getenv(passwordEnv)
	}
	if len(a.cfg.Admins) == 0 {
		return fmt.Errorf("%s: %w: no admins configured (see wastegrid hash-password)", op, session.ErrInvalidCredentials)
	}
	s, err := a.gate.Login(a.user, password)
	if err != nil {
		a.log.Warn("login rejected", slog.String("user", a.user), slog.String("op", op))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer a.gate.Logout(s)
	if err := a.gate.Authorize(s, op); err != nil {
		return err
	}

	if err := fn(); err != nil {
		return err
	}

	return a.svc.Save(cmd.Context())
}

func (a *app) close() error {
	var errs []error
	if a.svc != nil {
		errs = append(errs, a.svc.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}

	return errors.Join(errs...)
}

func parseFloat(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", network.ErrInvalidArgument, what, s)
	}

	return v, nil
}
