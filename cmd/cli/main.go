package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/config"
	"github.com/rhyrak/pick-scheduler/internal/csvio"
	"github.com/rhyrak/pick-scheduler/internal/ipsolver"
	"github.com/rhyrak/pick-scheduler/internal/logger"
	"github.com/rhyrak/pick-scheduler/internal/metrics"
	"github.com/rhyrak/pick-scheduler/internal/scheduler"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.New()
	var printSchedule bool

	cmd := &cobra.Command{
		Use:          "picks [roster.csv]",
		Short:        "Assign students to course sections from ranked picks",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v.Set("ROSTER_FILE", args[0])
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), printSchedule)
		},
	}

	flags := cmd.Flags()
	flags.StringP("policy", "p", "linear", "weight policy: linear, exponential or webtree")
	flags.BoolP("exp_weighting", "e", false, "use the exponential weighting scheme")
	flags.String("capacities", "", "CSV of per-course capacity overrides (course,min,max)")
	flags.StringP("out", "o", "results", "directory for result files")
	flags.Duration("timeout", 0, "stop the search after this long and keep the best schedule")
	flags.Int("min", 5, "default minimum students per course")
	flags.Int("max", 10, "default maximum students per course")
	flags.Bool("enforce-min", true, "enforce the minimum capacity")
	flags.String("metrics-file", "", "write solver metrics in textfile format")
	flags.BoolVar(&printSchedule, "print", false, "print the schedule to stdout")
	mustBind(v, flags, map[string]string{
		"WEIGHT_POLICY":        "policy",
		"EXP_WEIGHTING":        "exp_weighting",
		"CAPACITY_FILE":        "capacities",
		"RESULTS_DIR":          "out",
		"SOLVER_TIMEOUT":       "timeout",
		"CAPACITY_MIN":         "min",
		"CAPACITY_MAX":         "max",
		"ENFORCE_MIN_CAPACITY": "enforce-min",
		"METRICS_FILE":         "metrics-file",
	})
	return cmd
}

func mustBind(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func run(ctx context.Context, cfg *config.Config, out io.Writer, printSchedule bool) error {
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.With(zap.String("run_id", uuid.NewString()))

	policy, err := cfg.PolicyFor()
	if err != nil {
		return err
	}
	roster, err := csvio.LoadRosterFile(cfg.RosterFile, cfg.Roster, policy)
	if err != nil {
		log.Error("failed to load roster", zap.String("file", cfg.RosterFile), zap.Error(err))
		return err
	}
	if cfg.CapacityFile != "" {
		if err := csvio.LoadCapacitiesFile(cfg.CapacityFile, cfg.Roster.Delimiter, roster); err != nil {
			log.Error("failed to load capacities", zap.String("file", cfg.CapacityFile), zap.Error(err))
			return err
		}
	}
	years := make(map[string]int, len(roster.ClassYearTotals))
	for y, n := range roster.ClassYearTotals {
		years[y.String()] = n
	}
	log.Info("roster loaded",
		zap.String("file", cfg.RosterFile),
		zap.String("policy", string(policy.Kind())),
		zap.Int("students", len(roster.Students)),
		zap.Int("courses", len(roster.Courses)),
		zap.Any("class_years", years),
	)

	res, runErr := scheduler.Run(ctx, roster, &cfg.Scheduler, ipsolver.New(log), log)
	if res == nil {
		return runErr
	}

	recorder := metrics.NewRecorder()
	recorder.Observe(res.Diagnostics)
	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn("failed to write metrics", zap.String("file", cfg.MetricsFile), zap.Error(err))
		}
	}

	if res.Schedule != nil {
		schedulePath, err := csvio.ExportSchedule(res.Schedule, filepath.Join(cfg.ResultsDir, "results.csv"))
		if err != nil {
			return err
		}
		rostersPath, err := csvio.ExportRosters(res.Schedule, filepath.Join(cfg.ResultsDir, "rosters.csv"))
		if err != nil {
			return err
		}
		if printSchedule {
			csvio.PrintSchedule(out, res.Schedule)
		}
		fmt.Fprintln(out, "Results saved to "+schedulePath+" and "+rostersPath)
		fmt.Fprintln(out)
	}
	res.Diagnostics.Print(out)

	if runErr != nil {
		log.Error("run did not reach a proven optimum", zap.Error(runErr))
	}
	return runErr
}
