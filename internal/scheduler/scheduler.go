package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

// Result carries everything a run produced. Schedule is nil unless the solver
// returned an assignment.
type Result struct {
	Model       *Model
	Solution    *Solution
	Schedule    *model.Schedule
	Diagnostics Diagnostics
}

// Run builds the model for roster, hands it to solver and projects the answer.
// Infeasible, incomplete and empty searches are returned as typed errors; an
// incomplete search still carries its best schedule in the Result.
func Run(ctx context.Context, roster *model.Roster, cfg *Configuration, solver Solver, log *zap.Logger) (*Result, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}

	m := BuildModel(roster, cfg)
	counts := m.Count()
	log.Info("model built",
		zap.Int("students", len(roster.Students)),
		zap.Int("courses", len(roster.Courses)),
		zap.Int("variables", m.NumVars()),
		zap.Int("pinned", counts[KindPin]),
		zap.Int("exactly_one", counts[KindExactlyOne]),
		zap.Int("capacity", counts[KindCapacityMax]+counts[KindCapacityMin]),
	)

	if cfg.SolverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SolverTimeout)
		defer cancel()
	}

	sol, err := solver.Solve(ctx, m)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "solver failed")
	}

	res := &Result{Model: m, Solution: sol, Diagnostics: NewDiagnostics(m, sol)}
	log.Info("solver finished", res.Diagnostics.Fields()...)

	switch sol.Status {
	case StatusInfeasible:
		return res, appErrors.ErrInfeasible
	case StatusUnknown:
		return res, appErrors.ErrNoSolution
	}

	res.Schedule = Project(m, sol.Values)
	if valid, msg := Validate(m, sol.Values, sol.Objective); !valid {
		log.Error("solver returned an invalid assignment", zap.String("report", msg))
		return res, appErrors.Clone(appErrors.ErrInternal, "solver returned an invalid assignment:\n"+msg)
	}

	if sol.Status == StatusFeasible {
		return res, appErrors.Clone(appErrors.ErrIncomplete, fmt.Sprintf("search stopped with objective %d before optimality was proven", sol.Objective))
	}
	return res, nil
}
