// Package ipsolver solves assignment models with the gophersat pseudo-boolean solver.
package ipsolver

import (
	"context"
	"time"

	"github.com/crillab/gophersat/solver"
	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/scheduler"
)

// SAT implements scheduler.Solver. Maximising sum(w*x) is expressed as
// minimising sum(w*not x), which keeps every cost weight positive.
type SAT struct {
	log *zap.Logger
}

func New(log *zap.Logger) *SAT {
	if log == nil {
		log = zap.NewNop()
	}
	return &SAT{log: log}
}

func lit(v scheduler.VarID) int {
	return int(v) + 1
}

// translate converts one constraint. ok is false when the constraint can
// never hold.
func translate(c scheduler.Constraint) (constrs []solver.PBConstr, ok bool) {
	lits := make([]int, len(c.Terms))
	weights := make([]int, len(c.Terms))
	sum := 0
	for i, t := range c.Terms {
		lits[i] = lit(t.Var)
		weights[i] = t.Coef
		sum += t.Coef
	}

	switch c.Rel {
	case scheduler.AtMost:
		if c.RHS < 0 {
			return nil, false
		}
		if c.RHS >= sum {
			return nil, true
		}
		return []solver.PBConstr{solver.LtEq(lits, weights, c.RHS)}, true
	case scheduler.AtLeast:
		if c.RHS > sum {
			return nil, false
		}
		if c.RHS <= 0 {
			return nil, true
		}
		return []solver.PBConstr{solver.GtEq(lits, weights, c.RHS)}, true
	}

	if c.RHS < 0 || c.RHS > sum {
		return nil, false
	}
	if c.RHS == 0 {
		for _, l := range lits {
			constrs = append(constrs, solver.PropClause(-l))
		}
		return constrs, true
	}
	return solver.Eq(lits, weights, c.RHS), true
}

func costFunction(m *scheduler.Model) ([]solver.Lit, []int) {
	lits := make([]solver.Lit, 0, len(m.Objective))
	weights := make([]int, 0, len(m.Objective))
	for _, t := range m.Objective {
		if t.Coef <= 0 {
			continue
		}
		lits = append(lits, solver.IntToLit(int32(-lit(t.Var))))
		weights = append(weights, t.Coef)
	}
	return lits, weights
}

func (s *SAT) Solve(ctx context.Context, m *scheduler.Model) (*scheduler.Solution, error) {
	start := time.Now()
	infeasible := func() *scheduler.Solution {
		return &scheduler.Solution{
			Status: scheduler.StatusInfeasible,
			Stats:  scheduler.Stats{WallTime: time.Since(start)},
		}
	}

	constrs := make([]solver.PBConstr, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		pbs, ok := translate(c)
		if !ok {
			s.log.Debug("constraint can never hold", zap.Stringer("kind", c.Kind), zap.Int("rhs", c.RHS))
			return infeasible(), nil
		}
		constrs = append(constrs, pbs...)
	}
	if m.NumVars() == 0 {
		return &scheduler.Solution{Status: scheduler.StatusOptimal, Stats: scheduler.Stats{WallTime: time.Since(start)}}, nil
	}

	pb := solver.ParsePBConstrs(constrs)
	if pb.Status == solver.Unsat {
		return infeasible(), nil
	}
	if lits, weights := costFunction(m); len(lits) > 0 {
		pb.SetCostFunc(lits, weights)
	}
	sat := solver.New(pb)
	if ctx.Err() != nil {
		return &scheduler.Solution{Status: scheduler.StatusUnknown, Stats: scheduler.Stats{WallTime: time.Since(start)}}, nil
	}

	// gophersat never reads its stop channel, so the search runs on its own
	// goroutine and a deadline abandons it with the best assignment seen so far.
	results := make(chan solver.Result)
	finished := make(chan solver.Result, 1)
	go func() {
		finished <- sat.Optimal(results, nil)
	}()

	// Optimal closes results before returning, so every improvement has been
	// counted once its final result is read.
	var best []bool
	var improvements int64
	complete := func(res solver.Result) *scheduler.Solution {
		stats := scheduler.Stats{
			Branches:     int64(sat.Stats.NbDecisions),
			Conflicts:    int64(sat.Stats.NbConflicts),
			Improvements: improvements,
			WallTime:     time.Since(start),
		}
		switch res.Status {
		case solver.Unsat:
			return &scheduler.Solution{Status: scheduler.StatusInfeasible, Stats: stats}
		case solver.Sat:
			return assignment(m, scheduler.StatusOptimal, res.Model, stats)
		}
		return &scheduler.Solution{Status: scheduler.StatusUnknown, Stats: stats}
	}

	stream := results
	for {
		select {
		case r, ok := <-stream:
			if !ok {
				stream = nil
				continue
			}
			if r.Status == solver.Sat {
				best = r.Model
				improvements++
				s.log.Debug("improved assignment", zap.Int("cost", r.Weight))
			}

		case res := <-finished:
			return complete(res), nil

		case <-ctx.Done():
			if stream == nil {
				// The search already returned; its result is proven.
				return complete(<-finished), nil
			}
			go drain(stream)
			// Solver counters belong to the running search and are not read here.
			stats := scheduler.Stats{Improvements: improvements, WallTime: time.Since(start)}
			s.log.Warn("search abandoned at deadline",
				zap.Int64("improvements", improvements),
				zap.Bool("has_assignment", best != nil),
				zap.Error(ctx.Err()),
			)
			if best == nil {
				return &scheduler.Solution{Status: scheduler.StatusUnknown, Stats: stats}, nil
			}
			return assignment(m, scheduler.StatusFeasible, best, stats), nil
		}
	}
}

// drain keeps an abandoned search from blocking on its result stream.
func drain(results <-chan solver.Result) {
	for range results {
	}
}

func assignment(m *scheduler.Model, status scheduler.Status, model []bool, stats scheduler.Stats) *scheduler.Solution {
	values := make([]bool, m.NumVars())
	copy(values, model)
	return &scheduler.Solution{
		Status:    status,
		Values:    values,
		Objective: m.Evaluate(values),
		Stats:     stats,
	}
}
