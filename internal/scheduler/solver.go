package scheduler

import (
	"context"
	"time"
)

type Status int

const (
	StatusUnknown    Status = iota // search stopped without an assignment
	StatusOptimal                  // proven optimal
	StatusFeasible                 // best found, optimality not proven
	StatusInfeasible               // proven to have no assignment
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	}
	return "unknown"
}

type Stats struct {
	Branches     int64
	Conflicts    int64
	Improvements int64 // improving assignments reported during the search
	WallTime     time.Duration
}

// Solution is what a Solver returns. Values is indexed by VarID and is only
// meaningful for StatusOptimal and StatusFeasible.
type Solution struct {
	Status    Status
	Values    []bool
	Objective int
	Stats     Stats
}

// Solver searches for an assignment maximising the model objective.
// A deadline on ctx stops the search and yields the best assignment found.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
