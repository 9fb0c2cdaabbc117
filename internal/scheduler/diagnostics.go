package scheduler

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Diagnostics summarises one solver run for the operator.
type Diagnostics struct {
	Status       Status
	Objective    int
	Branches     int64
	Conflicts    int64
	Improvements int64
	WallTime     time.Duration
	Students     int
	Courses      int
	Variables    int
	Constraints  int
}

func NewDiagnostics(m *Model, sol *Solution) Diagnostics {
	d := Diagnostics{
		Students:    len(m.Roster.Students),
		Courses:     len(m.Roster.Courses),
		Variables:   m.NumVars(),
		Constraints: len(m.Constraints),
	}
	if sol != nil {
		d.Status = sol.Status
		d.Objective = sol.Objective
		d.Branches = sol.Stats.Branches
		d.Conflicts = sol.Stats.Conflicts
		d.Improvements = sol.Stats.Improvements
		d.WallTime = sol.Stats.WallTime
	}
	return d
}

func (d Diagnostics) Fields() []zap.Field {
	return []zap.Field{
		zap.Stringer("status", d.Status),
		zap.Int("objective", d.Objective),
		zap.Int64("branches", d.Branches),
		zap.Int64("conflicts", d.Conflicts),
		zap.Int64("improvements", d.Improvements),
		zap.Duration("wall_time", d.WallTime),
		zap.Int("students", d.Students),
		zap.Int("courses", d.Courses),
		zap.Int("variables", d.Variables),
		zap.Int("constraints", d.Constraints),
	}
}

// Print writes the statistics block shown at the end of a CLI run.
func (d Diagnostics) Print(w io.Writer) {
	fmt.Fprintln(w, "Statistics")
	fmt.Fprintf(w, "  - status          : %s\n", d.Status)
	fmt.Fprintf(w, "  - conflicts       : %d\n", d.Conflicts)
	fmt.Fprintf(w, "  - branches        : %d\n", d.Branches)
	fmt.Fprintf(w, "  - improvements    : %d\n", d.Improvements)
	fmt.Fprintf(w, "  - value of courses: %d\n", d.Objective)
	fmt.Fprintf(w, "  - wall time       : %f s\n", d.WallTime.Seconds())
}
