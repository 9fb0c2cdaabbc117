package scheduler

import (
	"fmt"

	"github.com/rhyrak/pick-scheduler/pkg/model"
)

// VarID indexes the assignment variable of a (course, student) pair.
type VarID int

type Relation int

const (
	Equal Relation = iota
	AtMost
	AtLeast
)

func (r Relation) String() string {
	switch r {
	case AtMost:
		return "<="
	case AtLeast:
		return ">="
	}
	return "=="
}

type ConstraintKind int

const (
	KindPin ConstraintKind = iota
	KindExactlyOne
	KindCapacityMax
	KindCapacityMin
)

func (k ConstraintKind) String() string {
	switch k {
	case KindPin:
		return "pin"
	case KindExactlyOne:
		return "exactly-one"
	case KindCapacityMax:
		return "capacity-max"
	case KindCapacityMin:
		return "capacity-min"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Term struct {
	Var  VarID
	Coef int
}

// Constraint is sum(Coef*x) Rel RHS.
type Constraint struct {
	Kind    ConstraintKind
	Terms   []Term
	Rel     Relation
	RHS     int
	Course  model.CourseID  // pin and capacity constraints
	Student model.StudentID // pin and exactly-one constraints
	Period  model.Period    // exactly-one constraints
}

// Sum evaluates the left hand side under the given assignment.
func (c Constraint) Sum(values []bool) int {
	sum := 0
	for _, t := range c.Terms {
		if values[t.Var] {
			sum += t.Coef
		}
	}
	return sum
}

func (c Constraint) Satisfied(values []bool) bool {
	sum := c.Sum(values)
	switch c.Rel {
	case AtMost:
		return sum <= c.RHS
	case AtLeast:
		return sum >= c.RHS
	}
	return sum == c.RHS
}

// Model is the boolean program handed to a Solver: one variable per
// (course, student) pair at index course*|students|+student.
type Model struct {
	Roster      *model.Roster
	Weights     []int
	Constraints []Constraint
	Objective   []Term // maximised

	numStudents int
}

func (m *Model) NumVars() int {
	return len(m.Weights)
}

func (m *Model) Var(c model.CourseID, s model.StudentID) VarID {
	return VarID(int(c)*m.numStudents + int(s))
}

// Evaluate returns the objective value of an assignment.
func (m *Model) Evaluate(values []bool) int {
	total := 0
	for _, t := range m.Objective {
		if values[t.Var] {
			total += t.Coef
		}
	}
	return total
}

// Count returns how many constraints of each kind the model holds.
func (m *Model) Count() map[ConstraintKind]int {
	counts := make(map[ConstraintKind]int, 4)
	for _, c := range m.Constraints {
		counts[c.Kind]++
	}
	return counts
}

// BuildModel emits the variables, constraints and objective for a roster.
func BuildModel(roster *model.Roster, cfg *Configuration) *Model {
	nS := len(roster.Students)
	m := &Model{
		Roster:      roster,
		Weights:     make([]int, len(roster.Courses)*nS),
		numStudents: nS,
	}

	for _, c := range roster.Courses {
		for _, s := range roster.Students {
			p := roster.Pick(c.ID, s.ID)
			v := m.Var(c.ID, s.ID)
			m.Weights[v] = p.Weight
			if !p.Eligible() {
				m.Constraints = append(m.Constraints, Constraint{
					Kind:    KindPin,
					Terms:   []Term{{Var: v, Coef: 1}},
					Rel:     Equal,
					RHS:     0,
					Course:  c.ID,
					Student: s.ID,
				})
				continue
			}
			if p.Weight != 0 {
				m.Objective = append(m.Objective, Term{Var: v, Coef: p.Weight})
			}
		}
	}

	for _, s := range roster.Students {
		for period := model.Period(1); int(period) <= roster.PeriodCount; period++ {
			picks := roster.Picks(s.ID, period)
			if len(picks) == 0 {
				continue
			}
			terms := make([]Term, len(picks))
			for i, c := range picks {
				terms[i] = Term{Var: m.Var(c, s.ID), Coef: 1}
			}
			m.Constraints = append(m.Constraints, Constraint{
				Kind:    KindExactlyOne,
				Terms:   terms,
				Rel:     Equal,
				RHS:     1,
				Student: s.ID,
				Period:  period,
			})
		}
	}

	for _, c := range roster.Courses {
		bounds := cfg.CapacityFor(c)
		terms := make([]Term, nS)
		for i, s := range roster.Students {
			terms[i] = Term{Var: m.Var(c.ID, s.ID), Coef: 1}
		}
		m.Constraints = append(m.Constraints, Constraint{
			Kind:   KindCapacityMax,
			Terms:  terms,
			Rel:    AtMost,
			RHS:    bounds.Max,
			Course: c.ID,
		})
		if bounds.Min > 0 {
			m.Constraints = append(m.Constraints, Constraint{
				Kind:   KindCapacityMin,
				Terms:  terms,
				Rel:    AtLeast,
				RHS:    bounds.Min,
				Course: c.ID,
			})
		}
	}
	return m
}
