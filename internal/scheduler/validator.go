package scheduler

import (
	"fmt"
)

// Validate re-checks a solved assignment against every constraint and the
// reported objective. Returns false and a message for invalid assignments.
func Validate(m *Model, values []bool, objective int) (bool, string) {
	var message string
	var valid bool = true
	failed := make(map[ConstraintKind]bool, 4)

	if len(values) != m.NumVars() {
		return false, fmt.Sprintf("[FAIL]: Assignment has %d values for %d variables.\n", len(values), m.NumVars())
	}

	roster := m.Roster
	for _, c := range m.Constraints {
		if c.Satisfied(values) {
			continue
		}
		valid = false
		failed[c.Kind] = true
		switch c.Kind {
		case KindPin:
			message += fmt.Sprintf("- %s assigned to unranked %s\n", roster.Students[c.Student].Name(), roster.Courses[c.Course].Label)
		case KindExactlyOne:
			message += fmt.Sprintf("- %s has %d courses in period %d\n", roster.Students[c.Student].Name(), c.Sum(values), c.Period)
		case KindCapacityMax, KindCapacityMin:
			message += fmt.Sprintf("- %s has %d students, bound %s %d\n", roster.Courses[c.Course].Label, c.Sum(values), c.Rel, c.RHS)
		}
	}

	actual := m.Evaluate(values)
	badObjective := actual != objective
	if badObjective {
		valid = false
		message += fmt.Sprintf("- Reported objective %d, assignment is worth %d\n", objective, actual)
	}

	checks := []struct {
		name string
		fail bool
	}{
		{"Objective consistency check", badObjective},
		{"Capacity check", failed[KindCapacityMax] || failed[KindCapacityMin]},
		{"Exactly one per period check", failed[KindExactlyOne]},
		{"Ineligibility check", failed[KindPin]},
	}
	for _, check := range checks {
		if check.fail {
			message = "[FAIL]: " + check.name + ".\n" + message
		} else {
			message = "[  OK]: " + check.name + ".\n" + message
		}
	}

	return valid, message
}
