package scheduler

import (
	"github.com/samber/lo"

	"github.com/rhyrak/pick-scheduler/pkg/model"
)

// Project reads solved values back into per-student and per-course views.
func Project(m *Model, values []bool) *model.Schedule {
	roster := m.Roster
	schedule := model.NewSchedule(roster.Students, roster.Courses, roster.PeriodCount)

	for _, c := range roster.Courses {
		assigned := lo.Filter(roster.Students, func(s *model.Student, _ int) bool {
			return values[m.Var(c.ID, s.ID)]
		})
		schedule.Courses[c.ID].Students = assigned
		for _, s := range assigned {
			slots := schedule.Students[s.ID].Slots
			if slots[c.Period-1] != nil {
				continue
			}
			p := roster.Pick(c.ID, s.ID)
			slots[c.Period-1] = &model.Slot{Course: c, Rank: p.Rank, Weight: p.Weight}
		}
	}
	schedule.Objective = m.Evaluate(values)
	return schedule
}
