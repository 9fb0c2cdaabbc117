package model

import (
	"fmt"
	"strings"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
)

// Ineligible is the weight of a pair that must never be assigned.
const Ineligible = -1

// Pick is a student's submission for one course.
type Pick struct {
	Course  CourseID
	Student StudentID
	Rank    int
	Ranked  bool
	Weight  int
}

// Eligible reports whether the pair may be assigned.
func (p Pick) Eligible() bool {
	return p.Ranked && p.Weight != Ineligible
}

// Roster is the parsed preference table. Courses must be added before students.
type Roster struct {
	Students        []*Student
	Courses         []*Course
	PeriodCount     int
	PeriodCourses   [][]CourseID // PeriodCourses[p-1]
	ClassYearTotals map[ClassYear]int

	studentIndex map[string]StudentID
	courseIndex  map[string]CourseID
	picks        [][]Pick       // picks[student][course]
	studentPicks [][][]CourseID // studentPicks[student][p-1], eligible only
}

func NewRoster(periodCount int) *Roster {
	return &Roster{
		PeriodCount:     periodCount,
		PeriodCourses:   make([][]CourseID, periodCount),
		ClassYearTotals: make(map[ClassYear]int),
		studentIndex:    make(map[string]StudentID),
		courseIndex:     make(map[string]CourseID),
	}
}

func identityKey(fields []string) string {
	return strings.Join(fields, "\x1f")
}

// AddCourse registers a course column and assigns its id.
func (r *Roster) AddCourse(c *Course) (CourseID, error) {
	if len(r.Students) > 0 {
		return 0, fmt.Errorf("course %q added after students", c.Label)
	}
	if c.Period < 1 || int(c.Period) > r.PeriodCount {
		return 0, appErrors.Clone(appErrors.ErrMalformedInput, fmt.Sprintf("course %q has period %d outside 1..%d", c.Label, c.Period, r.PeriodCount))
	}
	if prev, ok := r.courseIndex[c.Label]; ok {
		return 0, appErrors.Clone(appErrors.ErrIdentityCollision, fmt.Sprintf("course %q appears in columns %d and %d", c.Label, r.Courses[prev].Column, c.Column))
	}
	c.ID = CourseID(len(r.Courses))
	r.courseIndex[c.Label] = c.ID
	r.Courses = append(r.Courses, c)
	r.PeriodCourses[c.Period-1] = append(r.PeriodCourses[c.Period-1], c.ID)
	return c.ID, nil
}

// AddStudent registers a student and assigns its id. Every pick starts unranked.
func (r *Roster) AddStudent(s *Student) (StudentID, error) {
	key := identityKey(s.Key)
	if _, ok := r.studentIndex[key]; ok {
		return 0, appErrors.Clone(appErrors.ErrIdentityCollision, fmt.Sprintf("student %q appears more than once", s.Name()))
	}
	s.ID = StudentID(len(r.Students))
	r.studentIndex[key] = s.ID
	r.Students = append(r.Students, s)
	r.ClassYearTotals[s.ClassYear]++

	row := make([]Pick, len(r.Courses))
	for i := range row {
		row[i] = Pick{Course: CourseID(i), Student: s.ID, Weight: Ineligible}
	}
	r.picks = append(r.picks, row)
	r.studentPicks = append(r.studentPicks, make([][]CourseID, r.PeriodCount))
	return s.ID, nil
}

// SetPick records a submitted rank and its weight.
func (r *Roster) SetPick(c CourseID, s StudentID, rank int, weight int) {
	p := &r.picks[s][c]
	p.Rank = rank
	p.Ranked = true
	p.Weight = weight
	if p.Eligible() {
		period := r.Courses[c].Period
		r.studentPicks[s][period-1] = append(r.studentPicks[s][period-1], c)
	}
}

// Pick returns the submission of student s for course c.
func (r *Roster) Pick(c CourseID, s StudentID) Pick {
	return r.picks[s][c]
}

// Picks returns the eligible courses of student s in period p, in column order.
func (r *Roster) Picks(s StudentID, p Period) []CourseID {
	return r.studentPicks[s][p-1]
}

func (r *Roster) CourseByLabel(label string) (*Course, bool) {
	id, ok := r.courseIndex[label]
	if !ok {
		return nil, false
	}
	return r.Courses[id], true
}
