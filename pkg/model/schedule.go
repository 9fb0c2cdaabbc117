package model

// Slot is one period of a student's schedule.
type Slot struct {
	Course *Course
	Rank   int
	Weight int
}

type StudentSchedule struct {
	Student *Student
	Slots   []*Slot // Slots[p-1], nil when nothing is assigned in the period
}

type CourseRoster struct {
	Course   *Course
	Students []*Student
}

type Schedule struct {
	Students    []*StudentSchedule
	Courses     []*CourseRoster
	PeriodCount int
	Objective   int
}

type ScheduleCSVRow struct {
	Student string `csv:"student"`
	Period  int    `csv:"period"`
	Course  string `csv:"course"`
	Rank    int    `csv:"rank"`
	Marks   string `csv:"marks"`
}

type RosterCSVRow struct {
	Course  string `csv:"course"`
	Period  int    `csv:"period"`
	Student string `csv:"student"`
	Rank    int    `csv:"rank"`
}

/* NewSchedule creates an empty schedule for the given students and courses. */
func NewSchedule(students []*Student, courses []*Course, periodCount int) *Schedule {
	schedule := Schedule{
		Students:    make([]*StudentSchedule, len(students)),
		Courses:     make([]*CourseRoster, len(courses)),
		PeriodCount: periodCount,
	}
	for i, s := range students {
		schedule.Students[i] = &StudentSchedule{Student: s, Slots: make([]*Slot, periodCount)}
	}
	for i, c := range courses {
		schedule.Courses[i] = &CourseRoster{Course: c}
	}
	return &schedule
}

// Enrollment returns the number of students placed in each course.
func (s *Schedule) Enrollment() map[CourseID]int {
	counts := make(map[CourseID]int, len(s.Courses))
	for _, c := range s.Courses {
		counts[c.Course.ID] = len(c.Students)
	}
	return counts
}
