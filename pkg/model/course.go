package model

import "strings"

type CourseID int

type Period int

// Capacity is the allowed enrollment range of a course.
type Capacity struct {
	Min int
	Max int
}

type Course struct {
	ID       CourseID
	Label    string // header label, e.g. "P2 MATH 101 Calculus"
	Name     string // label without the period tag
	Period   Period
	Column   int // roster column index
	Subject  string
	Number   string
	Capacity *Capacity // nil uses the configured default
}

// CapacityCSV is a per-course capacity override row.
type CapacityCSV struct {
	Course string `csv:"course"`
	Min    int    `csv:"min"`
	Max    int    `csv:"max"`
}

// MatchesMajor reports whether the course subject equals the given major.
func (c *Course) MatchesMajor(major string) bool {
	if c.Subject == "" || major == "" {
		return false
	}
	return strings.EqualFold(c.Subject, strings.TrimSpace(major))
}
