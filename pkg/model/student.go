package model

import "strings"

type StudentID int

type ClassYear int

const (
	ClassYearUnknown ClassYear = iota
	FirstYear
	Sophomore
	Junior
	Senior
)

var classYearNames = map[string]ClassYear{
	"senior":     Senior,
	"sr":         Senior,
	"12":         Senior,
	"junior":     Junior,
	"jr":         Junior,
	"11":         Junior,
	"sophomore":  Sophomore,
	"so":         Sophomore,
	"10":         Sophomore,
	"first-year": FirstYear,
	"first year": FirstYear,
	"freshman":   FirstYear,
	"fy":         FirstYear,
	"9":          FirstYear,
}

// ParseClassYear maps a roster cell to a class year tier. Unrecognised values are ClassYearUnknown.
func ParseClassYear(s string) ClassYear {
	return classYearNames[strings.ToLower(strings.TrimSpace(s))]
}

func (y ClassYear) String() string {
	switch y {
	case Senior:
		return "senior"
	case Junior:
		return "junior"
	case Sophomore:
		return "sophomore"
	case FirstYear:
		return "first-year"
	}
	return "unknown"
}

type Student struct {
	ID          StudentID
	Key         []string // identity columns as read
	ClassYear   ClassYear
	Major       string
	SecondMajor string
}

// Name joins the identity fields for display.
func (s *Student) Name() string {
	return strings.Join(s.Key, " ")
}
