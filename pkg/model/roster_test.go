package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
)

func TestRosterAssignsDenseIds(t *testing.T) {
	r := NewRoster(2)
	art, err := r.AddCourse(&Course{Label: "P1 ART", Period: 1})
	require.NoError(t, err)
	gym, err := r.AddCourse(&Course{Label: "P2 GYM", Period: 2})
	require.NoError(t, err)
	assert.Equal(t, CourseID(0), art)
	assert.Equal(t, CourseID(1), gym)

	ada, err := r.AddStudent(&Student{Key: []string{"Ada", "Lovelace"}, ClassYear: Senior})
	require.NoError(t, err)
	alan, err := r.AddStudent(&Student{Key: []string{"Alan", "Turing"}})
	require.NoError(t, err)
	assert.Equal(t, StudentID(0), ada)
	assert.Equal(t, StudentID(1), alan)
	assert.Equal(t, 1, r.ClassYearTotals[Senior])
	assert.Equal(t, 1, r.ClassYearTotals[ClassYearUnknown])

	r.SetPick(art, ada, 1, 10)
	r.SetPick(gym, ada, 9, Ineligible)

	assert.True(t, r.Pick(art, ada).Eligible())
	assert.False(t, r.Pick(gym, ada).Eligible())
	assert.True(t, r.Pick(gym, ada).Ranked)
	assert.False(t, r.Pick(art, alan).Ranked)
	assert.Equal(t, []CourseID{art}, r.Picks(ada, 1))
	assert.Empty(t, r.Picks(ada, 2))
}

func TestRosterCollisions(t *testing.T) {
	r := NewRoster(1)
	_, err := r.AddCourse(&Course{Label: "P1 ART", Period: 1, Column: 3})
	require.NoError(t, err)
	_, err = r.AddCourse(&Course{Label: "P1 ART", Period: 1, Column: 4})
	assert.True(t, errors.Is(err, appErrors.ErrIdentityCollision))

	_, err = r.AddCourse(&Course{Label: "P2 GYM", Period: 2})
	assert.True(t, errors.Is(err, appErrors.ErrMalformedInput))

	_, err = r.AddStudent(&Student{Key: []string{"Ada", "Lovelace"}})
	require.NoError(t, err)
	_, err = r.AddStudent(&Student{Key: []string{"Ada", "Lovelace"}})
	assert.True(t, errors.Is(err, appErrors.ErrIdentityCollision))

	_, err = r.AddStudent(&Student{Key: []string{"Ada Lovelace", ""}})
	assert.NoError(t, err)

	_, err = r.AddCourse(&Course{Label: "P1 MATH", Period: 1})
	assert.Error(t, err)
}

func TestParseClassYear(t *testing.T) {
	assert.Equal(t, Senior, ParseClassYear(" Senior "))
	assert.Equal(t, Junior, ParseClassYear("jr"))
	assert.Equal(t, FirstYear, ParseClassYear("first-year"))
	assert.Equal(t, ClassYearUnknown, ParseClassYear("postdoc"))
	assert.Equal(t, "sophomore", Sophomore.String())
}

func TestCourseMatchesMajor(t *testing.T) {
	c := &Course{Subject: "MATH"}
	assert.True(t, c.MatchesMajor(" math"))
	assert.False(t, c.MatchesMajor("ART"))
	assert.False(t, (&Course{}).MatchesMajor("MATH"))
}

func TestScheduleEnrollment(t *testing.T) {
	courses := []*Course{{ID: 0, Label: "P1 ART"}, {ID: 1, Label: "P1 MATH"}}
	students := []*Student{{ID: 0, Key: []string{"Ada"}}}
	s := NewSchedule(students, courses, 2)
	s.Courses[0].Students = append(s.Courses[0].Students, students[0])

	assert.Equal(t, map[CourseID]int{0: 1, 1: 0}, s.Enrollment())
	assert.Len(t, s.Students[0].Slots, 2)
}
