package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rhyrak/pick-scheduler/internal/weight"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

type rosterFixture struct {
	periods int
	courses []string         // labels, period taken from the "P<n>" prefix
	ranks   map[string][]int // student name -> rank per course, 0 = blank
	order   []string
}

func buildRoster(t *testing.T, fx rosterFixture) *model.Roster {
	t.Helper()
	roster := model.NewRoster(fx.periods)
	for i, label := range fx.courses {
		_, err := roster.AddCourse(&model.Course{Label: label, Period: model.Period(label[1] - '0'), Column: i})
		require.NoError(t, err)
	}
	policy := weight.Linear{}
	for _, name := range fx.order {
		student := &model.Student{Key: []string{name}}
		id, err := roster.AddStudent(student)
		require.NoError(t, err)
		for c, rank := range fx.ranks[name] {
			if rank == 0 {
				continue
			}
			roster.SetPick(model.CourseID(c), id, rank, policy.Weight(rank, student, roster.Courses[c]))
		}
	}
	return roster
}

// bruteForce enumerates every assignment. Only usable for tiny models.
type bruteForce struct{}

func (bruteForce) Solve(_ context.Context, m *Model) (*Solution, error) {
	n := m.NumVars()
	best := -1
	var bestValues []bool
	values := make([]bool, n)
	for mask := 0; mask < 1<<n; mask++ {
		for i := range values {
			values[i] = mask&(1<<i) != 0
		}
		ok := true
		for _, c := range m.Constraints {
			if !c.Satisfied(values) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if obj := m.Evaluate(values); obj > best {
			best = obj
			bestValues = append([]bool(nil), values...)
		}
	}
	if bestValues == nil {
		return &Solution{Status: StatusInfeasible}, nil
	}
	return &Solution{Status: StatusOptimal, Values: bestValues, Objective: best}, nil
}

type fixedSolver struct {
	sol *Solution
}

func (f fixedSolver) Solve(context.Context, *Model) (*Solution, error) {
	return f.sol, nil
}

func swapFixture() rosterFixture {
	return rosterFixture{
		periods: 1,
		courses: []string{"P1 X", "P1 Y"},
		order:   []string{"A", "B"},
		ranks: map[string][]int{
			"A": {1, 2},
			"B": {2, 1},
		},
	}
}

func tightConfig() *Configuration {
	cfg := NewDefaultConfiguration()
	cfg.Capacity = model.Capacity{Min: 1, Max: 1}
	return cfg
}

func TestBuildModelEmitsConstraints(t *testing.T) {
	roster := buildRoster(t, rosterFixture{
		periods: 2,
		courses: []string{"P1 X", "P1 Y", "P2 Z"},
		order:   []string{"A", "B"},
		ranks: map[string][]int{
			"A": {1, 2, 1},
			"B": {0, 1, 0}, // B teaches in period 2
		},
	})
	m := BuildModel(roster, NewDefaultConfiguration())

	assert.Equal(t, 6, m.NumVars())
	counts := m.Count()
	assert.Equal(t, 2, counts[KindPin])
	assert.Equal(t, 3, counts[KindExactlyOne])
	assert.Equal(t, 3, counts[KindCapacityMax])
	assert.Equal(t, 3, counts[KindCapacityMin])

	for _, c := range m.Constraints {
		if c.Kind == KindExactlyOne {
			assert.False(t, c.Student == 1 && c.Period == 2, "no exactly-one for an empty period")
		}
	}

	v := m.Var(2, 1)
	assert.Equal(t, VarID(2*len(m.Roster.Students)+1), v)
	assert.Equal(t, model.Ineligible, m.Weights[v])

	for _, term := range m.Objective {
		assert.Greater(t, term.Coef, 0)
	}
	assert.Len(t, m.Objective, 4)
}

func TestCapacityFor(t *testing.T) {
	cfg := NewDefaultConfiguration()
	course := &model.Course{}
	assert.Equal(t, model.Capacity{Min: 5, Max: 10}, cfg.CapacityFor(course))

	course.Capacity = &model.Capacity{Min: 2, Max: 3}
	assert.Equal(t, model.Capacity{Min: 2, Max: 3}, cfg.CapacityFor(course))

	cfg.EnforceMinCapacity = false
	assert.Equal(t, model.Capacity{Min: 0, Max: 3}, cfg.CapacityFor(course))

	m := BuildModel(buildRoster(t, swapFixture()), cfg)
	assert.Zero(t, m.Count()[KindCapacityMin])
}

func TestConfigurationCheck(t *testing.T) {
	cfg := NewDefaultConfiguration()
	require.NoError(t, cfg.Check())
	cfg.Capacity = model.Capacity{Min: 4, Max: 3}
	assert.True(t, errors.Is(cfg.Check(), appErrors.ErrInvalidConfig))
}

func TestRunSwapScenario(t *testing.T) {
	roster := buildRoster(t, swapFixture())
	res, err := Run(context.Background(), roster, tightConfig(), bruteForce{}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 20, res.Solution.Objective)
	assert.Equal(t, 20, res.Schedule.Objective)
	assert.Equal(t, "P1 X", res.Schedule.Students[0].Slots[0].Course.Label)
	assert.Equal(t, "P1 Y", res.Schedule.Students[1].Slots[0].Course.Label)
	assert.Equal(t, 1, res.Schedule.Students[0].Slots[0].Rank)
	assert.Equal(t, StatusOptimal, res.Diagnostics.Status)
}

func TestRunUnreachableFloorIsInfeasible(t *testing.T) {
	roster := buildRoster(t, rosterFixture{
		periods: 1,
		courses: []string{"P1 X"},
		order:   []string{"A"},
		ranks:   map[string][]int{"A": {1}},
	})
	cfg := NewDefaultConfiguration()
	cfg.Capacity = model.Capacity{Min: 2, Max: 2}

	res, err := Run(context.Background(), roster, cfg, bruteForce{}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInfeasible))
	assert.Nil(t, res.Schedule)
	assert.Equal(t, StatusInfeasible, res.Diagnostics.Status)
}

func TestRunTeachingPeriod(t *testing.T) {
	roster := buildRoster(t, rosterFixture{
		periods: 2,
		courses: []string{"P1 X", "P2 Z"},
		order:   []string{"A"},
		ranks:   map[string][]int{"A": {1, 0}},
	})
	cfg := NewDefaultConfiguration()
	cfg.EnforceMinCapacity = false

	res, err := Run(context.Background(), roster, cfg, bruteForce{}, zap.NewNop())
	require.NoError(t, err)
	slots := res.Schedule.Students[0].Slots
	require.NotNil(t, slots[0])
	assert.Nil(t, slots[1])
	assert.Empty(t, res.Schedule.Courses[1].Students)
}

func TestRunSurfacesIncompleteSearch(t *testing.T) {
	roster := buildRoster(t, swapFixture())
	m := BuildModel(roster, tightConfig())
	values := make([]bool, m.NumVars())
	values[m.Var(0, 1)] = true
	values[m.Var(1, 0)] = true

	res, err := Run(context.Background(), roster, tightConfig(), fixedSolver{&Solution{
		Status:    StatusFeasible,
		Values:    values,
		Objective: 18,
	}}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrIncomplete))
	require.NotNil(t, res.Schedule)
	assert.Equal(t, 18, res.Schedule.Objective)
}

func TestRunSurfacesEmptySearch(t *testing.T) {
	roster := buildRoster(t, swapFixture())
	_, err := Run(context.Background(), roster, tightConfig(), fixedSolver{&Solution{Status: StatusUnknown}}, zap.NewNop())
	assert.True(t, errors.Is(err, appErrors.ErrNoSolution))
}

func TestRunRejectsInvalidAssignment(t *testing.T) {
	roster := buildRoster(t, swapFixture())
	m := BuildModel(roster, tightConfig())
	values := make([]bool, m.NumVars())
	values[m.Var(0, 0)] = true
	values[m.Var(0, 1)] = true

	_, err := Run(context.Background(), roster, tightConfig(), fixedSolver{&Solution{
		Status:    StatusOptimal,
		Values:    values,
		Objective: m.Evaluate(values),
	}}, zap.NewNop())
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestValidateReportsEachCheck(t *testing.T) {
	roster := buildRoster(t, rosterFixture{
		periods: 1,
		courses: []string{"P1 X", "P1 Y"},
		order:   []string{"A", "B"},
		ranks: map[string][]int{
			"A": {1, 0},
			"B": {1, 2},
		},
	})
	m := BuildModel(roster, tightConfig())

	good := make([]bool, m.NumVars())
	good[m.Var(0, 0)] = true
	good[m.Var(1, 1)] = true
	valid, msg := Validate(m, good, m.Evaluate(good))
	assert.True(t, valid, msg)
	assert.NotContains(t, msg, "[FAIL]")

	bad := make([]bool, m.NumVars())
	bad[m.Var(1, 0)] = true // A never ranked Y
	bad[m.Var(0, 1)] = true
	bad[m.Var(1, 1)] = true // B twice in period 1, Y over capacity
	valid, msg = Validate(m, bad, 0)
	assert.False(t, valid)
	assert.Contains(t, msg, "[FAIL]: Ineligibility check.")
	assert.Contains(t, msg, "[FAIL]: Exactly one per period check.")
	assert.Contains(t, msg, "[FAIL]: Capacity check.")
	assert.Contains(t, msg, "[FAIL]: Objective consistency check.")

	valid, _ = Validate(m, good[:1], 0)
	assert.False(t, valid)
}

func TestProjectBuildsRosters(t *testing.T) {
	roster := buildRoster(t, swapFixture())
	m := BuildModel(roster, tightConfig())
	values := make([]bool, m.NumVars())
	values[m.Var(0, 0)] = true
	values[m.Var(1, 1)] = true

	schedule := Project(m, values)
	require.Len(t, schedule.Courses, 2)
	assert.Equal(t, []*model.Student{roster.Students[0]}, schedule.Courses[0].Students)
	assert.Equal(t, []*model.Student{roster.Students[1]}, schedule.Courses[1].Students)
	assert.Equal(t, map[model.CourseID]int{0: 1, 1: 1}, schedule.Enrollment())
	assert.Equal(t, 20, schedule.Objective)
}
