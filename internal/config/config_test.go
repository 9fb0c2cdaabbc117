package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/pick-scheduler/internal/weight"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "linear", cfg.Policy)
	assert.Equal(t, ',', cfg.Roster.Delimiter)
	assert.Equal(t, 3, cfg.Roster.IdentityColumns)
	assert.Equal(t, 4, cfg.Roster.PeriodCount)
	assert.Equal(t, model.Capacity{Min: 5, Max: 10}, cfg.Scheduler.Capacity)
	assert.True(t, cfg.Scheduler.EnforceMinCapacity)
	assert.Zero(t, cfg.Scheduler.SolverTimeout)
	assert.Equal(t, 5, cfg.Weights.ExponentBase)
	assert.Equal(t, 1, cfg.Weights.Webtree.PrimaryMajor)
	assert.Equal(t, 4, cfg.Weights.Webtree.YearMultiplier[model.Senior])

	policy, err := cfg.PolicyFor()
	require.NoError(t, err)
	assert.Equal(t, weight.KindLinear, policy.Kind())
}

func TestLoadOverrides(t *testing.T) {
	v := New()
	v.Set("EXP_WEIGHTING", true)
	v.Set("EXP_BASE", 6)
	v.Set("CSV_DELIMITER", ";")
	v.Set("CAPACITY_MIN", 2)
	v.Set("CAPACITY_MAX", 4)
	v.Set("ENFORCE_MIN_CAPACITY", false)
	v.Set("SOLVER_TIMEOUT", "90s")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "exponential", cfg.Policy)
	assert.Equal(t, ';', cfg.Roster.Delimiter)
	assert.Equal(t, model.Capacity{Min: 2, Max: 4}, cfg.Scheduler.Capacity)
	assert.False(t, cfg.Scheduler.EnforceMinCapacity)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.SolverTimeout)

	policy, err := cfg.PolicyFor()
	require.NoError(t, err)
	assert.Equal(t, 32, policy.Weight(1, nil, nil))
}

func TestLoadRejectsBadValues(t *testing.T) {
	v := New()
	v.Set("CSV_DELIMITER", ";;")
	_, err := Load(v)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	v = New()
	v.Set("CAPACITY_MIN", 8)
	v.Set("CAPACITY_MAX", 3)
	_, err = Load(v)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	v = New()
	v.Set("SOLVER_TIMEOUT", "30")
	_, err = Load(v)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	v = New()
	v.Set("WEBTREE_PRIMARY_MAJOR_MULTIPLIER", -1)
	_, err = Load(v)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	v = New()
	v.Set("WEBTREE_SENIOR_MULTIPLIER", 0)
	_, err = Load(v)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))

	v = New()
	v.Set("WEIGHT_POLICY", "lottery")
	cfg, err := Load(v)
	require.NoError(t, err)
	_, err = cfg.PolicyFor()
	assert.True(t, errors.Is(err, appErrors.ErrInvalidConfig))
}
