package scheduler

import (
	"fmt"
	"time"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

type Configuration struct {
	Capacity           model.Capacity
	EnforceMinCapacity bool
	SolverTimeout      time.Duration
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		Capacity:           model.Capacity{Min: 5, Max: 10},
		EnforceMinCapacity: true,
	}
}

// Check rejects capacity bounds that no course could satisfy.
func (c *Configuration) Check() error {
	if c.Capacity.Min < 0 || c.Capacity.Max < c.Capacity.Min {
		return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("default capacity [%d,%d] is empty", c.Capacity.Min, c.Capacity.Max))
	}
	if c.SolverTimeout < 0 {
		return appErrors.Clone(appErrors.ErrInvalidConfig, "solver timeout is negative")
	}
	return nil
}

// CapacityFor resolves the bounds enforced for a course.
func (c *Configuration) CapacityFor(course *model.Course) model.Capacity {
	bounds := c.Capacity
	if course.Capacity != nil {
		bounds = *course.Capacity
	}
	if !c.EnforceMinCapacity {
		bounds.Min = 0
	}
	return bounds
}
