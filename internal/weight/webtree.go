package weight

import (
	"fmt"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

const (
	WebtreeSlots    = 25
	WebtreeBranches = 7
)

type WebtreeOptions struct {
	TreeBase       []int // base weight of branch 1 of each tree
	YearMultiplier map[model.ClassYear]int
	PrimaryMajor   int
	SecondaryMajor int
}

func DefaultWebtreeOptions() WebtreeOptions {
	return WebtreeOptions{
		TreeBase: []int{40, 30, 20, 10},
		YearMultiplier: map[model.ClassYear]int{
			model.Senior:           4,
			model.Junior:           3,
			model.Sophomore:        2,
			model.FirstYear:        1,
			model.ClassYearUnknown: 1,
		},
		// Major match multipliers are kept configurable but have no effect by default.
		PrimaryMajor:   1,
		SecondaryMajor: 1,
	}
}

// Webtree weighs a position in a student's 25 slot tree list. Position p
// belongs to tree (p-1)/7+1 and branch (p-1)%7+1.
type Webtree struct {
	opts WebtreeOptions
}

// NewWebtree rejects multipliers below 1: they would push a real weight to or
// below model.Ineligible and break the rank ordering.
func NewWebtree(opts WebtreeOptions) (Webtree, error) {
	if err := opts.Check(); err != nil {
		return Webtree{}, err
	}
	return Webtree{opts: opts}, nil
}

func (o WebtreeOptions) Check() error {
	if len(o.TreeBase) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidConfig, "webtree needs at least one tree base")
	}
	for i, b := range o.TreeBase {
		if b < 1 {
			return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("webtree base %d of tree %d is below 1", b, i+1))
		}
	}
	for year, m := range o.YearMultiplier {
		if m < 1 {
			return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("%s multiplier %d is below 1", year, m))
		}
	}
	if o.PrimaryMajor < 1 || o.SecondaryMajor < 1 {
		return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("major multipliers %d/%d must be at least 1", o.PrimaryMajor, o.SecondaryMajor))
	}
	return nil
}

func (Webtree) Kind() Kind { return KindWebtree }

// Position splits a slot position into its tree and branch.
func Position(pos int) (tree int, branch int) {
	return (pos-1)/WebtreeBranches + 1, (pos-1)%WebtreeBranches + 1
}

func (w Webtree) Weight(pos int, student *model.Student, course *model.Course) int {
	if pos < 1 || pos > WebtreeSlots {
		return model.Ineligible
	}
	tree, branch := Position(pos)
	if tree > len(w.opts.TreeBase) {
		return model.Ineligible
	}
	base := w.opts.TreeBase[tree-1] - (branch - 1)
	if base <= 0 {
		return model.Ineligible
	}

	year := 1
	if student != nil {
		if m, ok := w.opts.YearMultiplier[student.ClassYear]; ok {
			year = m
		}
	}
	major := 1
	if student != nil && course != nil {
		switch {
		case course.MatchesMajor(student.Major):
			major = w.opts.PrimaryMajor
		case course.MatchesMajor(student.SecondMajor):
			major = w.opts.SecondaryMajor
		}
	}
	return base * year * major
}
