// Package weight converts submitted ranks into objective utilities.
package weight

import (
	"fmt"
	"strings"

	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

type Kind string

const (
	KindLinear      Kind = "linear"
	KindExponential Kind = "exponential"
	KindWebtree     Kind = "webtree"
)

// Policy maps a rank to an integer utility. Weight returns model.Ineligible
// for ranks the policy does not support.
type Policy interface {
	Kind() Kind
	Weight(rank int, student *model.Student, course *model.Course) int
}

type Options struct {
	ExponentBase int // K in 2^(K-rank)
	Webtree      WebtreeOptions
}

func DefaultOptions() Options {
	return Options{
		ExponentBase: 5,
		Webtree:      DefaultWebtreeOptions(),
	}
}

// New returns the policy selected by name.
func New(name string, opts Options) (Policy, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(name))) {
	case KindLinear, "":
		return Linear{}, nil
	case KindExponential, "exp":
		if opts.ExponentBase < 1 || opts.ExponentBase > 30 {
			return nil, appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("exponent base %d outside 1..30", opts.ExponentBase))
		}
		return Exponential{K: opts.ExponentBase}, nil
	case KindWebtree:
		return NewWebtree(opts.Webtree)
	}
	return nil, appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("unknown weight policy %q", name))
}

var linearTable = map[int]int{1: 10, 2: 9, 3: 7, 4: 2, 5: 1}

// Linear uses a fixed lookup table for ranks 1 to 5.
type Linear struct{}

func (Linear) Kind() Kind { return KindLinear }

func (Linear) Weight(rank int, _ *model.Student, _ *model.Course) int {
	if w, ok := linearTable[rank]; ok {
		return w
	}
	return model.Ineligible
}

// Exponential weighs rank r as 2^(K-r) for 1 <= r <= K.
type Exponential struct {
	K int
}

func (Exponential) Kind() Kind { return KindExponential }

func (e Exponential) Weight(rank int, _ *model.Student, _ *model.Course) int {
	if rank < 1 || rank > e.K {
		return model.Ineligible
	}
	return 1 << (e.K - rank)
}
