package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
)

type GenerateOptions struct {
	Students         int
	Periods          int
	CoursesPerPeriod int
	PicksPerPeriod   int
	TeachingRate     float64 // chance that a student leaves a period empty
}

func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Students:         160,
		Periods:          4,
		CoursesPerPeriod: 20,
		PicksPerPeriod:   5,
	}
}

var namePool = []string{"ada", "bo", "cy", "di", "ed", "flo", "gus", "hal", "ivy", "jo", "kit", "lu", "max", "ned", "oz", "pia"}

// GenerateRoster writes a random roster in the layout LoadRoster reads.
func GenerateRoster(w io.Writer, opts GenerateOptions, rng *rand.Rand) error {
	if opts.PicksPerPeriod > opts.CoursesPerPeriod {
		return fmt.Errorf("cannot pick %d of %d courses", opts.PicksPerPeriod, opts.CoursesPerPeriod)
	}
	out := csv.NewWriter(w)

	header := []string{"First", "Last", "Email"}
	for p := 1; p <= opts.Periods; p++ {
		for c := 1; c <= opts.CoursesPerPeriod; c++ {
			header = append(header, fmt.Sprintf("P%d Course %d", p, (p-1)*opts.CoursesPerPeriod+c))
		}
	}
	if err := out.Write(header); err != nil {
		return err
	}

	for i := 0; i < opts.Students; i++ {
		first := namePool[rng.Intn(len(namePool))]
		last := namePool[rng.Intn(len(namePool))]
		row := []string{first, last, fmt.Sprintf("%s.%s.%d@example.edu", first, last, i)}
		for p := 0; p < opts.Periods; p++ {
			cells := make([]string, opts.CoursesPerPeriod)
			if rng.Float64() >= opts.TeachingRate {
				for rank, c := range rng.Perm(opts.CoursesPerPeriod)[:opts.PicksPerPeriod] {
					cells[c] = strconv.Itoa(rank + 1)
				}
			}
			row = append(row, cells...)
		}
		if err := out.Write(row); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
