package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rhyrak/pick-scheduler/internal/csvio"
)

func main() {
	opts := csvio.DefaultGenerateOptions()
	var out string
	var seed int64

	cmd := &cobra.Command{
		Use:          "generate",
		Short:        "Write a random roster of course picks",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := csvio.GenerateRoster(f, opts, rand.New(rand.NewSource(seed))); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d students to %s (seed %d)\n", opts.Students, out, seed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.Students, "students", opts.Students, "number of students")
	flags.IntVar(&opts.Periods, "periods", opts.Periods, "number of periods")
	flags.IntVar(&opts.CoursesPerPeriod, "courses", opts.CoursesPerPeriod, "courses offered per period")
	flags.IntVar(&opts.PicksPerPeriod, "picks", opts.PicksPerPeriod, "ranked picks per student and period")
	flags.Float64Var(&opts.TeachingRate, "teaching-rate", opts.TeachingRate, "chance a student leaves a period empty")
	flags.Int64Var(&seed, "seed", 0, "random seed, 0 picks one from the clock")
	flags.StringVarP(&out, "out", "o", "AutomatedCoursePicks.csv", "output file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
