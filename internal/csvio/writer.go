package csvio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rhyrak/pick-scheduler/pkg/model"
)

// TeachingSlot marks a period without an assigned course.
const TeachingSlot = "Teaching"

// ExportSchedule formats the schedule into ScheduleCSVRow structs and
// writes it to the CSV file specified by the given path.
func ExportSchedule(schedule *model.Schedule, path string) (string, error) {
	nice := formatSchedule(schedule)
	if err := writeRows(&nice, path); err != nil {
		return "", err
	}
	return path, nil
}

// ExportRosters writes one row per (course, student) placement.
func ExportRosters(schedule *model.Schedule, path string) (string, error) {
	nice := formatRosters(schedule)
	if err := writeRows(&nice, path); err != nil {
		return "", err
	}
	return path, nil
}

func writeRows(rows any, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer out.Close()
	if err := gocsv.MarshalFile(rows, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Marks repeats "!" once per rank position.
func Marks(rank int) string {
	if rank < 1 {
		return ""
	}
	return strings.Repeat("!", rank)
}

// PrintSchedule writes one line per student followed by one block per course.
func PrintSchedule(w io.Writer, schedule *model.Schedule) {
	for _, s := range schedule.Students {
		cols := make([]string, 0, len(s.Student.Key)+len(s.Slots))
		cols = append(cols, s.Student.Key...)
		for _, slot := range s.Slots {
			if slot == nil {
				cols = append(cols, TeachingSlot)
				continue
			}
			cols = append(cols, slot.Course.Label+Marks(slot.Rank))
		}
		fmt.Fprintln(w, strings.Join(cols, ", "))
	}
	fmt.Fprintln(w)
	enrollment := schedule.Enrollment()
	for _, c := range schedule.Courses {
		fmt.Fprintf(w, "%s (%d)\n", c.Course.Label, enrollment[c.Course.ID])
		for _, s := range c.Students {
			fmt.Fprintf(w, "    %s\n", strings.Join(s.Key, ", "))
		}
		fmt.Fprintln(w)
	}
}

func formatSchedule(schedule *model.Schedule) []*model.ScheduleCSVRow {
	formatted := make([]*model.ScheduleCSVRow, 0, len(schedule.Students)*schedule.PeriodCount)
	for _, s := range schedule.Students {
		for i, slot := range s.Slots {
			row := &model.ScheduleCSVRow{
				Student: s.Student.Name(),
				Period:  i + 1,
				Course:  TeachingSlot,
			}
			if slot != nil {
				row.Course = slot.Course.Label
				row.Rank = slot.Rank
				row.Marks = Marks(slot.Rank)
			}
			formatted = append(formatted, row)
		}
	}
	return formatted
}

func formatRosters(schedule *model.Schedule) []*model.RosterCSVRow {
	var formatted []*model.RosterCSVRow
	for _, c := range schedule.Courses {
		for _, s := range c.Students {
			rank := 0
			if slot := schedule.Students[s.ID].Slots[c.Course.Period-1]; slot != nil {
				rank = slot.Rank
			}
			formatted = append(formatted, &model.RosterCSVRow{
				Course:  c.Course.Label,
				Period:  int(c.Course.Period),
				Student: s.Name(),
				Rank:    rank,
			})
		}
	}
	return formatted
}
