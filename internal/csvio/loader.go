package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rhyrak/pick-scheduler/internal/weight"
	appErrors "github.com/rhyrak/pick-scheduler/pkg/errors"
	"github.com/rhyrak/pick-scheduler/pkg/model"
)

// Course columns with shorter labels are not real courses.
const minLabelLength = 3

type RosterOptions struct {
	Delimiter         rune
	IdentityColumns   int
	PeriodCount       int
	ClassYearColumn   string
	MajorColumn       string
	SecondMajorColumn string
}

func DefaultRosterOptions() RosterOptions {
	return RosterOptions{
		Delimiter:         ',',
		IdentityColumns:   3,
		PeriodCount:       4,
		ClassYearColumn:   "Class Year",
		MajorColumn:       "Major",
		SecondMajorColumn: "Second Major",
	}
}

func malformed(format string, args ...any) error {
	return appErrors.Clone(appErrors.ErrMalformedInput, fmt.Sprintf(format, args...))
}

func newReader(in io.Reader, delim rune) *csv.Reader {
	r := csv.NewReader(in)
	r.Comma = delim
	r.TrimLeadingSpace = true
	return r
}

// LoadRosterFile reads and parses the given roster file.
func LoadRosterFile(path string, opts RosterOptions, policy weight.Policy) (*model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer f.Close()
	return LoadRoster(f, opts, policy)
}

// LoadRoster parses a roster table and weighs every submitted rank with policy.
// Any malformed cell fails the whole load.
func LoadRoster(in io.Reader, opts RosterOptions, policy weight.Policy) (*model.Roster, error) {
	if opts.IdentityColumns < 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfig, "roster needs at least one identity column")
	}
	if opts.PeriodCount < 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfig, "roster needs at least one period")
	}

	r := newReader(in, opts.Delimiter)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed("roster is empty")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, "read roster header")
	}
	if len(header) < opts.IdentityColumns {
		return nil, malformed("roster header has %d columns, expected at least %d identity columns", len(header), opts.IdentityColumns)
	}

	roster := model.NewRoster(opts.PeriodCount)
	for i := opts.IdentityColumns; i < len(header); i++ {
		label := strings.TrimSpace(header[i])
		if len(label) < minLabelLength {
			continue
		}
		course, err := parseCourseLabel(label, opts.PeriodCount)
		if err != nil {
			return nil, err
		}
		course.Column = i
		if _, err := roster.AddCourse(course); err != nil {
			return nil, err
		}
	}

	attrs := attributeColumns(header[:opts.IdentityColumns], opts)

	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, fmt.Sprintf("read roster line %d", line))
		}
		if isBlank(record) {
			continue
		}
		if err := addStudentRow(roster, record, line, opts, attrs, policy); err != nil {
			return nil, err
		}
	}
	return roster, nil
}

// parseCourseLabel reads "P<n> <name>" labels.
func parseCourseLabel(label string, periodCount int) (*model.Course, error) {
	fields := strings.Fields(label)
	period, ok := parsePeriodTag(fields[0], periodCount)
	if !ok {
		return nil, malformed("course %q does not start with a period tag P1..P%d", label, periodCount)
	}
	course := &model.Course{
		Label:  label,
		Name:   strings.Join(fields[1:], " "),
		Period: period,
	}
	if len(fields) > 1 {
		course.Subject = fields[1]
	}
	if len(fields) > 2 {
		course.Number = fields[2]
	}
	return course, nil
}

func parsePeriodTag(tag string, periodCount int) (model.Period, bool) {
	if len(tag) < 2 || (tag[0] != 'P' && tag[0] != 'p') {
		return 0, false
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 || n > periodCount {
		return 0, false
	}
	return model.Period(n), true
}

type attributeIndex struct {
	classYear   int
	major       int
	secondMajor int
}

func attributeColumns(prefix []string, opts RosterOptions) attributeIndex {
	find := func(name string) int {
		if name == "" {
			return -1
		}
		for i, h := range prefix {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	return attributeIndex{
		classYear:   find(opts.ClassYearColumn),
		major:       find(opts.MajorColumn),
		secondMajor: find(opts.SecondMajorColumn),
	}
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func addStudentRow(roster *model.Roster, record []string, line int, opts RosterOptions, attrs attributeIndex, policy weight.Policy) error {
	key := make([]string, opts.IdentityColumns)
	empty := true
	for i := range key {
		key[i] = cell(record, i)
		if key[i] != "" {
			empty = false
		}
	}
	if empty {
		return malformed("line %d has no identity fields", line)
	}

	student := &model.Student{
		Key:         key,
		ClassYear:   model.ParseClassYear(cell(record, attrs.classYear)),
		Major:       cell(record, attrs.major),
		SecondMajor: cell(record, attrs.secondMajor),
	}
	id, err := roster.AddStudent(student)
	if err != nil {
		return err
	}

	for _, course := range roster.Courses {
		value := cell(record, course.Column)
		if value == "" {
			continue
		}
		rank, err := strconv.Atoi(value)
		if err != nil {
			return malformed("line %d column %q: rank %q is not an integer", line, course.Label, value)
		}
		roster.SetPick(course.ID, id, rank, policy.Weight(rank, student, course))
	}
	return nil
}

// LoadCapacitiesFile applies per-course capacity overrides from a "course,min,max" file.
func LoadCapacitiesFile(path string, delim rune, roster *model.Roster) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capacities %s: %w", path, err)
	}
	defer f.Close()
	return LoadCapacities(f, delim, roster)
}

func LoadCapacities(in io.Reader, delim rune, roster *model.Roster) error {
	rows := []*model.CapacityCSV{}
	if err := gocsv.UnmarshalCSV(newReader(in, delim), &rows); err != nil {
		return appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, "parse capacities")
	}
	for _, row := range rows {
		label := strings.TrimSpace(row.Course)
		course, ok := roster.CourseByLabel(label)
		if !ok {
			return malformed("capacity given for unknown course %q", label)
		}
		if row.Min < 0 || row.Max < row.Min {
			return appErrors.Clone(appErrors.ErrInvalidConfig, fmt.Sprintf("course %q has capacity [%d,%d]", label, row.Min, row.Max))
		}
		course.Capacity = &model.Capacity{Min: row.Min, Max: row.Max}
	}
	return nil
}
