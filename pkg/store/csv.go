package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

// File names written by CSVStore.
const (
	EventsFile  = "events.csv"
	SummaryFile = "daily_summary.csv"
	GrowthFile  = "growth.csv"
)

// Files lists every file a CSVStore may serve.
var Files = []string{EventsFile, SummaryFile, GrowthFile}

var (
	eventHeader = []string{"date", "datetime", "time", "category", "type", "detail", "value", "unit",
		"baby_name", "age_years", "age_months", "age_days"}
	summaryHeader = []string{"date", "baby_name", "age_years", "age_months", "age_days",
		"breastfeed_left", "breastfeed_right", "milk_count", "milk_amount", "sleep_minutes",
		"pee_count", "poop_count", "vomit_count", "vomit_level_sum"}
	growthHeader = []string{"date", "datetime", "type", "value", "unit",
		"baby_name", "age_years", "age_months", "age_days"}
)

// CSVStore keeps the three record sets as CSV files in one directory.
type CSVStore struct {
	dir string
}

// NewCSVStore creates the data directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

// Path returns the location of one of Files.
func (s *CSVStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Close is a no-op.
func (s *CSVStore) Close() error {
	return nil
}

// Save writes all three files. Each file is written to a temporary name and
// renamed into place.
func (s *CSVStore) Save(ctx context.Context, set record.Set) error {
	for _, name := range Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		header, rows, _ := table(name, set)
		if err := s.writeFile(name, header, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV renders one of Files for set to w.
func WriteCSV(w io.Writer, name string, set record.Set) error {
	header, rows, ok := table(name, set)
	if !ok {
		return fmt.Errorf("unknown csv file %q", name)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	return cw.WriteAll(rows)
}

// table returns the header and rows of the named file.
func table(name string, set record.Set) ([]string, [][]string, bool) {
	switch name {
	case EventsFile:
		return eventHeader, eventRows(set.Events), true
	case SummaryFile:
		return summaryHeader, summaryRows(set.Summaries), true
	case GrowthFile:
		return growthHeader, growthRows(set.Growth), true
	}
	return nil, nil, false
}

func eventRows(events []record.Event) [][]string {
	rows := make([][]string, len(events))
	for i, ev := range events {
		rows[i] = append([]string{
			ev.Date.Format(record.DateLayout),
			ev.Timestamp.Format(record.TimestampLayout),
			ev.Time,
			string(ev.Category),
			ev.RawType,
			ev.RawDetail,
			formatValue(ev.Value),
			string(ev.Unit),
			ev.Subject,
		}, formatAge(ev.Age)...)
	}
	return rows
}

func summaryRows(summaries []record.DailySummary) [][]string {
	rows := make([][]string, len(summaries))
	for i, d := range summaries {
		row := append([]string{d.Date.Format(record.DateLayout), d.Subject}, formatAge(d.Age)...)
		rows[i] = append(row,
			strconv.Itoa(d.BreastfeedLeft),
			strconv.Itoa(d.BreastfeedRight),
			strconv.Itoa(d.MilkCount),
			strconv.Itoa(d.MilkAmount),
			strconv.Itoa(d.SleepMinutes),
			strconv.Itoa(d.PeeCount),
			strconv.Itoa(d.PoopCount),
			strconv.Itoa(d.VomitCount),
			strconv.FormatFloat(d.VomitLevelSum, 'f', -1, 64),
		)
	}
	return rows
}

func growthRows(growth []record.GrowthRecord) [][]string {
	rows := make([][]string, len(growth))
	for i, g := range growth {
		rows[i] = append([]string{
			g.Date.Format(record.DateLayout),
			g.Timestamp.Format(record.TimestampLayout),
			string(g.Type),
			strconv.FormatFloat(g.Value, 'f', -1, 64),
			string(g.Unit),
			g.Subject,
		}, formatAge(g.Age)...)
	}
	return rows
}

func (s *CSVStore) writeFile(name string, header []string, rows [][]string) error {
	path := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

// Load reads all three files. ErrEmpty is returned when the events file
// does not exist.
func (s *CSVStore) Load(ctx context.Context) (record.Set, error) {
	var set record.Set

	eventRows, err := s.readFile(EventsFile, eventHeader)
	if errors.Is(err, fs.ErrNotExist) {
		return set, ErrEmpty
	}
	if err != nil {
		return set, err
	}
	for i, row := range eventRows {
		ev, err := parseEventRow(row)
		if err != nil {
			return set, fmt.Errorf("%s row %d: %w", EventsFile, i+2, err)
		}
		set.Events = append(set.Events, ev)
	}

	if err := ctx.Err(); err != nil {
		return set, err
	}

	summaryRows, err := s.readFile(SummaryFile, summaryHeader)
	if err != nil {
		return set, err
	}
	for i, row := range summaryRows {
		d, err := parseSummaryRow(row)
		if err != nil {
			return set, fmt.Errorf("%s row %d: %w", SummaryFile, i+2, err)
		}
		set.Summaries = append(set.Summaries, d)
	}

	growthRows, err := s.readFile(GrowthFile, growthHeader)
	if err != nil {
		return set, err
	}
	for i, row := range growthRows {
		g, err := parseGrowthRow(row)
		if err != nil {
			return set, fmt.Errorf("%s row %d: %w", GrowthFile, i+2, err)
		}
		set.Growth = append(set.Growth, g)
	}

	return set, nil
}

// readFile returns the data rows of a file after checking its header.
func (s *CSVStore) readFile(name string, header []string) ([][]string, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: missing header", name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("%s: column %d is %q, want %q", name, i+1, got[i], header[i])
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return rows, nil
}

func parseEventRow(row []string) (record.Event, error) {
	date, ts, err := parseTimes(row[0], row[1])
	if err != nil {
		return record.Event{}, err
	}
	category, err := record.ParseCategory(row[3])
	if err != nil {
		return record.Event{}, err
	}
	unit, err := record.ParseUnit(row[7])
	if err != nil {
		return record.Event{}, err
	}
	value, err := parseValue(row[6])
	if err != nil {
		return record.Event{}, err
	}
	age, err := parseAge(row[9:12])
	if err != nil {
		return record.Event{}, err
	}
	return record.Event{
		Date:      date,
		Timestamp: ts,
		Time:      row[2],
		Category:  category,
		RawType:   row[4],
		RawDetail: row[5],
		Value:     value,
		Unit:      unit,
		Subject:   row[8],
		Age:       age,
	}, nil
}

func parseSummaryRow(row []string) (record.DailySummary, error) {
	date, err := time.Parse(record.DateLayout, row[0])
	if err != nil {
		return record.DailySummary{}, err
	}
	age, err := parseAge(row[2:5])
	if err != nil {
		return record.DailySummary{}, err
	}

	ints := make([]int, 8)
	for i := range ints {
		if ints[i], err = strconv.Atoi(row[5+i]); err != nil {
			return record.DailySummary{}, fmt.Errorf("column %s: %w", summaryHeader[5+i], err)
		}
	}
	levelSum, err := strconv.ParseFloat(row[13], 64)
	if err != nil {
		return record.DailySummary{}, fmt.Errorf("column vomit_level_sum: %w", err)
	}

	return record.DailySummary{
		Date:            date,
		Subject:         row[1],
		Age:             age,
		BreastfeedLeft:  ints[0],
		BreastfeedRight: ints[1],
		MilkCount:       ints[2],
		MilkAmount:      ints[3],
		SleepMinutes:    ints[4],
		PeeCount:        ints[5],
		PoopCount:       ints[6],
		VomitCount:      ints[7],
		VomitLevelSum:   levelSum,
	}, nil
}

func parseGrowthRow(row []string) (record.GrowthRecord, error) {
	date, ts, err := parseTimes(row[0], row[1])
	if err != nil {
		return record.GrowthRecord{}, err
	}
	value, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return record.GrowthRecord{}, fmt.Errorf("column value: %w", err)
	}
	unit, err := record.ParseUnit(row[4])
	if err != nil {
		return record.GrowthRecord{}, err
	}
	age, err := parseAge(row[6:9])
	if err != nil {
		return record.GrowthRecord{}, err
	}
	return record.GrowthRecord{
		Date:      date,
		Timestamp: ts,
		Type:      record.GrowthType(row[2]),
		Value:     value,
		Unit:      unit,
		Subject:   row[5],
		Age:       age,
	}, nil
}

func parseTimes(date, ts string) (time.Time, time.Time, error) {
	d, err := time.Parse(record.DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	t, err := time.Parse(record.TimestampLayout, ts)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, t, nil
}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseValue(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("column value: %w", err)
	}
	return &v, nil
}

func formatAge(a record.Age) []string {
	return []string{strconv.Itoa(a.Years), strconv.Itoa(a.Months), strconv.Itoa(a.Days)}
}

func parseAge(cols []string) (record.Age, error) {
	var n [3]int
	for i, c := range cols {
		v, err := strconv.Atoi(c)
		if err != nil {
			return record.Age{}, fmt.Errorf("age column: %w", err)
		}
		n[i] = v
	}
	return record.Age{Years: n[0], Months: n[1], Days: n[2]}, nil
}
