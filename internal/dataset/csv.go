package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/gdtracker/internal/provider"
)

// Columns is the persisted column order.
var Columns = []string{
	"match_id", "competition", "date", "manager", "manager_type",
	"opponent", "h_a", "gf", "ga", "gd",
}

// dateLayouts are accepted when reading; legacy files carry a time part.
var dateLayouts = []string{time.DateOnly, time.DateTime, time.RFC3339}

// WriteCSV writes rows with a header in Columns order.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			string(r.MatchID),
			r.Competition,
			r.Date.Format(time.DateOnly),
			r.Manager,
			r.ManagerType,
			r.Opponent,
			string(r.Side),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			strconv.Itoa(r.GoalDiff),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write match %s: %w", r.MatchID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows by header name. Unknown columns, such as a leading
// unnamed index column, are ignored.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range Columns {
		if _, ok := pos[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row, err := parseRecord(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string, pos map[string]int) (Row, error) {
	field := func(name string) string {
		i := pos[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return Row{}, err
	}
	side, err := provider.ParseSide(field("h_a"))
	if err != nil {
		return Row{}, err
	}
	gf, err := atoi("gf", field("gf"))
	if err != nil {
		return Row{}, err
	}
	ga, err := atoi("ga", field("ga"))
	if err != nil {
		return Row{}, err
	}
	gd, err := atoi("gd", field("gd"))
	if err != nil {
		return Row{}, err
	}

	return Row{
		MatchID:      provider.MatchID(field("match_id")),
		Competition:  field("competition"),
		Date:         date,
		Manager:      field("manager"),
		ManagerType:  field("manager_type"),
		Opponent:     field("opponent"),
		Side:         side,
		GoalsFor:     gf,
		GoalsAgainst: ga,
		GoalDiff:     gd,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return provider.TruncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad date %q", s)
}

// atoi also accepts pandas float renderings such as "2.0".
func atoi(name, s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", name, s)
	}
	return int(f), nil
}
