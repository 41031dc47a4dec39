package clean

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Columns is the header of the competitive results file. competition holds
// the normalized trophy.
var Columns = []string{
	"match_id", "competition", "stage", "date", "manager", "manager_type",
	"opponent", "h_a", "gf", "ga", "gd", "manager_gd", "cum_gd",
}

// WriteCSV writes rows with a header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			string(r.MatchID),
			r.Trophy,
			string(r.Stage),
			r.Date.Format(time.DateOnly),
			r.Manager,
			r.ManagerType,
			r.Opponent,
			string(r.Side),
			strconv.Itoa(r.GoalsFor),
			strconv.Itoa(r.GoalsAgainst),
			strconv.Itoa(r.GoalDiff),
			strconv.Itoa(r.ManagerGD),
			strconv.Itoa(r.CumGD),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path through a temporary file.
func WriteFile(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
