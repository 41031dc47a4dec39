package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/gdtracker/internal/provider"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(id string, date time.Time) Row {
	return Row{
		MatchID: provider.MatchID(id), Competition: "Premier League", Date: date,
		Manager: "David Moyes", ManagerType: "Permanent", Opponent: "Swansea",
		Side: provider.Away, GoalsFor: 4, GoalsAgainst: 1, GoalDiff: 3,
	}
}

func TestAppendRejectsDuplicates(t *testing.T) {
	ds, err := New(row("1", day(2013, 8, 17)))
	require.NoError(t, err)

	err = ds.Append(row("1", day(2013, 8, 26)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, 1, ds.Len())
	assert.True(t, ds.Contains("1"))
	assert.False(t, ds.Contains("2"))
}

func TestAppendRejectsEmptyID(t *testing.T) {
	var ds Dataset
	assert.Error(t, ds.Append(Row{}))
}

func TestRowsSortedByDateStable(t *testing.T) {
	ds, err := New(
		row("3", day(2014, 1, 1)),
		row("1", day(2013, 8, 17)),
		row("2a", day(2013, 9, 1)),
		row("2b", day(2013, 9, 1)),
	)
	require.NoError(t, err)

	rows := ds.Rows()
	var ids []string
	for _, r := range rows {
		ids = append(ids, string(r.MatchID))
	}
	assert.Equal(t, []string{"1", "2a", "2b", "3"}, ids)

	newest, ok := ds.Newest()
	require.True(t, ok)
	assert.Equal(t, provider.MatchID("3"), newest.MatchID)
}

func TestCSVWriteRead(t *testing.T) {
	in := []Row{row("4", day(2013, 8, 17)), row("5", day(2013, 8, 26))}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "match_id,competition,date,manager,manager_type,opponent,h_a,gf,ga,gd", firstLine)

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadCSVLegacyPandasLayout(t *testing.T) {
	legacy := ",match_id,competition,date,manager,manager_type,opponent,h_a,gf,ga,gd\n" +
		"0,1236016,Community Shield,2013-08-11 00:00:00,David Moyes,Permanent,Wigan,h,2.0,0.0,2.0\n"

	rows, err := ReadCSV(strings.NewReader(legacy))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, provider.MatchID("1236016"), rows[0].MatchID)
	assert.Equal(t, day(2013, 8, 11), rows[0].Date)
	assert.Equal(t, provider.Home, rows[0].Side)
	assert.Equal(t, 2, rows[0].GoalDiff)
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("match_id,date\n1,2013-08-11\n"))
	assert.Error(t, err, "missing columns")

	bad := strings.Join(Columns, ",") + "\n1,PL,yesterday,M,Permanent,X,h,1,0,1\n"
	_, err = ReadCSV(strings.NewReader(bad))
	assert.Error(t, err, "bad date")

	rows, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(t.TempDir(), "results")
	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStoreSaveWritesSnapshotAndLatest(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "data"), "results")
	ds, err := New(row("2", day(2013, 9, 1)), row("1", day(2013, 8, 17)))
	require.NoError(t, err)

	at := time.Date(2025, 3, 10, 8, 4, 5, 0, time.UTC)
	snapshot, err := store.Save(ds, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "results_extracted_20250310080405.csv"), snapshot)

	snapBytes, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	latestBytes, err := os.ReadFile(store.LatestPath())
	require.NoError(t, err)
	assert.Equal(t, snapBytes, latestBytes)

	loaded, err := store.Load()
	require.NoError(t, err)
	rows := loaded.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, provider.MatchID("1"), rows[0].MatchID)

	snaps, err := store.Snapshots()
	require.NoError(t, err)
	assert.Len(t, snaps, 1)

	_, err = os.Stat(store.LatestPath() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreLoadRejectsDuplicateFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "results")
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{row("1", day(2013, 8, 17)), row("1", day(2013, 8, 18))}))
	require.NoError(t, os.WriteFile(store.LatestPath(), buf.Bytes(), 0o644))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestNilStore(t *testing.T) {
	var store *FileStore
	_, err := store.Load()
	assert.Error(t, err)
	_, err = store.Save(&Dataset{}, time.Now())
	assert.Error(t, err)
}

func TestFileStoreModified(t *testing.T) {
	store := NewFileStore(t.TempDir(), "results")
	_, err := store.Modified()
	require.ErrorIs(t, err, ErrNotFound)

	ds, err := New()
	require.NoError(t, err)
	_, err = store.Save(ds, time.Date(2025, 3, 10, 8, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	stamp := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(store.LatestPath(), stamp, stamp))
	mod, err := store.Modified()
	require.NoError(t, err)
	assert.True(t, mod.Equal(stamp))
}
