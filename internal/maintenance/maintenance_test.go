package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecer struct {
	sql []string
	err error
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	return pgconn.CommandTag{}, r.err
}

func TestRefreshMaterializedViews(t *testing.T) {
	db := &recordingExecer{}
	require.NoError(t, RefreshMaterializedViews(context.Background(), db, nil))
	assert.Equal(t, []string{"REFRESH MATERIALIZED VIEW CONCURRENTLY mv_manager_goal_difference"}, db.sql)
}

func TestRefreshMaterializedViewsFails(t *testing.T) {
	db := &recordingExecer{err: errors.New("locked")}
	err := RefreshMaterializedViews(context.Background(), db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mv_manager_goal_difference")
}

func TestEveryZeroIntervalRunsOnce(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	err := Every(context.Background(), 0, "sync", func(context.Context) error {
		calls++
		return boom
	}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	done := make(chan error, 1)
	go func() {
		done <- Every(ctx, 10*time.Millisecond, "sync", func(context.Context) error {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return errors.New("failures are logged, not fatal")
		}, nil)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled task did not stop")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}
