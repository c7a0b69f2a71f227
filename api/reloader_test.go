package api

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/convention-engine/dates"
	"github.com/warp/convention-engine/holiday"
	"github.com/warp/convention-engine/name"
	"github.com/warp/convention-engine/store/sqlite"
)

type countingLoader struct {
	calls atomic.Int32
	err   error
}

func (l *countingLoader) LoadAll(ctx context.Context) (int, error) {
	l.calls.Add(1)
	return 3, l.err
}

func TestCalendarReloader_LoadsOnStartAndTick(t *testing.T) {
	loader := &countingLoader{}
	reloader := NewCalendarReloader(loader, 10*time.Millisecond)

	reloader.Start()
	require.Eventually(t, func() bool { return loader.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	reloader.Stop()

	// no loads after Stop returns
	stopped := loader.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, loader.calls.Load())

	// Stop is idempotent
	reloader.Stop()
}

func TestCalendarReloader_Restart(t *testing.T) {
	loader := &countingLoader{}
	reloader := NewCalendarReloader(loader, time.Hour)

	reloader.Start()
	require.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	reloader.Stop()

	reloader.Start()
	require.Eventually(t, func() bool { return loader.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	reloader.Stop()
}

func TestCalendarReloader_Disabled(t *testing.T) {
	loader := &countingLoader{}
	reloader := NewCalendarReloader(loader, 0)

	reloader.Start()
	reloader.Stop()

	assert.False(t, reloader.Enabled)
	assert.Zero(t, loader.calls.Load())
}

func TestCalendarReloader_RunNow(t *testing.T) {
	assert.Equal(t, 3, NewCalendarReloader(&countingLoader{}, 0).RunNow())
	assert.Equal(t, 0, NewCalendarReloader(&countingLoader{err: errors.New("disk gone")}, 0).RunNow())
}

func TestCalendarReloader_PicksUpStoreWrites(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	desk := name.MustNew("ReloaderTestDesk")
	t.Cleanup(func() { holiday.Unregister(desk) })

	// GIVEN: a calendar written straight to the store, bypassing the API
	require.NoError(t, store.SaveHoliday(ctx, desk, holiday.Entry{Date: dates.MustParse("2024-03-05")}))
	_, err = holiday.Of("ReloaderTestDesk")
	require.ErrorIs(t, err, holiday.ErrNotFound)

	// WHEN: the reloader runs
	assert.Equal(t, 1, NewCalendarReloader(store, time.Minute).RunNow())

	// THEN: the calendar resolves
	cal, err := holiday.Of("ReloaderTestDesk")
	require.NoError(t, err)
	assert.True(t, cal.IsHoliday(dates.MustParse("2024-03-05")))
}
