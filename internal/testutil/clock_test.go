package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendarClock_StartsOnGivenDay(t *testing.T) {
	clock := NewCalendarClock(2024, time.March, 1)
	assert.Equal(t, "2024-03-01", clock.Today().Format("2006-01-02"))
}

func TestCalendarClock_TodayIsStable(t *testing.T) {
	clock := NewCalendarClock(2024, time.March, 1)
	assert.Equal(t, clock.Today(), clock.Today())
}

func TestCalendarClock_Advance(t *testing.T) {
	clock := NewCalendarClock(2024, time.February, 28)

	clock.Advance(1)
	assert.Equal(t, "2024-02-29", clock.Today().Format("2006-01-02"))

	clock.Advance(1)
	assert.Equal(t, "2024-03-01", clock.Today().Format("2006-01-02"))

	clock.Advance(-2)
	assert.Equal(t, "2024-02-28", clock.Today().Format("2006-01-02"))
}

func TestCalendarClock_SetDropsTimeOfDay(t *testing.T) {
	clock := NewCalendarClock(2024, time.January, 1)
	clock.Set(time.Date(2025, time.July, 9, 17, 45, 3, 0, time.UTC))

	got := clock.Today()
	assert.Equal(t, "2025-07-09", got.Format("2006-01-02"))
	assert.Zero(t, got.Hour())
	assert.Zero(t, got.Minute())
}

func TestCalendarClock_ThreadSafe(t *testing.T) {
	clock := NewCalendarClock(2024, time.January, 1)
	const numGoroutines = 50

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			clock.Advance(1)
			_ = clock.Today()
		}()
	}
	wg.Wait()

	assert.Equal(t, "2024-02-20", clock.Today().Format("2006-01-02"))
}
