/*
reloader.go - Periodic custom calendar reload

PURPOSE:
  Keeps the holiday registry in step with the calendar store when several
  server instances share one database. Writes through this server sync
  immediately; the reloader picks up writes made elsewhere.

DESIGN:
  - Runs a background goroutine with a configurable interval
  - Loads once on start, then on every tick
  - A failed load is logged and retried on the next tick

USAGE:
  reloader := NewCalendarReloader(store, 5*time.Minute)
  reloader.Start()
  // ... later
  reloader.Stop()

SEE ALSO:
  - store/sqlite/sqlite.go: LoadAll
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"
)

// CalendarLoader registers stored calendars with the holiday registry.
type CalendarLoader interface {
	LoadAll(ctx context.Context) (int, error)
}

// CalendarReloader periodically reloads stored calendars.
type CalendarReloader struct {
	Loader   CalendarLoader
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCalendarReloader creates a reloader. A non-positive interval disables it.
func NewCalendarReloader(loader CalendarLoader, interval time.Duration) *CalendarReloader {
	return &CalendarReloader{
		Loader:   loader,
		Interval: interval,
		Enabled:  interval > 0,
	}
}

// Start begins reloading in the background.
func (cr *CalendarReloader) Start() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.Enabled {
		log.Println("[Reloader] Disabled, not starting")
		return
	}
	if cr.ticker != nil {
		return
	}

	cr.ticker = time.NewTicker(cr.Interval)
	cr.stop = make(chan struct{})
	cr.wg.Add(1)

	go cr.run(cr.ticker.C, cr.stop)

	log.Printf("[Reloader] Started with interval: %v", cr.Interval)
}

// Stop stops the reloader and waits for an in-flight load to finish.
func (cr *CalendarReloader) Stop() {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if cr.ticker != nil {
		cr.ticker.Stop()
		close(cr.stop)
		cr.wg.Wait()
		cr.ticker = nil
		log.Println("[Reloader] Stopped")
	}
}

func (cr *CalendarReloader) run(tick <-chan time.Time, stop <-chan struct{}) {
	defer cr.wg.Done()

	cr.RunNow()

	for {
		select {
		case <-tick:
			cr.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow reloads immediately and returns how many calendars were loaded.
func (cr *CalendarReloader) RunNow() int {
	n, err := cr.Loader.LoadAll(context.Background())
	if err != nil {
		log.Printf("[Reloader] Error loading calendars: %v", err)
		return 0
	}
	return n
}
