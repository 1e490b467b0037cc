package calendar

import (
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/datekey"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// MidnightWatcher re-derives "today" at every local midnight and notifies
// the registered listeners with the new date key.
type MidnightWatcher struct {
	cron  *cron.Cron
	clock datekey.Clock

	mu        sync.Mutex
	today     string
	listeners []func(today string)
}

func NewMidnightWatcher(loc *time.Location, clock datekey.Clock) *MidnightWatcher {
	if loc == nil {
		loc = time.Local
	}
	return &MidnightWatcher{
		cron:  cron.New(cron.WithLocation(loc)),
		clock: clock,
		today: datekey.Key(clock.Now().In(loc)),
	}
}

func (w *MidnightWatcher) OnDayChange(listener func(today string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, listener)
}

func (w *MidnightWatcher) Today() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.today
}

func (w *MidnightWatcher) Start() error {
	if _, err := w.cron.AddFunc("@midnight", w.Check); err != nil {
		return err
	}
	w.cron.Start()
	return nil
}

// Stop waits for a running check to finish.
func (w *MidnightWatcher) Stop() {
	<-w.cron.Stop().Done()
}

// Check compares the wall clock date with the last seen one and notifies
// listeners when the day changed.
func (w *MidnightWatcher) Check() {
	w.mu.Lock()
	now := datekey.Key(w.clock.Now().In(w.cron.Location()))
	if now == w.today {
		w.mu.Unlock()
		return
	}
	log.Debugf("[midnight watcher] day changed: %s -> %s", w.today, now)
	w.today = now
	listeners := append([]func(string){}, w.listeners...)
	w.mu.Unlock()

	for _, l := range listeners {
		l(now)
	}
}
