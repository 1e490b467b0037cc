package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/workouts"

	"github.com/cespare/xxhash/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultDebounce = 1200 * time.Millisecond

type backupWriter interface {
	Upsert(ctx context.Context, b Backup) error
}

type pendingBackup struct {
	timer *time.Timer
	gen   uint64
	data  []byte
	days  int
}

// Debouncer coalesces backup requests per user. Every Schedule call restarts
// the user's timer and replaces the pending snapshot, so only the latest one
// gets written. A snapshot whose hash equals the last written one is skipped.
// Writes of one user are serialized and a snapshot older than the last
// written one is dropped.
type Debouncer struct {
	writer         backupWriter
	delay          time.Duration
	writeTimeout   time.Duration
	metricsManager *metrics.Manager
	now            func() time.Time

	mutex      sync.Mutex
	seq        uint64
	pending    map[string]*pendingBackup
	lastHash   map[string]uint64
	writtenGen map[string]uint64
	userLocks  map[string]*sync.Mutex
	inFlight   sync.WaitGroup
}

func NewDebouncer(writer backupWriter, delay time.Duration, metricsManager *metrics.Manager) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		writer:         writer,
		delay:          delay,
		writeTimeout:   10 * time.Second,
		metricsManager: metricsManager,
		now:            time.Now,
		pending:        map[string]*pendingBackup{},
		lastHash:       map[string]uint64{},
		writtenGen:     map[string]uint64{},
		userLocks:      map[string]*sync.Mutex{},
	}
}

// Schedule queues a backup of m for userID.
func (d *Debouncer) Schedule(userID string, m workouts.WorkoutMap) {
	data, err := json.Marshal(m)
	if err != nil {
		log.Errorf("[backup] marshal snapshot for [%s]: %s", userID, err)
		d.countFailed()
		return
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if p, ok := d.pending[userID]; ok {
		p.timer.Stop()
	}
	d.seq++
	p := &pendingBackup{gen: d.seq, data: data, days: len(m)}
	p.timer = time.AfterFunc(d.delay, func() {
		d.fire(userID, p)
	})
	d.pending[userID] = p
}

func (d *Debouncer) fire(userID string, p *pendingBackup) {
	d.mutex.Lock()
	if d.pending[userID] != p {
		// superseded by a newer schedule or taken by Flush
		d.mutex.Unlock()
		return
	}
	delete(d.pending, userID)
	d.inFlight.Add(1)
	d.mutex.Unlock()
	defer d.inFlight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.writeTimeout)
	defer cancel()
	if _, err := d.write(ctx, userID, p.gen, p.data, p.days, false); err != nil {
		log.Errorf("[backup] debounced write for [%s]: %s", userID, err)
	}
}

// Now writes m immediately, even when it matches the last written snapshot,
// and drops anything pending for the user.
func (d *Debouncer) Now(ctx context.Context, userID string, m workouts.WorkoutMap) (*Backup, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}

	d.mutex.Lock()
	if p, ok := d.pending[userID]; ok {
		p.timer.Stop()
		delete(d.pending, userID)
	}
	d.seq++
	gen := d.seq
	d.mutex.Unlock()

	return d.write(ctx, userID, gen, data, len(m), true)
}

// Cancel drops the pending backup of a user and forgets its last hash.
// Writes already in flight for the user are discarded.
func (d *Debouncer) Cancel(userID string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if p, ok := d.pending[userID]; ok {
		p.timer.Stop()
		delete(d.pending, userID)
	}
	delete(d.lastHash, userID)
	d.seq++
	d.writtenGen[userID] = d.seq
}

// Pending reports how many users have a backup waiting on their timer.
func (d *Debouncer) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.pending)
}

// Flush writes every pending backup right away and waits for writes already
// started by timers. Used on shutdown.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mutex.Lock()
	toWrite := d.pending
	d.pending = map[string]*pendingBackup{}
	for _, p := range toWrite {
		p.timer.Stop()
	}
	d.mutex.Unlock()

	log.Debugf("[backup] flushing %d pending backups", len(toWrite))
	for userID, p := range toWrite {
		if _, err := d.write(ctx, userID, p.gen, p.data, p.days, false); err != nil {
			log.Errorf("[backup] flush write for [%s]: %s", userID, err)
		}
	}

	d.inFlight.Wait()
}

func (d *Debouncer) userLock(userID string) *sync.Mutex {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	l, ok := d.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.userLocks[userID] = l
	}
	return l
}

func (d *Debouncer) write(ctx context.Context, userID string, gen uint64, data []byte, days int, force bool) (*Backup, error) {
	hash := xxhash.Sum64(data)

	l := d.userLock(userID)
	l.Lock()
	defer l.Unlock()

	d.mutex.Lock()
	last, seen := d.lastHash[userID]
	stale := gen < d.writtenGen[userID]
	d.mutex.Unlock()
	if stale {
		log.Debugf("[backup] snapshot of [%s] older than the written one, dropping", userID)
		return nil, nil
	}
	if !force && seen && last == hash {
		log.Tracef("[backup] snapshot of [%s] unchanged, skipping", userID)
		if d.metricsManager != nil {
			d.metricsManager.CounterBackupsSkipped.Inc()
		}
		return nil, nil
	}

	b := Backup{
		UserID:      userID,
		Data:        data,
		ContentHash: hash,
		Days:        days,
		UpdatedAt:   d.now(),
	}

	start := time.Now()
	err := d.writer.Upsert(ctx, b)
	if d.metricsManager != nil {
		d.metricsManager.HistBackupDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		d.countFailed()
		return nil, err
	}

	d.mutex.Lock()
	d.lastHash[userID] = hash
	if gen > d.writtenGen[userID] {
		d.writtenGen[userID] = gen
	}
	d.mutex.Unlock()
	if d.metricsManager != nil {
		d.metricsManager.CounterBackupsWritten.Inc()
	}

	log.Debugf("[backup] written for [%s], %d days", userID, days)
	return &b, nil
}

func (d *Debouncer) countFailed() {
	if d.metricsManager != nil {
		d.metricsManager.CounterBackupsFailed.Inc()
	}
}
