package social

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/workouts"

	log "github.com/sirupsen/logrus"
)

const defaultPublishTimeout = 5 * time.Second

type dayPublisher interface {
	SharesWorkouts(ctx context.Context, userID string) (bool, error)
	UpsertDay(ctx context.Context, userID, date string, day workouts.WorkoutDay) error
	DeleteDay(ctx context.Context, userID, date string) error
}

// dayLane orders the publishes of one (user, date). Only the goroutine
// holding the latest generation writes; older ones are dropped.
type dayLane struct {
	mutex  sync.Mutex
	latest uint64
	refs   int
}

// Publisher mirrors saved days into the shared feed in the background.
// A failed publish is logged and counted, never reported to the saver.
type Publisher struct {
	repo           dayPublisher
	timeout        time.Duration
	metricsManager *metrics.Manager
	wg             sync.WaitGroup

	mutex sync.Mutex
	seq   uint64
	lanes map[string]*dayLane
}

func NewPublisher(repo dayPublisher, metricsManager *metrics.Manager) *Publisher {
	return &Publisher{
		repo:           repo,
		timeout:        defaultPublishTimeout,
		metricsManager: metricsManager,
		lanes:          map[string]*dayLane{},
	}
}

// Publish shares the day, or withdraws it when the day is empty.
func (p *Publisher) Publish(userID, date string, day workouts.WorkoutDay) {
	shared := ShareableDay(day)
	key := userID + "/" + date
	lane, gen := p.enterLane(key)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.leaveLane(key, lane)

		lane.mutex.Lock()
		defer lane.mutex.Unlock()
		if p.stale(lane, gen) {
			log.Tracef("[publisher] day %s of [%s] superseded, skipping", date, userID)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.publish(ctx, userID, date, shared); err != nil {
			log.Errorf("[publisher] publish day %s of [%s]: %s", date, userID, err)
			if p.metricsManager != nil {
				p.metricsManager.CounterPublishesFailed.Inc()
			}
		}
	}()
}

func (p *Publisher) enterLane(key string) (*dayLane, uint64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	lane, ok := p.lanes[key]
	if !ok {
		lane = &dayLane{}
		p.lanes[key] = lane
	}
	p.seq++
	lane.latest = p.seq
	lane.refs++
	return lane, p.seq
}

func (p *Publisher) stale(lane *dayLane, gen uint64) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return lane.latest != gen
}

func (p *Publisher) leaveLane(key string, lane *dayLane) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	lane.refs--
	if lane.refs == 0 {
		delete(p.lanes, key)
	}
}

func (p *Publisher) publish(ctx context.Context, userID, date string, day workouts.WorkoutDay) error {
	shares, err := p.repo.SharesWorkouts(ctx, userID)
	if err != nil {
		return err
	}
	if !shares {
		return nil
	}
	if len(day.Entries) == 0 && !day.PB {
		return p.repo.DeleteDay(ctx, userID, date)
	}
	return p.repo.UpsertDay(ctx, userID, date, day)
}

// Wait blocks until all started publishes are done.
func (p *Publisher) Wait() {
	p.wg.Wait()
}
