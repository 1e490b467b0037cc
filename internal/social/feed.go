package social

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultFeedDays  = 14
	DefaultFeedLimit = 100
)

type feedSource interface {
	FeedDays(ctx context.Context, userID, sinceDate string, limit int) ([]FeedItem, error)
}

// Feed serves friends' shared days, cached per viewer for a short TTL.
type Feed struct {
	source feedSource
	cache  *freecache.Cache
	ttl    time.Duration
	days   int
	limit  int
}

func NewFeed(source feedSource, cacheSizeBytes int, ttl time.Duration) *Feed {
	return &Feed{
		source: source,
		cache:  freecache.NewCache(cacheSizeBytes),
		ttl:    ttl,
		days:   DefaultFeedDays,
		limit:  DefaultFeedLimit,
	}
}

func cacheKey(userID, today string) []byte {
	return []byte(fmt.Sprintf("feed::%s::%s", userID, today))
}

// Get returns the viewer's feed covering the days up to today.
func (f *Feed) Get(ctx context.Context, userID, today string) (_ []FeedItem, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "social.feed.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := cacheKey(userID, today)
	if cached, err := f.cache.Get(key); err == nil {
		var items []FeedItem
		if err := json.Unmarshal(cached, &items); err == nil {
			log.Tracef("[feed] cache hit for [%s]", userID)
			return items, nil
		} else {
			log.Errorf("[feed] unmarshal cached feed of [%s]: %s", userID, err)
		}
	}

	since, err := datekey.AddDays(today, -(f.days - 1))
	if err != nil {
		return nil, err
	}
	items, err := f.source.FeedDays(ctx, userID, since, f.limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := f.cache.Set(key, data, int(f.ttl.Seconds())); err != nil {
			log.Errorf("[feed] cache feed of [%s]: %s", userID, err)
		}
	}
	return items, nil
}

// Invalidate drops the viewer's cached feed for today.
func (f *Feed) Invalidate(userID, today string) {
	f.cache.Del(cacheKey(userID, today))
}

// Clear drops every cached feed. Runs when the day changes.
func (f *Feed) Clear() {
	f.cache.Clear()
}
