// Package storage persists the journal as string values under fixed keys.
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrInvalidSettings = errors.New("invalid settings")
)

// KV is a string key-value store. Get returns ErrKeyNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryKV keeps values in a map. Used by tests and as a scratch store.
type MemoryKV struct {
	mutex  sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values: map[string]string{},
	}
}

func (kv *MemoryKV) Get(_ context.Context, key string) (string, error) {
	kv.mutex.RLock()
	defer kv.mutex.RUnlock()
	v, ok := kv.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (kv *MemoryKV) Set(_ context.Context, key, value string) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	kv.values[key] = value
	return nil
}

func (kv *MemoryKV) Delete(_ context.Context, key string) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	delete(kv.values, key)
	return nil
}

func (kv *MemoryKV) Keys() []string {
	kv.mutex.RLock()
	defer kv.mutex.RUnlock()
	keys := make([]string, 0, len(kv.values))
	for k := range kv.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type scopedKV struct {
	kv     KV
	prefix string
}

// Scoped namespaces every key of kv under prefix, e.g. one prefix per user.
func Scoped(kv KV, prefix string) KV {
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &scopedKV{kv: kv, prefix: prefix}
}

func (s *scopedKV) Get(ctx context.Context, key string) (string, error) {
	return s.kv.Get(ctx, s.prefix+key)
}

func (s *scopedKV) Set(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.prefix+key, value)
}

func (s *scopedKV) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.prefix+key)
}
