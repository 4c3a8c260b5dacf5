// Package query is the client-side data-fetching layer: a keyed runner that
// caches responses, retries transient failures with backoff, de-duplicates
// concurrent fetches of the same resource, and supports per-key aborts.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/helixdash/helixdash/internal/api"
	"github.com/helixdash/helixdash/internal/logging"
)

// ErrDisabled is returned when a fetch is requested with Enabled unset.
var ErrDisabled = errors.New("query disabled")

// Options configure a single fetch, mirroring the per-call knobs the
// dashboard views use.
type Options struct {
	// Enabled gates the fetch entirely; a disabled query never touches the
	// network or the cache.
	Enabled bool
	// Retry is the number of additional attempts after the first failure.
	Retry int
	// StaleAfter is how long a cached value is served without refetching.
	// Zero means cached values are always considered stale.
	StaleAfter time.Duration
}

// FetchFunc produces the raw (JSON-encoded) value for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Result is the outcome of a fetch.
type Result struct {
	Data      []byte
	FromCache bool
	FetchedAt time.Time
}

const retryBaseDelay = 200 * time.Millisecond

// Runner executes keyed fetches. Concurrent fetches of the same key share a
// single network call; a key's in-flight call can be aborted.
type Runner struct {
	cache *Cache
	log   logging.Logger

	group singleflight.Group

	mu       sync.Mutex
	inflight map[string]context.CancelFunc

	now func() time.Time // test seam
}

// NewRunner builds a Runner. cache may be nil to run without persistence;
// log may be nil.
func NewRunner(cache *Cache, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{
		cache:    cache,
		log:      log,
		inflight: make(map[string]context.CancelFunc),
		now:      time.Now,
	}
}

// Fetch resolves key: fresh cache first, then a de-duplicated, retried call
// to fn. When the network fails and a stale cached value exists, the stale
// value is served and the failure only logged.
func (r *Runner) Fetch(ctx context.Context, key string, opts Options, fn FetchFunc) (Result, error) {
	if !opts.Enabled {
		return Result{}, ErrDisabled
	}

	cached, cachedAt, cacheErr := r.lookup(ctx, key)
	if cacheErr == nil && opts.StaleAfter > 0 && r.now().Sub(cachedAt) < opts.StaleAfter {
		return Result{Data: cached, FromCache: true, FetchedAt: cachedAt}, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		// The fetch is shared by every concurrent caller, so it is detached
		// from any single caller's cancellation and tied to Abort instead.
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		defer cancel()
		r.register(key, cancel)
		defer r.unregister(key)

		var data []byte
		backoff := retry.WithMaxRetries(uint64(opts.Retry), retry.NewExponential(retryBaseDelay))
		err := retry.Do(fctx, backoff, func(ctx context.Context) error {
			d, ferr := fn(ctx)
			if ferr != nil {
				if errors.Is(ferr, api.ErrUnauthorized) || errors.Is(ferr, context.Canceled) {
					return ferr
				}
				return retry.RetryableError(ferr)
			}
			data = d
			return nil
		})
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if perr := r.cache.Put(fctx, key, data, r.now()); perr != nil {
				r.log.Warn(fctx, "query cache write failed", "key", key, "err", perr)
			}
		}
		return data, nil
	})

	if err != nil {
		if cacheErr == nil {
			r.log.Warn(ctx, "fetch failed, serving stale cache", "key", key, "err", err)
			return Result{Data: cached, FromCache: true, FetchedAt: cachedAt}, nil
		}
		return Result{}, err
	}

	return Result{Data: v.([]byte), FetchedAt: r.now()}, nil
}

// Abort cancels the in-flight fetch for key, if any. Callers blocked on the
// shared fetch observe a context.Canceled error (or stale cache fallback).
func (r *Runner) Abort(key string) {
	r.mu.Lock()
	cancel := r.inflight[key]
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Invalidate drops the cached value for key so the next fetch hits the
// network.
func (r *Runner) Invalidate(ctx context.Context, key string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Delete(ctx, key)
}

func (r *Runner) lookup(ctx context.Context, key string) ([]byte, time.Time, error) {
	if r.cache == nil {
		return nil, time.Time{}, ErrCacheMiss
	}
	return r.cache.Get(ctx, key)
}

func (r *Runner) register(key string, cancel context.CancelFunc) {
	r.mu.Lock()
	r.inflight[key] = cancel
	r.mu.Unlock()
}

func (r *Runner) unregister(key string) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

// Fetch is the typed convenience wrapper used by the service layer: values
// round-trip through JSON so they can live in the cache.
func Fetch[T any](ctx context.Context, r *Runner, key string, opts Options, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	res, err := r.Fetch(ctx, key, opts, func(ctx context.Context) ([]byte, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return zero, fmt.Errorf("decode cached value for %s: %w", key, err)
	}
	return out, nil
}
