package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// ErrLockTimeout is returned when a calendar lock could not be taken in time.
var ErrLockTimeout = errors.New("calendar is busy, try again")

// releaseLockScript deletes the lock only if it still holds our token, so an
// expired holder never frees a lock that another request has since taken.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	RedisLockKeyPrefix = "lock:"

	// CalendarLockKey guards every write that changes occupied dates.
	CalendarLockKey = "calendar"

	lockRetryInterval  = 50 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second

	semaphoreCleanupInterval = 10 * time.Minute
	semaphoreStaleThreshold  = 10 * time.Minute
)

// BookingLockKey guards status transitions of a single booking.
func BookingLockKey(id uuid.UUID) string {
	return "booking:" + id.String()
}

// CalendarLocker serializes validate-then-commit windows.
type CalendarLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// CalendarLockService combines a process-local semaphore per key with a Redis
// lease, so requests in one process queue locally and replicas exclude each
// other through Redis. Both halves share the same wait budget.
//
// Lock ordering: local semaphore first, then the Redis lease.
type CalendarLockService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
	wait        time.Duration

	keyMu sync.Map // map[string]*keySemaphore

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

type keySemaphore struct {
	sem      *semaphore.Weighted
	lastUsed atomic.Int64
}

// NewCalendarLockService starts the background semaphore cleanup. Call Stop on shutdown.
func NewCalendarLockService(redisClient *redis.Client, log *logrus.Logger, ttl, wait time.Duration) *CalendarLockService {
	svc := &CalendarLockService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		wait:        wait,
		stopChan:    make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.cleanupSemaphoreMapLoop()

	return svc
}

// Stop is safe to call multiple times.
func (s *CalendarLockService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("CalendarLockService stopped")
	}
}

// Acquire blocks until key is held or the wait budget runs out. The returned
// release func must be called exactly once.
func (s *CalendarLockService) Acquire(ctx context.Context, key string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.wait)
	defer cancel()

	ks := s.getKeySemaphore(key)
	if err := ks.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrLockTimeout
	}

	redisKey := RedisLockKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := s.redisClient.SetNX(ctx, redisKey, token, s.ttl).Result()
		if err != nil {
			ks.sem.Release(1)
			s.log.Warnf("Failed to take redis lock %s: %+v", redisKey, err)
			return nil, fmt.Errorf("redis lock %s: %w", redisKey, err)
		}
		if ok {
			break
		}

		select {
		case <-waitCtx.Done():
			ks.sem.Release(1)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-time.After(lockRetryInterval):
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			defer ks.sem.Release(1)

			// The request context may already be done.
			releaseCtx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
			defer cancel()
			if err := releaseLockScript.Run(releaseCtx, s.redisClient, []string{redisKey}, token).Err(); err != nil {
				s.log.Warnf("Failed to release redis lock %s (expires in %v): %+v", redisKey, s.ttl, err)
			}
		})
	}

	return release, nil
}

func (s *CalendarLockService) getKeySemaphore(key string) *keySemaphore {
	v, _ := s.keyMu.LoadOrStore(key, &keySemaphore{sem: semaphore.NewWeighted(1)})
	result := v.(*keySemaphore)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (s *CalendarLockService) cleanupSemaphoreMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(semaphoreCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Lock semaphore cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleSemaphores()
		}
	}
}

// cleanupStaleSemaphores checks lastUsed under the lock so a concurrent
// getKeySemaphore cannot be missed.
func (s *CalendarLockService) cleanupStaleSemaphores() {
	cutoffTime := time.Now().Add(-semaphoreStaleThreshold).Unix()
	var cleaned int

	s.keyMu.Range(func(key, value any) bool {
		ks, ok := value.(*keySemaphore)
		if !ok {
			return true
		}

		if ks.sem.TryAcquire(1) {
			if ks.lastUsed.Load() < cutoffTime {
				s.keyMu.Delete(key)
				cleaned++
			}
			ks.sem.Release(1)
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale lock semaphores", cleaned)
	}
}
