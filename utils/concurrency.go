package utils

import (
	"sync"
	"time"
)

// WorkerPool runs jobs through a counting semaphore with paced launches.
// Submit never blocks on a free slot: the goroutine is started right away
// and waits for the semaphore itself, so launch pacing and the concurrency
// cap stay independent.
type WorkerPool struct {
	maxWorkers  int
	launchDelay time.Duration
	semaphore   chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	lastLaunch  time.Time
}

// NewWorkerPool creates a WorkerPool with the given concurrency cap and
// minimum interval between job launches.
func NewWorkerPool(maxWorkers int, launchDelay time.Duration) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers:  maxWorkers,
		launchDelay: launchDelay,
		semaphore:   make(chan struct{}, maxWorkers),
	}
}

// Submit launches a job. At most maxWorkers jobs execute at once; the rest
// sit parked on the semaphore until a slot frees up.
func (wp *WorkerPool) Submit(job func()) {
	wp.paceLaunch()

	wp.wg.Add(1)
	go func() {
		defer wp.wg.Done()

		wp.semaphore <- struct{}{}
		defer func() { <-wp.semaphore }()

		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) paceLaunch() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.lastLaunch.IsZero() {
		elapsed := time.Since(wp.lastLaunch)
		if elapsed < wp.launchDelay {
			time.Sleep(wp.launchDelay - elapsed)
		}
	}
	wp.lastLaunch = time.Now()
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been visited.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
