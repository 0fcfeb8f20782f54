package services

import (
	"context"
	"log"
	"sync"
	"time"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	SweepOnce() int
}

// worker periodically discards sessions that have been idle past their TTL.
type worker struct {
	interviewService InterviewService
	ttl              time.Duration
	interval         time.Duration
	now              func() time.Time
	wg               sync.WaitGroup
	stopChan         chan struct{}
	stopOnce         sync.Once
}

func NewWorker(
	interviewService InterviewService,
	ttl time.Duration,
	interval time.Duration,
) Worker {
	return &worker{
		interviewService: interviewService,
		ttl:              ttl,
		interval:         interval,
		now:              time.Now,
		stopChan:         make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	if w.ttl <= 0 || w.interval <= 0 {
		log.Println("⚠️  Session sweeper disabled")
		return
	}

	w.wg.Add(1)
	go w.pollIdleSessions(ctx)

	log.Printf("✅ Session sweeper started (ttl %s, every %s)", w.ttl, w.interval)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping session sweeper...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
	log.Println("✅ Session sweeper stopped")
}

// SweepOnce implements Worker.
func (w *worker) SweepOnce() int {
	removed := w.interviewService.ExpireIdle(w.now().Add(-w.ttl))
	if removed > 0 {
		log.Printf("🧹 Expired %d idle sessions", removed)
	}
	return removed
}

func (w *worker) pollIdleSessions(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Session sweeper loop stopped")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}
