package sweeper

import (
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the period between sweeps when none is configured
const DefaultInterval = time.Second

// Sweeper periodically closes active auctions whose end time has passed
type Sweeper struct {
	repo     repository.AuctionDB
	interval time.Duration
	now      func() time.Time
	onTick   func(closed int)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Sweeper)

// WithInterval sets the sweep period. Non-positive values keep the default.
func WithInterval(interval time.Duration) Option {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock replaces the wall clock used to decide expiry
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithOnTick registers a callback run after every successful sweep with the number of auctions closed
func WithOnTick(fn func(closed int)) Option {
	return func(s *Sweeper) {
		s.onTick = fn
	}
}

// New creates a sweeper over repo
func New(repo repository.AuctionDB, opts ...Option) *Sweeper {
	s := &Sweeper{
		repo:     repo,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tick closes every active auction whose end time is strictly before now.
// All closures of one tick are written together, and nothing is written when
// no auction expired.
func (s *Sweeper) Tick(ctx context.Context) (int, error) {
	now := s.now()
	closed := 0
	var closedIDs []string

	err := s.repo.UpdateAll(ctx, func(auctions []models.Auction) (bool, error) {
		for i := range auctions {
			if auctions[i].Expired(now) {
				auctions[i].Status = models.AuctionStatusEnded
				closedIDs = append(closedIDs, auctions[i].ID)
				closed++
			}
		}
		return closed > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("sweeper: failed to close expired auctions: %w", err)
	}

	if closed > 0 {
		utils.Info("expired auctions closed", map[string]any{
			"count":       closed,
			"auction_ids": closedIDs,
		})
	}
	return closed, nil
}

// Start runs Tick every interval until ctx is cancelled or Stop is called.
// Calling Start on a running sweeper does nothing.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		s.run(ctx)
	}()

	utils.Info("sweeper started", map[string]any{"interval": s.interval.String()})
}

// Stop ends scheduling and waits for an in-flight tick to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	utils.Info("sweeper stopped", nil)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one tick; a failure is logged and the schedule continues
func (s *Sweeper) sweep(ctx context.Context) {
	// a tick that has started completes even if Stop is called meanwhile
	closed, err := s.Tick(context.WithoutCancel(ctx))
	if err != nil {
		utils.Error("sweep failed", map[string]any{"error": err.Error()})
		return
	}
	if s.onTick != nil {
		s.onTick(closed)
	}
}
