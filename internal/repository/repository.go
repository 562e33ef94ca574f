//go:generate mockgen -package=repository -destination=mock_repository.go -source=repository.go

package repository

import (
	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/utils"
	"context"
	"fmt"
	"sync"
	"time"
)

// AuctionDB defines the auction storage interface for the marketplace
type AuctionDB interface {
	List(ctx context.Context) ([]model.Auction, error)
	Get(ctx context.Context, auctionID string) (model.Auction, error)
	Create(ctx context.Context, spec model.AuctionSpec) (model.Auction, error)
	Replace(ctx context.Context, auction model.Auction) error
	Update(ctx context.Context, auctionID string, mutate func(*model.Auction) error) (model.Auction, error)
	UpdateAll(ctx context.Context, mutate func([]model.Auction) (bool, error)) error
}

// CredentialStore defines the user record storage interface
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
	Insert(ctx context.Context, user model.User) (model.User, error)
	Verify(ctx context.Context, email, secret string) (model.User, bool, error)
}

// SessionStore defines the storage interface for the current-user record
type SessionStore interface {
	Current(ctx context.Context) (model.Session, bool, error)
	Set(ctx context.Context, session model.Session) error
	Clear(ctx context.Context) error
}

// AuctionRepo is a concurrency-safe implementation of AuctionDB over a Store.
// Every operation reads the whole auction document, mutates it and writes it
// back while holding mu, so concurrent bids on one auction cannot both commit
// against the same current price.
type AuctionRepo struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

// NewAuctionRepo creates a new auction repository backed by store
func NewAuctionRepo(store Store) *AuctionRepo {
	return &AuctionRepo{
		store: store,
		now:   time.Now,
	}
}

// load reads all auctions, newest first. Callers must hold r.mu.
func (r *AuctionRepo) load(ctx context.Context) ([]model.Auction, error) {
	var auctions []model.Auction
	if _, err := r.store.Load(ctx, KeyAuctions, &auctions); err != nil {
		return nil, fmt.Errorf("load auctions: %w", err)
	}
	if auctions == nil {
		auctions = []model.Auction{}
	}
	return auctions, nil
}

// save writes all auctions back. Callers must hold r.mu.
func (r *AuctionRepo) save(ctx context.Context, auctions []model.Auction) error {
	if err := r.store.Save(ctx, KeyAuctions, auctions); err != nil {
		return fmt.Errorf("save auctions: %w", err)
	}
	return nil
}

func indexOf(auctions []model.Auction, auctionID string) int {
	for i := range auctions {
		if auctions[i].ID == auctionID {
			return i
		}
	}
	return -1
}

// List returns all auctions, most recently created first
func (r *AuctionRepo) List(ctx context.Context) ([]model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// Get returns a single auction
func (r *AuctionRepo) Get(ctx context.Context, auctionID string) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auctions, err := r.load(ctx)
	if err != nil {
		return model.Auction{}, err
	}

	i := indexOf(auctions, auctionID)
	if i < 0 {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, biddingerrors.ErrNotFound)
	}
	return auctions[i], nil
}

// Create stores a new active auction with no bids and returns it
func (r *AuctionRepo) Create(ctx context.Context, spec model.AuctionSpec) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auctions, err := r.load(ctx)
	if err != nil {
		return model.Auction{}, err
	}

	startDate := r.now().UTC()
	if spec.StartDate != nil {
		startDate = spec.StartDate.UTC()
	}
	var endDate *time.Time
	if spec.EndDate != nil {
		end := spec.EndDate.UTC()
		endDate = &end
	}

	auction := model.Auction{
		ID:            utils.GenerateOrderedID(),
		Title:         spec.Title,
		Description:   spec.Description,
		Image:         spec.Image,
		StartDate:     startDate,
		EndDate:       endDate,
		StartingPrice: spec.StartingPrice,
		CurrentPrice:  spec.StartingPrice,
		HighestBidder: nil,
		Bids:          []model.Bid{},
		Status:        model.AuctionStatusActive,
	}

	auctions = append([]model.Auction{auction}, auctions...)
	if err := r.save(ctx, auctions); err != nil {
		return model.Auction{}, err
	}
	return auction, nil
}

// Replace overwrites the stored record with the same identifier
func (r *AuctionRepo) Replace(ctx context.Context, auction model.Auction) error {
	_, err := r.Update(ctx, auction.ID, func(a *model.Auction) error {
		*a = auction
		return nil
	})
	return err
}

// Update applies mutate to one auction and persists the result as a single unit.
// Nothing is written when mutate returns an error; that error is returned unchanged.
func (r *AuctionRepo) Update(ctx context.Context, auctionID string, mutate func(*model.Auction) error) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auctions, err := r.load(ctx)
	if err != nil {
		return model.Auction{}, err
	}

	i := indexOf(auctions, auctionID)
	if i < 0 {
		return model.Auction{}, fmt.Errorf("update auction %s: %w", auctionID, biddingerrors.ErrNotFound)
	}

	if err := mutate(&auctions[i]); err != nil {
		return model.Auction{}, err
	}
	// the identifier is the record's key and cannot be rewritten
	auctions[i].ID = auctionID

	if err := r.save(ctx, auctions); err != nil {
		return model.Auction{}, err
	}
	return auctions[i], nil
}

// UpdateAll applies mutate to the full auction set and writes it back once,
// only when mutate reports a change.
func (r *AuctionRepo) UpdateAll(ctx context.Context, mutate func([]model.Auction) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	auctions, err := r.load(ctx)
	if err != nil {
		return err
	}

	changed, err := mutate(auctions)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return r.save(ctx, auctions)
}
