package bidding

import (
	"auction-house/internal/biddingerrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/utils"
	"cmp"
	"context"
	"errors"
	"fmt"
	"html"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo       repository.AuctionDB
	validate   *validator.Validate
	textPolicy *bluemonday.Policy
	now        func() time.Time
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB) *BiddingService {
	return &BiddingService{
		repo:       repo,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		textPolicy: bluemonday.StrictPolicy(),
		now:        time.Now,
	}
}

// plainText strips markup and returns the remaining text unescaped.
// bluemonday entity-encodes its output, and stored text must stay searchable.
func (s *BiddingService) plainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.textPolicy.Sanitize(raw)))
}

// PlaceBid validates and records a bid on an active auction.
// The check and the write happen as one unit, so two bids racing at the same
// price cannot both be accepted.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID, bidderEmail string, amount float64) (models.Bid, error) {
	var bid models.Bid
	_, err := s.repo.Update(ctx, auctionID, func(a *models.Auction) error {
		if strings.TrimSpace(bidderEmail) == "" {
			return fmt.Errorf("service: %w - no bidder", biddingerrors.ErrNotAuthenticated)
		}
		if !a.IsActive() {
			return fmt.Errorf("service: %w - auction %s", biddingerrors.ErrAuctionClosed, auctionID)
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			return fmt.Errorf("service: %w - amount must be a positive number", biddingerrors.ErrInvalidAmount)
		}
		if amount <= a.CurrentPrice {
			return fmt.Errorf("service: %w - bid must be higher than %.2f", biddingerrors.ErrBidTooLow, a.CurrentPrice)
		}

		bid = models.Bid{
			By:     bidderEmail,
			Amount: amount,
			Time:   s.now().UTC(),
		}
		a.Bids = append(a.Bids, bid)
		a.CurrentPrice = amount
		a.HighestBidder = &bid.By
		return nil
	})
	if err != nil {
		if errors.Is(err, biddingerrors.ErrNotFound) {
			return models.Bid{}, fmt.Errorf("service: %w - auction %s", biddingerrors.ErrNotFound, auctionID)
		}
		return models.Bid{}, err
	}

	utils.Info("bid placed", map[string]any{
		"auction_id": auctionID,
		"bidder":     bidderEmail,
		"amount":     amount,
	})
	return bid, nil
}

// CreateAuction validates and sanitizes the supplied details and stores a new active auction
func (s *BiddingService) CreateAuction(ctx context.Context, spec models.AuctionSpec) (models.Auction, error) {
	spec.Title = s.plainText(spec.Title)
	spec.Description = s.plainText(spec.Description)
	spec.Image = strings.TrimSpace(spec.Image)

	if err := s.validate.Struct(spec); err != nil {
		return models.Auction{}, fmt.Errorf("service: %w - %s", biddingerrors.ErrValidation, validationDetail(err))
	}
	if math.IsInf(spec.StartingPrice, 0) || math.IsNaN(spec.StartingPrice) {
		return models.Auction{}, fmt.Errorf("service: %w - starting price must be finite", biddingerrors.ErrValidation)
	}

	auction, err := s.repo.Create(ctx, spec)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}

	utils.Info("auction created", map[string]any{
		"auction_id":     auction.ID,
		"title":          auction.Title,
		"starting_price": auction.StartingPrice,
	})
	return auction, nil
}

// EndAuction closes an auction. It reports false when the auction does not exist.
// Ending an already ended auction succeeds and leaves it ended.
func (s *BiddingService) EndAuction(ctx context.Context, auctionID string) (bool, error) {
	_, err := s.repo.Update(ctx, auctionID, func(a *models.Auction) error {
		a.Status = models.AuctionStatusEnded
		return nil
	})
	if errors.Is(err, biddingerrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("service: failed to end auction %s: %w", auctionID, err)
	}

	utils.Info("auction ended", map[string]any{"auction_id": auctionID})
	return true, nil
}

// GetAuction returns a single auction
func (s *BiddingService) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrNotFound)
	}

	auction, err := s.repo.Get(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListAuctions returns the auctions matching filter, most recently created first
func (s *BiddingService) ListAuctions(ctx context.Context, filter models.AuctionFilter) ([]models.Auction, error) {
	auctions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	return lo.Filter(auctions, func(a models.Auction, _ int) bool {
		return filter.Matches(a)
	}), nil
}

// GetBidHistory returns the bids of an auction, highest amount first
func (s *BiddingService) GetBidHistory(ctx context.Context, auctionID string) ([]models.Bid, error) {
	auction, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	bids := slices.Clone(auction.Bids)
	if bids == nil {
		bids = []models.Bid{}
	}
	slices.SortStableFunc(bids, func(a, b models.Bid) int {
		return cmp.Compare(b.Amount, a.Amount)
	})
	return bids, nil
}

// GetUserStats summarises the bidding activity of the given user
func (s *BiddingService) GetUserStats(ctx context.Context, email string) (models.UserStats, error) {
	if strings.TrimSpace(email) == "" {
		return models.UserStats{}, fmt.Errorf("service: %w - no user", biddingerrors.ErrNotAuthenticated)
	}

	auctions, err := s.repo.List(ctx)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	userBids := lo.FlatMap(auctions, func(a models.Auction, _ int) []models.Bid {
		return lo.Filter(a.Bids, func(b models.Bid, _ int) bool {
			return b.By == email
		})
	})

	stats := models.UserStats{
		Email:     email,
		TotalBids: len(userBids),
		ActiveAuctions: lo.CountBy(auctions, func(a models.Auction) bool {
			return a.IsActive()
		}),
	}
	if len(userBids) > 0 {
		stats.HighestBid = lo.MaxBy(userBids, func(a, b models.Bid) bool {
			return a.Amount > b.Amount
		}).Amount
	}
	return stats, nil
}

// validationDetail names the failing fields of a validator error
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
		return fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag())
	})
	return strings.Join(fields, ", ")
}
