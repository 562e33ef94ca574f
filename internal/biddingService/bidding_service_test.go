package bidding

import (
	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/internal/repository"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

// updateWith makes a mocked Update apply the mutation to a copy of auction,
// mirroring the repository's read-modify-write contract.
func updateWith(auction model.Auction) func(context.Context, string, func(*model.Auction) error) (model.Auction, error) {
	return func(_ context.Context, _ string, mutate func(*model.Auction) error) (model.Auction, error) {
		a := auction
		a.Bids = append([]model.Bid(nil), auction.Bids...)
		if err := mutate(&a); err != nil {
			return model.Auction{}, err
		}
		return a, nil
	}
}

func activeAuction(id string, currentPrice float64) model.Auction {
	end := time.Now().Add(time.Hour).UTC()
	return model.Auction{
		ID:            id,
		Title:         "Laptop",
		StartDate:     time.Now().UTC(),
		EndDate:       &end,
		StartingPrice: currentPrice,
		CurrentPrice:  currentPrice,
		Bids:          []model.Bid{},
		Status:        model.AuctionStatusActive,
	}
}

// Tests PlaceBid
func TestBiddingService_PlaceBid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	now := time.Now().UTC()
	ended := activeAuction("auction-ended", 100)
	ended.Status = model.AuctionStatusEnded

	// Table-driven test cases
	tests := []struct {
		name          string
		auctionID     string
		bidder        string
		amount        float64
		mockSetup     func()
		expectError   bool
		expectedError error
	}{
		{
			name:      "valid_first_bid",
			auctionID: "auction1",
			bidder:    "a@b.com",
			amount:    1001,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction1", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction1", 1000)))
			},
		},
		{
			name:      "no_bidder",
			auctionID: "auction2",
			bidder:    "",
			amount:    1001,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction2", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction2", 1000)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrNotAuthenticated,
		},
		{
			name:      "missing_auction",
			auctionID: "auction3",
			bidder:    "a@b.com",
			amount:    1001,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction3", gomock.Any()).
					Return(model.Auction{}, fmt.Errorf("update auction auction3: %w", biddingerrors.ErrNotFound))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrNotFound,
		},
		{
			name:      "missing_auction_reported_before_bidder",
			auctionID: "auction4",
			bidder:    "",
			amount:    1001,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction4", gomock.Any()).
					Return(model.Auction{}, fmt.Errorf("update auction auction4: %w", biddingerrors.ErrNotFound))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrNotFound,
		},
		{
			name:      "auction_closed",
			auctionID: "auction-ended",
			bidder:    "a@b.com",
			amount:    5000,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction-ended", gomock.Any()).DoAndReturn(updateWith(ended))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrAuctionClosed,
		},
		{
			name:      "zero_amount",
			auctionID: "auction4",
			bidder:    "a@b.com",
			amount:    0,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction4", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction4", 100)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidAmount,
		},
		{
			name:      "negative_amount",
			auctionID: "auction5",
			bidder:    "a@b.com",
			amount:    -50,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction5", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction5", 100)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidAmount,
		},
		{
			name:      "nan_amount",
			auctionID: "auction6",
			bidder:    "a@b.com",
			amount:    math.NaN(),
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction6", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction6", 100)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidAmount,
		},
		{
			name:      "infinite_amount",
			auctionID: "auction7",
			bidder:    "a@b.com",
			amount:    math.Inf(1),
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction7", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction7", 100)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrInvalidAmount,
		},
		{
			name:      "bid_equal_to_current_price",
			auctionID: "auction8",
			bidder:    "a@b.com",
			amount:    1000,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction8", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction8", 1000)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrBidTooLow,
		},
		{
			name:      "bid_too_low",
			auctionID: "auction9",
			bidder:    "a@b.com",
			amount:    80,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction9", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction9", 100)))
			},
			expectError:   true,
			expectedError: biddingerrors.ErrBidTooLow,
		},
		{
			name:      "repo_fails",
			auctionID: "auction10",
			bidder:    "a@b.com",
			amount:    120,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction10", gomock.Any()).Return(model.Auction{}, errors.New("repo write failed"))
			},
			expectError:   true,
			expectedError: nil, // repository error passed through, not a domain sentinel
		},
		{
			name:      "bid_max_float",
			auctionID: "auction11",
			bidder:    "a@b.com",
			amount:    math.MaxFloat64,
			mockSetup: func() {
				mockRepo.EXPECT().Update(gomock.Any(), "auction11", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction11", 100)))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			bid, err := service.PlaceBid(context.Background(), tc.auctionID, tc.bidder, tc.amount)

			if tc.expectError {
				require.Error(t, err)
				if tc.expectedError != nil {
					require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tc.bidder, bid.By)
				require.Equal(t, tc.amount, bid.Amount)
				require.WithinDuration(t, now, bid.Time, 2*time.Second)
			}
		})
	}
}

// the rejection message names the price to beat
func TestBiddingService_PlaceBid_TooLowMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	mockRepo.EXPECT().Update(gomock.Any(), "auction1", gomock.Any()).DoAndReturn(updateWith(activeAuction("auction1", 2000)))

	_, err := service.PlaceBid(context.Background(), "auction1", "a@b.com", 1500)
	require.ErrorIs(t, err, biddingerrors.ErrBidTooLow)
	require.Contains(t, err.Error(), "2000.00")
}

// Test CreateAuction
func TestBiddingService_CreateAuction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	end := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name          string
		spec          model.AuctionSpec
		mockSetup     func()
		expectedError error
		expectedTitle string
		expectedDesc  string
	}{
		{
			name: "valid_auction",
			spec: model.AuctionSpec{Title: "Laptop", Description: "Core i7", EndDate: &end, StartingPrice: 1000},
			mockSetup: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, spec model.AuctionSpec) (model.Auction, error) {
						return model.Auction{ID: "auction1", Title: spec.Title, StartingPrice: spec.StartingPrice}, nil
					})
			},
			expectedTitle: "Laptop",
		},
		{
			name: "markup_stripped_from_title",
			spec: model.AuctionSpec{Title: "<b>Vintage</b> Camera", EndDate: &end, StartingPrice: 250},
			mockSetup: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, spec model.AuctionSpec) (model.Auction, error) {
						return model.Auction{ID: "auction2", Title: spec.Title, StartingPrice: spec.StartingPrice}, nil
					})
			},
			expectedTitle: "Vintage Camera",
		},
		{
			name: "plain_text_kept_unescaped",
			spec: model.AuctionSpec{Title: `Tom & Jerry's "DVD" set`, Description: "Price < 5000 & <i>mint</i>", EndDate: &end, StartingPrice: 20},
			mockSetup: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, spec model.AuctionSpec) (model.Auction, error) {
						return model.Auction{ID: "auction3", Title: spec.Title, Description: spec.Description, StartingPrice: spec.StartingPrice}, nil
					})
			},
			expectedTitle: `Tom & Jerry's "DVD" set`,
			expectedDesc:  "Price < 5000 & mint",
		},
		{
			name:          "empty_title",
			spec:          model.AuctionSpec{Title: "   ", EndDate: &end, StartingPrice: 10},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "title_only_markup",
			spec:          model.AuctionSpec{Title: "<script>alert(1)</script>", EndDate: &end, StartingPrice: 10},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "missing_end_date",
			spec:          model.AuctionSpec{Title: "Laptop", StartingPrice: 10},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "zero_starting_price",
			spec:          model.AuctionSpec{Title: "Laptop", EndDate: &end, StartingPrice: 0},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "negative_starting_price",
			spec:          model.AuctionSpec{Title: "Laptop", EndDate: &end, StartingPrice: -1},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name:          "infinite_starting_price",
			spec:          model.AuctionSpec{Title: "Laptop", EndDate: &end, StartingPrice: math.Inf(1)},
			mockSetup:     func() {},
			expectedError: biddingerrors.ErrValidation,
		},
		{
			name: "repo_error",
			spec: model.AuctionSpec{Title: "Phone", EndDate: &end, StartingPrice: 10},
			mockSetup: func() {
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(model.Auction{}, errors.New("db failure"))
			},
			expectedError: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			auction, err := service.CreateAuction(context.Background(), tc.spec)

			switch {
			case tc.expectedError != nil:
				require.ErrorIs(t, err, tc.expectedError)
			case tc.expectedTitle == "":
				require.Error(t, err)
			default:
				require.NoError(t, err)
				require.Equal(t, tc.expectedTitle, auction.Title)
				if tc.expectedDesc != "" {
					require.Equal(t, tc.expectedDesc, auction.Description)
				}
			}
		})
	}
}

// special characters are stored as typed and stay searchable
func TestBiddingService_CreateAuction_SearchableText(t *testing.T) {
	ctx := context.Background()
	service := NewBiddingService(repository.NewAuctionRepo(repository.NewMemoryStore()))

	end := time.Now().Add(time.Hour)
	created, err := service.CreateAuction(ctx, model.AuctionSpec{
		Title:         `Tom & Jerry's "DVD" set`,
		Description:   "Price < 5000 & mint",
		EndDate:       &end,
		StartingPrice: 20,
	})
	require.NoError(t, err)

	stored, err := service.GetAuction(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, `Tom & Jerry's "DVD" set`, stored.Title)
	require.Equal(t, "Price < 5000 & mint", stored.Description)

	for _, query := range []string{"tom & jerry", `jerry's "dvd"`, "< 5000 &"} {
		auctions, err := service.ListAuctions(ctx, model.AuctionFilter{Query: query})
		require.NoError(t, err)
		require.Len(t, auctions, 1, query)
		require.Equal(t, created.ID, auctions[0].ID)
	}
}

// Test EndAuction
func TestBiddingService_EndAuction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	t.Run("existing_auction", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), "auction1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, mutate func(*model.Auction) error) (model.Auction, error) {
				a := activeAuction("auction1", 100)
				require.NoError(t, mutate(&a))
				require.Equal(t, model.AuctionStatusEnded, a.Status)
				return a, nil
			})

		ok, err := service.EndAuction(context.Background(), "auction1")
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("missing_auction", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), "auction2", gomock.Any()).
			Return(model.Auction{}, fmt.Errorf("update auction auction2: %w", biddingerrors.ErrNotFound))

		ok, err := service.EndAuction(context.Background(), "auction2")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("repo_error", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), "auction3", gomock.Any()).Return(model.Auction{}, errors.New("db failure"))

		ok, err := service.EndAuction(context.Background(), "auction3")
		require.Error(t, err)
		require.False(t, ok)
	})
}

// Test ListAuctions
func TestBiddingService_ListAuctions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	laptop := activeAuction("auction1", 1000)
	laptop.Title = "Gaming Laptop"
	camera := activeAuction("auction2", 300)
	camera.Title = "Camera"
	camera.Description = "Mirrorless body with a LAPTOP bag"
	closed := activeAuction("auction3", 50)
	closed.Title = "Books"
	closed.Status = model.AuctionStatusEnded
	all := []model.Auction{laptop, camera, closed}

	tests := []struct {
		name        string
		filter      model.AuctionFilter
		expectedIDs []string
	}{
		{name: "no_filter", filter: model.AuctionFilter{}, expectedIDs: []string{"auction1", "auction2", "auction3"}},
		{name: "active_only", filter: model.AuctionFilter{Status: model.AuctionStatusActive}, expectedIDs: []string{"auction1", "auction2"}},
		{name: "ended_only", filter: model.AuctionFilter{Status: model.AuctionStatusEnded}, expectedIDs: []string{"auction3"}},
		{name: "query_title_and_description", filter: model.AuctionFilter{Query: "laptop"}, expectedIDs: []string{"auction1", "auction2"}},
		{name: "query_and_status", filter: model.AuctionFilter{Status: model.AuctionStatusEnded, Query: "laptop"}, expectedIDs: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo.EXPECT().List(gomock.Any()).Return(all, nil)

			auctions, err := service.ListAuctions(context.Background(), tc.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(auctions))
			for _, a := range auctions {
				ids = append(ids, a.ID)
			}
			require.Equal(t, tc.expectedIDs, ids)
		})
	}

	t.Run("repo_error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db failure"))

		_, err := service.ListAuctions(context.Background(), model.AuctionFilter{})
		require.Error(t, err)
	})
}

// Test GetBidHistory
func TestBiddingService_GetBidHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	now := time.Now().UTC()
	auction := activeAuction("auction1", 300)
	auction.Bids = []model.Bid{
		{By: "a@b.com", Amount: 100, Time: now},
		{By: "c@d.com", Amount: 300, Time: now.Add(2 * time.Second)},
		{By: "a@b.com", Amount: 200, Time: now.Add(time.Second)},
	}

	t.Run("sorted_by_amount_desc", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "auction1").Return(auction, nil)

		bids, err := service.GetBidHistory(context.Background(), "auction1")
		require.NoError(t, err)
		require.Len(t, bids, 3)
		require.Equal(t, []float64{300, 200, 100}, []float64{bids[0].Amount, bids[1].Amount, bids[2].Amount})
		require.Equal(t, 100.0, auction.Bids[0].Amount, "stored order untouched")
	})

	t.Run("no_bids", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "auction2").Return(model.Auction{ID: "auction2"}, nil)

		bids, err := service.GetBidHistory(context.Background(), "auction2")
		require.NoError(t, err)
		require.Empty(t, bids)
		require.NotNil(t, bids)
	})

	t.Run("empty_auctionID", func(t *testing.T) {
		_, err := service.GetBidHistory(context.Background(), "")
		require.ErrorIs(t, err, biddingerrors.ErrNotFound)
	})

	t.Run("missing_auction", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "auction3").
			Return(model.Auction{}, fmt.Errorf("get auction auction3: %w", biddingerrors.ErrNotFound))

		_, err := service.GetBidHistory(context.Background(), "auction3")
		require.ErrorIs(t, err, biddingerrors.ErrNotFound)
	})
}

// Test GetUserStats
func TestBiddingService_GetUserStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := repository.NewMockAuctionDB(ctrl)
	service := NewBiddingService(mockRepo)

	now := time.Now().UTC()
	first := activeAuction("auction1", 500)
	first.Bids = []model.Bid{
		{By: "a@b.com", Amount: 200, Time: now},
		{By: "c@d.com", Amount: 500, Time: now},
	}
	second := activeAuction("auction2", 900)
	second.Status = model.AuctionStatusEnded
	second.Bids = []model.Bid{
		{By: "a@b.com", Amount: 900, Time: now},
	}
	third := activeAuction("auction3", 10)
	all := []model.Auction{first, second, third}

	tests := []struct {
		name     string
		email    string
		expected model.UserStats
	}{
		{
			name:     "user_with_bids",
			email:    "a@b.com",
			expected: model.UserStats{Email: "a@b.com", TotalBids: 2, ActiveAuctions: 2, HighestBid: 900},
		},
		{
			name:     "user_without_bids",
			email:    "x@y.com",
			expected: model.UserStats{Email: "x@y.com", TotalBids: 0, ActiveAuctions: 2, HighestBid: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo.EXPECT().List(gomock.Any()).Return(all, nil)

			stats, err := service.GetUserStats(context.Background(), tc.email)
			require.NoError(t, err)
			require.Equal(t, tc.expected, stats)
		})
	}

	t.Run("no_user", func(t *testing.T) {
		_, err := service.GetUserStats(context.Background(), "")
		require.ErrorIs(t, err, biddingerrors.ErrNotAuthenticated)
	})
}

// end-to-end bidding rules against the real repository
func TestBiddingService_BiddingScenario(t *testing.T) {
	ctx := context.Background()
	service := NewBiddingService(repository.NewAuctionRepo(repository.NewMemoryStore()))

	end := time.Now().Add(time.Hour)
	auction, err := service.CreateAuction(ctx, model.AuctionSpec{Title: "Laptop", EndDate: &end, StartingPrice: 1000})
	require.NoError(t, err)
	require.Equal(t, 1000.0, auction.CurrentPrice)

	_, err = service.PlaceBid(ctx, auction.ID, "u@x.com", 1000)
	require.ErrorIs(t, err, biddingerrors.ErrBidTooLow)

	_, err = service.PlaceBid(ctx, auction.ID, "u@x.com", 1001)
	require.NoError(t, err)

	// accepted bid is visible immediately
	got, err := service.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, 1001.0, got.CurrentPrice)
	require.NotNil(t, got.HighestBidder)
	require.Equal(t, "u@x.com", *got.HighestBidder)
	require.Len(t, got.Bids, 1)

	_, err = service.PlaceBid(ctx, auction.ID, "v@x.com", 2000)
	require.NoError(t, err)

	// rejected bids leave the auction untouched
	_, err = service.PlaceBid(ctx, auction.ID, "u@x.com", 1500)
	require.ErrorIs(t, err, biddingerrors.ErrBidTooLow)

	got, err = service.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, 2000.0, got.CurrentPrice)
	require.Equal(t, "v@x.com", *got.HighestBidder)
	require.Len(t, got.Bids, 2)

	// current price is the maximum accepted bid and never decreases
	prev := got.StartingPrice
	for _, b := range got.Bids {
		require.Greater(t, b.Amount, prev)
		prev = b.Amount
	}
	require.Equal(t, prev, got.CurrentPrice)

	ok, err := service.EndAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = service.PlaceBid(ctx, auction.ID, "w@x.com", 5000)
	require.ErrorIs(t, err, biddingerrors.ErrAuctionClosed)

	// ending twice leaves it ended
	ok, err = service.EndAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err = service.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Equal(t, model.AuctionStatusEnded, got.Status)
	require.Len(t, got.Bids, 2)

	ok, err = service.EndAuction(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = service.PlaceBid(ctx, "missing", "u@x.com", 10)
	require.ErrorIs(t, err, biddingerrors.ErrNotFound)
}

// concurrency test: identical bids racing on one auction, exactly one wins
func TestBiddingService_ConcurrentEqualBids(t *testing.T) {
	ctx := context.Background()
	service := NewBiddingService(repository.NewAuctionRepo(repository.NewMemoryStore()))

	end := time.Now().Add(time.Hour)
	auction, err := service.CreateAuction(ctx, model.AuctionSpec{Title: "Shared", EndDate: &end, StartingPrice: 100})
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		tooLow   int
	)
	concurrentCount := 20

	for i := 0; i < concurrentCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.PlaceBid(ctx, auction.ID, fmt.Sprintf("user-%d@x.com", i), 150)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, biddingerrors.ErrBidTooLow):
				tooLow++
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, accepted)
	require.Equal(t, concurrentCount-1, tooLow)

	got, err := service.GetAuction(ctx, auction.ID)
	require.NoError(t, err)
	require.Len(t, got.Bids, 1)
	require.Equal(t, 150.0, got.CurrentPrice)
}
