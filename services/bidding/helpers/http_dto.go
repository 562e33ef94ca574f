package helpers

import (
	"time"

	model "auction-house/internal/models"
)

// Request/Response DTOs
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PlaceBidRequest struct {
	Amount *float64 `json:"amount" binding:"required"`
}

type CreateAuctionRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Image         string     `json:"image"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	StartingPrice float64    `json:"starting_price"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type BidResponse struct {
	Bidder string  `json:"bidder"`
	Amount float64 `json:"amount"`
	Time   string  `json:"time"`
}

type AuctionResponse struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Image         string        `json:"image,omitempty"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date,omitempty"`
	StartingPrice float64       `json:"starting_price"`
	CurrentPrice  float64       `json:"current_price"`
	HighestBidder string        `json:"highest_bidder,omitempty"`
	BidCount      int           `json:"bid_count"`
	Bids          []BidResponse `json:"bids"`
	Status        string        `json:"status"`
	TimeRemaining string        `json:"time_remaining"`
}

// ToSpec converts the request into the engine's creation input
func (r CreateAuctionRequest) ToSpec() model.AuctionSpec {
	return model.AuctionSpec{
		Title:         r.Title,
		Description:   r.Description,
		Image:         r.Image,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		StartingPrice: r.StartingPrice,
	}
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

func NewBidResponse(b model.Bid) BidResponse {
	return BidResponse{
		Bidder: b.By,
		Amount: b.Amount,
		Time:   b.Time.UTC().Format(time.RFC3339),
	}
}

func NewBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}

// NewAuctionResponse renders an auction as seen at now
func NewAuctionResponse(a model.Auction, now time.Time) AuctionResponse {
	resp := AuctionResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Image:         a.Image,
		StartDate:     a.StartDate.UTC().Format(time.RFC3339),
		StartingPrice: a.StartingPrice,
		CurrentPrice:  a.CurrentPrice,
		BidCount:      len(a.Bids),
		Bids:          NewBidResponses(a.Bids),
		Status:        string(a.Status),
		TimeRemaining: a.TimeRemaining(now),
	}
	if a.EndDate != nil {
		resp.EndDate = a.EndDate.UTC().Format(time.RFC3339)
	}
	if a.HighestBidder != nil {
		resp.HighestBidder = *a.HighestBidder
	}
	if !a.IsActive() {
		resp.TimeRemaining = "Ended"
	}
	return resp
}

func NewAuctionResponses(auctions []model.Auction, now time.Time) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, NewAuctionResponse(a, now))
	}
	return out
}
