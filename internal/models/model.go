package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionStatusActive AuctionStatus = "active"
	AuctionStatusEnded  AuctionStatus = "ended"
)

// User represents a registered participant in the marketplace
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Public returns the user without its credential secret
func (u User) Public() User {
	u.Password = ""
	return u
}

// Session returns the session record for this user
func (u User) Session() Session {
	return Session{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Session is the persisted record of the user currently acting
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the session belongs to an administrator
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Auction represents an item open for bidding within a time window
type Auction struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Image         string        `json:"image,omitempty"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       *time.Time    `json:"endDate,omitempty"`
	StartingPrice float64       `json:"startingPrice"`
	CurrentPrice  float64       `json:"currentPrice"`
	HighestBidder *string       `json:"highestBidder"`
	Bids          []Bid         `json:"bids"`
	Status        AuctionStatus `json:"status"`
}

// Bid represents a user's accepted price proposal on an auction
type Bid struct {
	By     string    `json:"by"`
	Amount float64   `json:"amount"`
	Time   time.Time `json:"time"`
}

// AuctionSpec holds the fields an administrator supplies to create an auction
type AuctionSpec struct {
	Title         string `validate:"required"`
	Description   string
	Image         string
	StartDate     *time.Time
	EndDate       *time.Time `validate:"required"`
	StartingPrice float64    `validate:"gt=0"`
}

// AuctionFilter narrows an auction listing
type AuctionFilter struct {
	Status AuctionStatus
	Query  string
}

// UserStats summarises a user's bidding activity
type UserStats struct {
	Email          string  `json:"email"`
	TotalBids      int     `json:"total_bids"`
	ActiveAuctions int     `json:"active_auctions"`
	HighestBid     float64 `json:"highest_bid"`
}

// IsActive reports whether the auction still accepts bids
func (a Auction) IsActive() bool {
	return a.Status == AuctionStatusActive
}

// Expired reports whether an active auction's end time is strictly before now.
// Auctions without an end time never expire.
func (a Auction) Expired(now time.Time) bool {
	return a.IsActive() && a.EndDate != nil && a.EndDate.Before(now)
}

// Matches reports whether the auction passes the filter
func (f AuctionFilter) Matches(a Auction) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	query := strings.ToLower(strings.TrimSpace(f.Query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), query) ||
		strings.Contains(strings.ToLower(a.Description), query)
}

// TimeRemaining formats the time left until the auction ends, e.g. "1d 2h 3m 4s".
// It returns "Ended" once the end time has passed and "" when there is no end time.
func (a Auction) TimeRemaining(now time.Time) string {
	if a.EndDate == nil {
		return ""
	}
	left := a.EndDate.Sub(now)
	if left <= 0 {
		return "Ended"
	}

	total := int64(left / time.Second)
	days := total / 86400
	hours := (total / 3600) % 24
	minutes := (total / 60) % 60
	seconds := total % 60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}
