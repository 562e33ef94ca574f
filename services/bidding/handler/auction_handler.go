//go:generate mockgen -package=handler -destination=mock_handler.go -source=auction_handler.go

package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-house/internal/biddingerrors"
	model "auction-house/internal/models"
	"auction-house/services/bidding/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID, bidderEmail string, amount float64) (model.Bid, error)
	CreateAuction(ctx context.Context, spec model.AuctionSpec) (model.Auction, error)
	EndAuction(ctx context.Context, auctionID string) (bool, error)
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	ListAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Auction, error)
	GetBidHistory(ctx context.Context, auctionID string) ([]model.Bid, error)
	GetUserStats(ctx context.Context, email string) (model.UserStats, error)
}

type IdentityServiceInterface interface {
	Register(ctx context.Context, email, secret string) (model.User, error)
	Login(ctx context.Context, email, secret string) (model.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (model.User, bool, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
	now     func() time.Time
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service, now: time.Now}
}

// ListAuctionsHandler handles GET /auctions?status=&q=
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	status, err := helpers.ParseStatusFilter(c.Query("status"))
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("ListAuctionsHandler: bad status filter", map[string]any{"status": c.Query("status")})
		return
	}

	filter := model.AuctionFilter{Status: status, Query: c.Query("q")}
	auctions, err := h.service.ListAuctions(c.Request.Context(), filter)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Error("ListAuctionsHandler: failed to list auctions", map[string]any{"error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(auctions, h.now()), "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"status": string(status),
		"query":  filter.Query,
		"count":  len(auctions),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("GetAuctionHandler: error retrieving auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction, h.now()), "auction retrieved successfully")
}

// GetBidHistoryHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) GetBidHistoryHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidHistory(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("GetBidHistoryHandler: error retrieving bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidHistoryHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	// the bidder always comes from the session, never from the payload
	user, ok := helpers.CurrentUser(c)
	if !ok {
		helpers.RespondError(c, fmt.Errorf("handler: %w", biddingerrors.ErrNotAuthenticated))
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), auctionID, user.Email, *req.Amount)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"handler":    "PlaceBidHandler",
			"auction_id": auctionID,
			"bidder":     user.Email,
			"amount":     *req.Amount,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id": auctionID,
		"bidder":     bid.By,
		"amount":     bid.Amount,
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), req.ToSpec())
	if err != nil {
		helpers.RespondError(c, err)
		utils.Warn("CreateAuctionHandler: auction rejected", map[string]any{"title": req.Title, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction, h.now()), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ID,
		"title":      auction.Title,
	})
}

// EndAuctionHandler handles POST /auctions/:auction_id/end
func (h *AuctionHandler) EndAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	ended, err := h.service.EndAuction(c.Request.Context(), auctionID)
	if err == nil && !ended {
		err = fmt.Errorf("handler: %w - auction %s", biddingerrors.ErrNotFound, auctionID)
	}
	if err != nil {
		helpers.RespondError(c, err)
		if !errors.Is(err, biddingerrors.ErrNotFound) {
			utils.Error("EndAuctionHandler: failed to end auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID, "status": string(model.AuctionStatusEnded)}, "auction ended successfully")
	helpers.LogSuccess("EndAuctionHandler", "auction ended successfully", map[string]any{"auction_id": auctionID})
}

// GetUserStatsHandler handles GET /users/me/stats
func (h *AuctionHandler) GetUserStatsHandler(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		helpers.RespondError(c, fmt.Errorf("handler: %w", biddingerrors.ErrNotAuthenticated))
		return
	}

	stats, err := h.service.GetUserStats(c.Request.Context(), user.Email)
	if err != nil {
		helpers.RespondError(c, err)
		utils.Error("GetUserStatsHandler: failed to compute stats", map[string]any{"email": user.Email, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, stats, "stats retrieved successfully")
}
