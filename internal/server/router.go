package server

import (
	handler "auction-house/services/bidding/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService handler.AuctionServiceInterface, identityService handler.IdentityServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())                     // recover from panics
	router.Use(SessionMiddleware(identityService)) // attach the current user, if any
	router.Use(RequestLoggerMiddleware)            // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)
	authHandler := handler.NewAuthHandler(identityService)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.RegisterHandler)
		auth.POST("/login", authHandler.LoginHandler)
		auth.POST("/logout", authHandler.LogoutHandler)
		auth.GET("/me", RequireSession, authHandler.MeHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidHistoryHandler)
		auctions.POST("/:auction_id/bids", RequireSession, auctionHandler.PlaceBidHandler)
		auctions.POST("", RequireAdmin, auctionHandler.CreateAuctionHandler)
		auctions.POST("/:auction_id/end", RequireAdmin, auctionHandler.EndAuctionHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/me/stats", RequireSession, auctionHandler.GetUserStatsHandler)
	}

	return router
}
