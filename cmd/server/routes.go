package main

import (
	"github.com/gin-gonic/gin"
	"hgigs.backend/internal/interfaces/http/handlers"
	"hgigs.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	gigHandler        *handlers.GigHandler
	orderHandler      *handlers.OrderHandler
	marketHandler     *handlers.MarketHandler
	adminHandler      *handlers.AdminHandler
	accountHandler    *handlers.AccountHandler
	withdrawalHandler *handlers.WithdrawalHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	idempotent := middleware.IdempotencyMiddleware()

	v1 := r.Group("/api/v1")
	{
		// Public reads
		v1.GET("/gigs", d.gigHandler.ListActiveGigs)
		v1.GET("/gigs/:id", d.gigHandler.GetGig)
		v1.GET("/gigs/:id/orders", d.gigHandler.ListGigOrders)
		v1.GET("/providers/:address/gigs", d.gigHandler.ListProviderGigs)

		v1.GET("/orders/:id", d.orderHandler.GetOrder)
		v1.GET("/orders/:id/deliverable", d.orderHandler.GetOrderDeliverable)
		v1.GET("/orders/:id/events", d.orderHandler.GetOrderEvents)
		v1.GET("/providers/:address/orders", d.orderHandler.ListProviderOrders)
		v1.GET("/clients/:address/orders", d.orderHandler.ListClientOrders)

		v1.GET("/marketplace", d.marketHandler.GetStats)
		v1.GET("/escrow/balance", d.marketHandler.GetEscrowBalance)

		v1.GET("/accounts/:address/balance", d.accountHandler.GetBalance)
		v1.GET("/accounts/:address/withdrawals", d.withdrawalHandler.ListWithdrawals)
		v1.GET("/custody/balance", d.accountHandler.GetCustodyBalance)

		// Caller-authenticated mutations
		authed := v1.Group("")
		authed.Use(d.authMiddleware)
		{
			authed.POST("/gigs", d.gigHandler.CreateGig)
			authed.PUT("/gigs/:id", d.gigHandler.UpdateGig)
			authed.POST("/gigs/:id/deactivate", d.gigHandler.DeactivateGig)
			authed.POST("/gigs/:id/orders", idempotent, d.gigHandler.OrderGig)

			authed.POST("/orders/:id/pay", idempotent, d.orderHandler.PayOrder)
			authed.POST("/orders/:id/complete", d.orderHandler.CompleteOrder)
			authed.POST("/orders/:id/release", idempotent, d.orderHandler.ReleasePayment)
			authed.POST("/orders/:id/approve", d.orderHandler.ApprovePayment)
			authed.POST("/orders/:id/claim", idempotent, d.orderHandler.ClaimPayment)

			authed.POST("/deposits", idempotent, d.accountHandler.Deposit)
			authed.POST("/withdrawals", idempotent, d.withdrawalHandler.Withdraw)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware)
		{
			admin.PUT("/fee", d.adminHandler.SetPlatformFee)
			admin.POST("/pause", d.adminHandler.Pause)
			admin.POST("/unpause", d.adminHandler.Unpause)
			admin.POST("/ownership", d.adminHandler.TransferOwnership)
			admin.PUT("/accounts/:address/frozen", d.adminHandler.SetAccountFrozen)
			admin.POST("/fees/withdraw", idempotent, d.withdrawalHandler.WithdrawPlatformFees)
		}
	}
}
