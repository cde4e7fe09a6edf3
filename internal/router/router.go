package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/amalasyrafInvoke/set-finalproject/internal/http"
	"github.com/amalasyrafInvoke/set-finalproject/internal/reports"
	"github.com/amalasyrafInvoke/set-finalproject/internal/savings"
	"github.com/amalasyrafInvoke/set-finalproject/internal/transactions"
	"github.com/amalasyrafInvoke/set-finalproject/internal/wallet"
)

type Router struct {
	AuthHandler         *handlers.AuthHandler
	WalletHandler       *wallet.Handler
	TransactionsHandler *transactions.Handler
	SavingsHandler      *savings.Handler
	ReportsHandler      *reports.Handler
	AuthMW              fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	if r.AuthHandler != nil {
		app.Post("/api/auth/register", RateLimitAuth(), r.AuthHandler.Register)
		app.Post("/api/auth/login", RateLimitAuth(), r.AuthHandler.Login)
		app.Post("/api/auth/logout", r.AuthMW, r.AuthHandler.Logout)
		app.Post("/api/auth/refresh", r.AuthMW, r.AuthHandler.Refresh)
		app.Get("/api/auth/user-profile", r.AuthMW, r.AuthHandler.UserProfile)
		app.Post("/api/auth/update-user", r.AuthMW, r.AuthHandler.UpdateUser)
	}

	if r.WalletHandler != nil {
		app.Post("/api/create-wallet", r.AuthMW, r.WalletHandler.CreateWallet)
		app.Get("/api/fetch-wallet/:id", r.AuthMW, r.WalletHandler.FetchWallet)
	}

	if r.TransactionsHandler != nil {
		app.Get("/api/transactions/all/:accountId", r.AuthMW, r.TransactionsHandler.List)
		app.Get("/api/transactions/pastSevenDays/:accountId", r.AuthMW, r.TransactionsHandler.PastSevenDays)
		app.Post("/api/transactions/create/:accountId", RateLimitWrite(), r.AuthMW, r.TransactionsHandler.Create)
	}

	if r.SavingsHandler != nil {
		app.Get("/api/savings/all", r.AuthMW, r.SavingsHandler.List)
		app.Get("/api/savings/get/:id", r.AuthMW, r.SavingsHandler.Get)
		app.Post("/api/savings/create", r.AuthMW, r.SavingsHandler.Create)
		app.Put("/api/savings/update/:savingsId", r.AuthMW, r.SavingsHandler.Update)
		app.Put("/api/savings/delete/:savingsId", r.AuthMW, r.SavingsHandler.Delete)
		app.Get("/api/savings/getTransactions/:savingsId", r.AuthMW, r.SavingsHandler.ListTransactions)
		app.Post("/api/savings/create-transaction/:savingsId", RateLimitWrite(), r.AuthMW, r.SavingsHandler.CreateTransaction)
	}

	if r.ReportsHandler != nil {
		app.Get("/api/reports/statement/:accountId", r.AuthMW, r.ReportsHandler.Statement)
	}
}
