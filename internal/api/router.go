// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finledger/internal/api/handler"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Users        *handler.UserHandler
	Transactions *handler.TransactionHandler
	Summaries    *handler.SummaryHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)                       // Add a request ID to the context
	r.Use(middleware.RealIP)                          // Use the real IP address
	r.Use(middleware.Logger)                          // Log HTTP requests
	r.Use(middleware.Recoverer)                       // Recover from panics and return 500
	r.Use(middleware.StripSlashes)                    // /users/ and /users route the same
	r.Use(middleware.Timeout(handler.DefaultTimeout)) // Bound request time

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.ListUsers)
			r.Post("/", h.Users.CreateUser)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", h.Users.GetUser)
				r.Delete("/", h.Users.DeleteUser)
				r.Get("/account-summary", h.Summaries.AccountSummary)
				r.Get("/category-summary", h.Summaries.CategorySummary)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.Transactions.ListTransactions)
			r.Post("/", h.Transactions.CreateTransactions)
			r.Get("/{transactionID}", h.Transactions.GetTransaction)
		})
	})

	return r
}
