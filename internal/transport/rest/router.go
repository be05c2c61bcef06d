package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/javokhirdev/rental-management/internal/auth"
	"github.com/javokhirdev/rental-management/internal/category"
	"github.com/javokhirdev/rental-management/internal/lending"
	"github.com/javokhirdev/rental-management/internal/product"
	"github.com/javokhirdev/rental-management/internal/report"
	"github.com/javokhirdev/rental-management/internal/sale"
	"github.com/javokhirdev/rental-management/internal/tariff"
	"github.com/javokhirdev/rental-management/internal/transport/middleware"
	"github.com/javokhirdev/rental-management/internal/transport/swagger"
	"github.com/javokhirdev/rental-management/internal/user"
)

// Handlers bundles every domain handler the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Category *category.Handler
	Product  *product.Handler
	Lending  *lending.Handler
	Sale     *sale.Handler
	Tariff   *tariff.Handler
	Report   *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Everything below requires a valid access token; per-role rules
		// live in the services.
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/users", func(ur chi.Router) {
				ur.Post("/", h.User.Signup)
				ur.Get("/", h.User.ListUsers)
				ur.Get("/me", h.User.GetCurrentUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.Patch("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeleteUser)
			})

			pr.Route("/categories", func(cr chi.Router) {
				cr.Post("/", h.Category.CreateCategory)
				cr.Get("/", h.Category.GetCategories)
				cr.Get("/{id}", h.Category.GetCategory)
				cr.Patch("/{id}", h.Category.UpdateCategory)
				cr.Delete("/{id}", h.Category.DeleteCategory)
			})

			pr.Route("/products", func(ps chi.Router) {
				ps.Post("/", h.Product.CreateProduct)
				ps.Get("/", h.Product.ListProducts)
				ps.Get("/{id}", h.Product.GetProduct)
				ps.Patch("/{id}", h.Product.UpdateProduct)
				ps.Patch("/{id}/status", h.Product.UpdateProductStatus)
				ps.Delete("/{id}", h.Product.DeleteProduct)
			})

			pr.Route("/lendings", func(lr chi.Router) {
				lr.Post("/", h.Lending.CreateLending)
				lr.Get("/", h.Lending.ListLendings)
				lr.Get("/{id}", h.Lending.GetLending)
				lr.Post("/{id}/return", h.Lending.ReturnProduct)
			})

			pr.Route("/sales", func(sr chi.Router) {
				sr.Post("/", h.Sale.CreateSale)
				sr.Get("/", h.Sale.ListSales)
				sr.Get("/{id}", h.Sale.GetSale)
				sr.Patch("/{id}/status", h.Sale.UpdateSaleStatus)
			})

			pr.Route("/cart", func(cr chi.Router) {
				cr.Get("/", h.Sale.GetCart)
				cr.Post("/items", h.Sale.AddCartItem)
				cr.Delete("/items/{itemID}", h.Sale.RemoveCartItem)
				cr.Post("/checkout", h.Sale.Checkout)
			})

			pr.Route("/tariffs", func(tr chi.Router) {
				tr.Post("/", h.Tariff.CreateTariff)
				tr.Get("/", h.Tariff.ListTariffs)
				tr.Get("/active", h.Tariff.GetActiveTariff)
			})

			pr.Route("/reports", func(rr chi.Router) {
				rr.Get("/revenue", h.Report.Revenue)
				rr.Get("/sellers", h.Report.SellerKPIs)
				rr.Get("/balances", h.Report.SellerBalances)
				rr.Get("/withdrawals", h.Report.ListWithdrawals)
				rr.Post("/withdrawals", h.Report.RecordWithdrawal)
			})
		})
	})
}
