package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// MountCustomerRoutes registers the customer account endpoints.
func MountCustomerRoutes(r chi.Router, h *CustomerAccountHandler, authMW *middleware.AuthMiddleware) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require(domain.RoleCustomer))
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)
		})
	})
}

// MountAdminRoutes registers the admin account and customer management endpoints.
func MountAdminRoutes(r chi.Router, accounts *AdminAccountHandler, customers *CustomerManagementHandler, authMW *middleware.AuthMiddleware) {
	r.Route("/api/v1/admins", func(r chi.Router) {
		r.Post("/register", accounts.Register)
		r.Post("/login", accounts.Login)
		r.Post("/refresh", accounts.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require(domain.RoleAdmin))
			r.Post("/logout", accounts.Logout)
			r.Get("/me", accounts.Me)
			r.Patch("/me", accounts.UpdateMe)
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(authMW.Require(domain.RoleAdmin))

		r.Get("/customers", customers.ListCustomers)
		r.Route("/customers/{id}", func(r chi.Router) {
			r.Get("/", customers.GetCustomer)
			r.Patch("/", customers.UpdateCustomer)
			r.Post("/top-up", customers.TopUp)
			r.Get("/transactions", customers.ListCustomerTransactions)
			r.Post("/ban", customers.Ban)
			r.Post("/unban", customers.Unban)
		})
		r.Post("/transactions/{id}/reverse", customers.ReverseTransaction)
	})
}

// MountInventoryRoutes registers the admin-only catalogue endpoints.
func MountInventoryRoutes(r chi.Router, h *InventoryHandler, authMW *middleware.AuthMiddleware) {
	r.Route("/api/v1/items", func(r chi.Router) {
		r.Use(authMW.Require(domain.RoleAdmin))

		r.Post("/", h.AddItem)
		r.Get("/", h.ListItems)
		r.Route("/{ref}", func(r chi.Router) {
			r.Get("/", h.GetItem)
			r.Patch("/", h.UpdateItem)
			r.Delete("/", h.DeleteItem)
			r.Post("/restock", h.Restock)
			r.Get("/movements", h.ListMovements)
		})
	})
}

// MountReviewRoutes registers the review endpoints.
func MountReviewRoutes(r chi.Router, h *ReviewHandler, authMW *middleware.AuthMiddleware) {
	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Get("/by-customer", h.ListByCustomer)
		r.Get("/by-item/{ref}", h.ListByItem)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require(domain.RoleCustomer))
			r.Post("/", h.Add)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// MountSalesRoutes registers purchase, reversal and catalogue endpoints.
func MountSalesRoutes(r chi.Router, h *SalesHandler, authMW *middleware.AuthMiddleware) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/items", h.ListItems)
		r.Get("/items/{ref}", h.GetItem)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Require(domain.RoleCustomer))
			r.Post("/purchase", h.Purchase)
			r.Get("/transactions", h.ListTransactions)
			r.Post("/transactions/{id}/reverse", h.Reverse)
		})
	})
}
