package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
)

// CustomerAccountHandler serves a customer's own account endpoints.
type CustomerAccountHandler struct {
	accounts service.CustomerAccountService
	logger   *slog.Logger
}

// NewCustomerAccountHandler creates a new CustomerAccountHandler.
func NewCustomerAccountHandler(accounts service.CustomerAccountService, logger *slog.Logger) *CustomerAccountHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CustomerAccountHandler")
	}
	return &CustomerAccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "customer_account_handler")),
	}
}

// Register handles POST /api/v1/customers/register.
func (h *CustomerAccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, tokens, err := h.accounts.Register(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newAuthResponse(customer.ID, domain.RoleCustomer, tokens))
}

// Login handles POST /api/v1/customers/login.
func (h *CustomerAccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, tokens, err := h.accounts.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(customer.ID, domain.RoleCustomer, tokens))
}

// Refresh handles POST /api/v1/customers/refresh.
func (h *CustomerAccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(0, domain.RoleCustomer, tokens))
}

// Logout handles POST /api/v1/customers/logout.
func (h *CustomerAccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	p, ok := requirePrincipal(w, r, log)
	if !ok {
		return
	}

	if err := h.accounts.Logout(r.Context(), p.AccountID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	log.Info("customer logged out")
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/v1/customers/me.
func (h *CustomerAccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}

	customer, err := h.accounts.Get(r.Context(), p.AccountID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// UpdateMe handles PATCH /api/v1/customers/me.
func (h *CustomerAccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	var req ProfileUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.accounts.UpdateProfile(r.Context(), p.AccountID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// AdminAccountHandler serves an admin's own account endpoints.
type AdminAccountHandler struct {
	accounts service.AdminAccountService
	logger   *slog.Logger
}

// NewAdminAccountHandler creates a new AdminAccountHandler.
func NewAdminAccountHandler(accounts service.AdminAccountService, logger *slog.Logger) *AdminAccountHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AdminAccountHandler")
	}
	return &AdminAccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "admin_account_handler")),
	}
}

// Register handles POST /api/v1/admins/register.
func (h *AdminAccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, tokens, err := h.accounts.Register(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register admin")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newAuthResponse(admin.ID, domain.RoleAdmin, tokens))
}

// Login handles POST /api/v1/admins/login.
func (h *AdminAccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, tokens, err := h.accounts.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to authenticate admin")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(admin.ID, domain.RoleAdmin, tokens))
}

// Refresh handles POST /api/v1/admins/refresh.
func (h *AdminAccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newAuthResponse(0, domain.RoleAdmin, tokens))
}

// Logout handles POST /api/v1/admins/logout.
func (h *AdminAccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	p, ok := requirePrincipal(w, r, log)
	if !ok {
		return
	}

	if err := h.accounts.Logout(r.Context(), p.AccountID); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}

	log.Info("admin logged out")
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Logged out successfully"})
}

// Me handles GET /api/v1/admins/me.
func (h *AdminAccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}

	admin, err := h.accounts.Get(r.Context(), p.AccountID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get admin")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, adminToResponse(admin))
}

// UpdateMe handles PATCH /api/v1/admins/me.
func (h *AdminAccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	var req ProfileUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := h.accounts.UpdateProfile(r.Context(), p.AccountID, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, adminToResponse(admin))
}
