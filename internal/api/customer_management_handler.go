package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/store"
)

// CustomerManagementHandler serves the admin-only customer endpoints.
type CustomerManagementHandler struct {
	customers service.CustomerManagementService
	logger    *slog.Logger
}

// NewCustomerManagementHandler creates a new CustomerManagementHandler.
func NewCustomerManagementHandler(customers service.CustomerManagementService, logger *slog.Logger) *CustomerManagementHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CustomerManagementHandler")
	}
	return &CustomerManagementHandler{
		customers: customers,
		logger:    logger.With(slog.String("component", "customer_management_handler")),
	}
}

// TopUp handles POST /api/v1/admin/customers/{id}/top-up.
func (h *CustomerManagementHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req TopUpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	customer, err := h.customers.TopUp(r.Context(), id, *req.Amount, currency)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to top up customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// UpdateCustomer handles PATCH /api/v1/admin/customers/{id}.
func (h *CustomerManagementHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	var req ProfileUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	customer, err := h.customers.UpdateCustomer(r.Context(), id, req.toUpdate())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// GetCustomer handles GET /api/v1/admin/customers/{id}.
func (h *CustomerManagementHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	customer, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get customer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// ListCustomerTransactions handles GET /api/v1/admin/customers/{id}/transactions.
func (h *CustomerManagementHandler) ListCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txns, err := h.customers.ListCustomerTransactions(r.Context(), id, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list transactions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transactionsToResponse(txns))
}

// Ban handles POST /api/v1/admin/customers/{id}/ban.
func (h *CustomerManagementHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.CustomerBanned)
}

// Unban handles POST /api/v1/admin/customers/{id}/unban.
func (h *CustomerManagementHandler) Unban(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, domain.CustomerActive)
}

func (h *CustomerManagementHandler) setStatus(w http.ResponseWriter, r *http.Request, status domain.CustomerStatus) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	customer, err := h.customers.SetStatus(r.Context(), id, status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to change customer status")
		return
	}

	requestLogger(r, h.logger).Info("customer status set",
		slog.Int64("customer_id", id),
		slog.String("status", string(status)))
	shared.RespondWithJSON(w, r, http.StatusOK, customerToResponse(customer))
}

// ListCustomers handles GET /api/v1/admin/customers with an optional
// status=active|banned filter.
func (h *CustomerManagementHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	filter := store.CustomerFilter{Page: page}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseCustomerStatus(raw)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		filter.Status = &status
	}

	customers, err := h.customers.ListCustomers(r.Context(), filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list customers")
		return
	}

	out := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerToResponse(c))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CustomerListResponse{Customers: out})
}

// ReverseTransaction handles POST /api/v1/admin/transactions/{id}/reverse.
func (h *CustomerManagementHandler) ReverseTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txn, err := h.customers.ReverseTransaction(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reverse transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transactionToResponse(txn))
}
