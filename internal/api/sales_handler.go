package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/service"
)

// SalesHandler serves purchases, reversals and the public catalogue.
type SalesHandler struct {
	sales  service.SalesService
	logger *slog.Logger
}

// NewSalesHandler creates a new SalesHandler.
func NewSalesHandler(sales service.SalesService, logger *slog.Logger) *SalesHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SalesHandler")
	}
	return &SalesHandler{
		sales:  sales,
		logger: logger.With(slog.String("component", "sales_handler")),
	}
}

// Purchase handles POST /api/v1/sales/purchase.
func (h *SalesHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.logger)
	p, ok := requirePrincipal(w, r, log)
	if !ok {
		return
	}
	var req PurchaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	txn, err := h.sales.Purchase(r.Context(), p.AccountID, req.ItemIDsOrNames, req.ItemQuantities)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete purchase")
		return
	}

	log.Info("purchase completed",
		slog.Int64("transaction_id", txn.ID),
		slog.Int("lines", len(txn.Lines)))
	shared.RespondWithJSON(w, r, http.StatusCreated, transactionToResponse(txn))
}

// Reverse handles POST /api/v1/sales/transactions/{id}/reverse.
func (h *SalesHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txn, err := h.sales.Reverse(r.Context(), p.AccountID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reverse transaction")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transactionToResponse(txn))
}

// ListTransactions handles GET /api/v1/sales/transactions.
func (h *SalesHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	p, ok := requirePrincipal(w, r, requestLogger(r, h.logger))
	if !ok {
		return
	}
	page, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txns, err := h.sales.ListTransactions(r.Context(), p.AccountID, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list transactions")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, transactionsToResponse(txns))
}

// GetItem handles GET /api/v1/sales/items/{ref}.
func (h *SalesHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	getItem(w, r, h.sales.GetItem)
}

// ListItems handles GET /api/v1/sales/items.
func (h *SalesHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	listItems(w, r, h.sales.ListItems)
}
