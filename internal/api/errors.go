package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing the error itself.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case err == nil:
		return http.StatusOK

	// Authentication
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountNotFound):
		return http.StatusUnauthorized

	// Authorization
	case errors.Is(err, service.ErrForbiddenRole),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrItemNotPurchased),
		errors.Is(err, domain.ErrCustomerBanned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts with current state
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAlreadyReversed),
		errors.Is(err, domain.ErrReversalWindowClosed),
		errors.Is(err, domain.ErrCustomerInactive):
		return http.StatusConflict

	// Bad input
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &validationErrs),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Messages name
// the offending field, item or currency but never echo internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		fieldErr      *domain.ValidationError
		validationErr validator.ValidationErrors
		missingItem   *store.MissingItemError
		stockErr      *domain.InsufficientStockError
		balanceErr    *domain.InsufficientBalanceError
	)

	switch {
	// Authentication
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token expired"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrTokenRevoked):
		return "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, service.ErrAccountNotFound):
		return "Account no longer exists"

	// Authorization
	case errors.Is(err, service.ErrForbiddenRole):
		return "Insufficient permissions"
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"
	case errors.Is(err, service.ErrItemNotPurchased):
		return "You can only review items you have purchased"
	case errors.Is(err, domain.ErrCustomerBanned):
		return "Customer is banned"

	// Not found
	case errors.As(err, &missingItem):
		return fmt.Sprintf("Item %q not found", missingItem.Ref)
	case errors.Is(err, store.ErrCustomerNotFound):
		return "Customer not found"
	case errors.Is(err, store.ErrAdminNotFound):
		return "Admin not found"
	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"
	case errors.Is(err, store.ErrTransactionNotFound):
		return "Transaction not found"
	case errors.Is(err, store.ErrReviewNotFound):
		return "Review not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	// Conflicts
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrPhoneExists):
		return "Phone number already exists"
	case errors.Is(err, store.ErrItemNameExists):
		return "Item name already exists"
	case errors.Is(err, store.ErrReviewExists):
		return "You have already reviewed this item"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Insufficient stock for %s: only %d left", stockErr.ItemName, stockErr.Available)
	case errors.As(err, &balanceErr):
		return fmt.Sprintf("Insufficient %s balance: required %s, available %s",
			balanceErr.Currency, balanceErr.Required, balanceErr.Available)
	case errors.Is(err, domain.ErrAlreadyReversed):
		return "Transaction already reversed"
	case errors.Is(err, domain.ErrReversalWindowClosed):
		return "Reversal window closed"
	case errors.Is(err, domain.ErrCustomerInactive):
		return "Customer is not active"

	// Bad input
	case errors.As(err, &fieldErr):
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	case errors.As(err, &validationErr):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case MapErrorToStatusCode(err) == http.StatusBadRequest:
		return "Invalid request format"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns struct-tag validation failures into a short
// message about the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}
	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe))
}

func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "excluded_with":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. fallback
// replaces the generic message on 500s so clients can tell what failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
