// internal/registry/errors.go
package registry

import "errors"

// Validation failures abort an operation before any mutation; callers receive
// one of these sentinel errors (possibly wrapped) and can branch on the code.
var (
	ErrNotAuthorized   = errors.New("caller is not authorized for this operation")
	ErrNotFound        = errors.New("asset not found")
	ErrNotOwner        = errors.New("caller is not the current asset owner")
	ErrAlreadyLicensed = errors.New("caller already holds an active license for this asset")
	ErrListingNotFound = errors.New("no active listing for this asset")
	ErrIncorrectPayment = errors.New("payment transfer was rejected")
	ErrLicenseInactive = errors.New("no active license for this asset and licensee")
	ErrMetadataFrozen  = errors.New("asset metadata is frozen")
	ErrInvalidRoyalty  = errors.New("royalty percent must be between 0 and 100")
	ErrZeroAmount      = errors.New("amount must be positive")
	ErrInvalidInput    = errors.New("invalid or empty input field")
)

// ErrorCode maps a registry error to a stable machine-readable code so API
// clients can branch without parsing message text.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrNotOwner):
		return "NOT_OWNER"
	case errors.Is(err, ErrAlreadyLicensed):
		return "ALREADY_LICENSED"
	case errors.Is(err, ErrListingNotFound):
		return "LISTING_NOT_FOUND"
	case errors.Is(err, ErrIncorrectPayment):
		return "INCORRECT_PAYMENT"
	case errors.Is(err, ErrLicenseInactive):
		return "LICENSE_INACTIVE"
	case errors.Is(err, ErrMetadataFrozen):
		return "METADATA_FROZEN"
	case errors.Is(err, ErrInvalidRoyalty):
		return "INVALID_ROYALTY"
	case errors.Is(err, ErrZeroAmount):
		return "ZERO_AMOUNT"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}
