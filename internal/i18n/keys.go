// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Assets
	KeyAssetMinted      = "asset.minted"
	KeyAssetTransferred = "asset.transferred"
	KeyAssetFrozen      = "asset.frozen"
	KeyAssetNotFound    = "asset.not_found"

	// Listings
	KeyListingCreated  = "listing.created"
	KeyListingRemoved  = "listing.removed"
	KeyListingNotFound = "listing.not_found"

	// Licenses
	KeyLicenseExecuted = "license.executed"
	KeyLicenseRevoked  = "license.revoked"
	KeyLicenseNotFound = "license.not_found"
	KeyRoyaltyPaid     = "license.royalty_paid"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"
	KeyPayoutRequested      = "payment.payout_requested"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileTooLarge      = "file.too_large"
)
