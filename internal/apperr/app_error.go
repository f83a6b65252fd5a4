package apperr

import "github.com/tuanvumaihuynh/warehouse/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"

	ItemNotFoundCode      = "ITEM_NOT_FOUND"
	ItemNameConflictCode  = "ITEM_NAME_CONFLICT"
	ItemSkuConflictCode   = "ITEM_SKU_CONFLICT"
	QuantityBelowZeroCode = "QUANTITY_BELOW_ZERO"
	InvalidQuantityCode   = "INVALID_QUANTITY_AMOUNT"
	QuantityAboveMaxCode  = "QUANTITY_ABOVE_MAX"

	CategoryNotFoundCode     = "CATEGORY_NOT_FOUND"
	CategoryNameConflictCode = "CATEGORY_NAME_CONFLICT"
	CategoryInUseCode        = "CATEGORY_IN_USE"

	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	UnauthorizedCode       = "UNAUTHORIZED"
	ForbiddenCode          = "FORBIDDEN"
	UsernameConflictCode   = "USERNAME_CONFLICT"
	EmailConflictCode      = "EMAIL_CONFLICT"
	InvalidRoleCode        = "INVALID_ROLE"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	ItemNotFoundErr      = zerror.NewNotFound(ItemNotFoundCode, "item not found")
	ItemNameConflictErr  = zerror.NewConflict(ItemNameConflictCode, "item name already exists")
	ItemSkuConflictErr   = zerror.NewConflict(ItemSkuConflictCode, "item sku already exists")
	QuantityBelowZeroErr = zerror.NewBadRequest(QuantityBelowZeroCode, "quantity cannot be reduced below 0")
	InvalidQuantityErr   = zerror.NewBadRequest(InvalidQuantityCode, "quantity amount must be at least 1")
	QuantityAboveMaxErr  = zerror.NewBadRequest(QuantityAboveMaxCode, "quantity cannot be raised above 2147483647")

	CategoryNotFoundErr     = zerror.NewNotFound(CategoryNotFoundCode, "category not found")
	CategoryNameConflictErr = zerror.NewConflict(CategoryNameConflictCode, "category name already exists")
	CategoryInUseErr        = zerror.NewConflict(CategoryInUseCode, "category is referenced by items")

	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid username or password")
	UnauthorizedErr       = zerror.NewUnauthorized(UnauthorizedCode, "authentication required")
	ForbiddenErr          = zerror.NewForbidden(ForbiddenCode, "insufficient permissions")
	UsernameConflictErr   = zerror.NewConflict(UsernameConflictCode, "username already exists")
	EmailConflictErr      = zerror.NewConflict(EmailConflictCode, "email already exists")
	InvalidRoleErr        = zerror.NewBadRequest(InvalidRoleCode, "invalid role")
)
