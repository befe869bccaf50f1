package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/repository"
	"github.com/apebrain/shop-api/utils"
)

// CouponService manages discount codes and prices carts with them.
type CouponService struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

func NewCouponService(coupons repository.CouponRepository, now func() time.Time) *CouponService {
	if now == nil {
		now = time.Now
	}
	return &CouponService{coupons: coupons, now: now}
}

// CouponInput carries the fields of a create request.
type CouponInput struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discount_type" binding:"required,coupontype"`
	DiscountValue float64    `json:"discount_value" binding:"gte=0"`
	IsActive      *bool      `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// CouponPatch carries the optional fields of an update request.
type CouponPatch struct {
	Code          *string    `json:"code"`
	DiscountType  *string    `json:"discount_type" binding:"omitempty,coupontype"`
	DiscountValue *float64   `json:"discount_value" binding:"omitempty,gte=0"`
	IsActive      *bool      `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// CouponValidation is the answer to a standalone coupon check.
type CouponValidation struct {
	Valid          bool          `json:"valid"`
	Coupon         CouponSummary `json:"coupon"`
	DiscountAmount float64       `json:"discount_amount"`
}

type CouponSummary struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
}

var (
	errCouponNotFound = utils.NotFoundError("Invalid coupon code", nil)
	errCouponExpired  = utils.InvalidInputError("Coupon has expired", nil)
)

// lookup finds the active coupon for code and checks its expiry.
func (s *CouponService) lookup(ctx context.Context, code string) (*models.Coupon, error) {
	normalized := models.NormalizeCouponCode(code)
	if normalized == "" {
		return nil, errCouponNotFound
	}
	coupon, err := s.coupons.FindActiveByCode(ctx, normalized)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errCouponNotFound
	}
	if err != nil {
		return nil, utils.InternalError("Failed to look up coupon", err)
	}
	if coupon.IsExpired(s.now()) {
		return nil, errCouponExpired
	}
	return coupon, nil
}

// PriceCart applies the coupon named by code, if it is usable, to lines.
// Unknown, inactive and expired codes price the cart without discount.
func (s *CouponService) PriceCart(ctx context.Context, lines []CartLine, code string) (PricedCart, error) {
	if models.NormalizeCouponCode(code) == "" {
		return ApplyCoupon(lines, nil), nil
	}
	coupon, err := s.lookup(ctx, code)
	if err != nil {
		if utils.IsKind(err, utils.KindInternal) {
			return PricedCart{}, err
		}
		utils.LogDebug("Coupon %q not applied: %v", code, err)
		return ApplyCoupon(lines, nil), nil
	}
	return ApplyCoupon(lines, coupon), nil
}

// Validate reports the discount code would grant on orderTotal.
func (s *CouponService) Validate(ctx context.Context, code string, orderTotal float64) (*CouponValidation, error) {
	coupon, err := s.lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	return &CouponValidation{
		Valid: true,
		Coupon: CouponSummary{
			Code:          coupon.Code,
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
		},
		DiscountAmount: DiscountFor(*coupon, orderTotal),
	}, nil
}

// Active returns the coupon advertised in the shop, or nil.
func (s *CouponService) Active(ctx context.Context) (*models.Coupon, error) {
	coupon, err := s.coupons.FindFirstActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.InternalError("Failed to fetch active coupon", err)
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.coupons.List(ctx)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch coupons", err)
	}
	return coupons, nil
}

func validatePercentage(discountType string, value float64) error {
	if discountType == models.DiscountTypePercentage && value > 100 {
		return utils.InvalidInputError("Percentage discount must be between 0 and 100", nil)
	}
	return nil
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	code := models.NormalizeCouponCode(in.Code)
	if code == "" {
		return nil, utils.InvalidInputError("Coupon code is required", nil)
	}
	if err := validatePercentage(in.DiscountType, in.DiscountValue); err != nil {
		return nil, err
	}
	taken, err := s.coupons.CodeTaken(ctx, code, "")
	if err != nil {
		return nil, utils.InternalError("Failed to create coupon", err)
	}
	if taken {
		return nil, utils.ConflictError("Coupon code already exists", nil)
	}

	coupon := &models.Coupon{
		ID:            uuid.New().String(),
		Code:          code,
		DiscountType:  in.DiscountType,
		DiscountValue: in.DiscountValue,
		IsActive:      in.IsActive == nil || *in.IsActive,
		CreatedAt:     s.now().UTC(),
		ExpiresAt:     in.ExpiresAt,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("Coupon code already exists", nil)
		}
		return nil, utils.InternalError("Failed to create coupon", err)
	}
	utils.LogInfo("Coupon %s created (%s %.2f)", coupon.Code, coupon.DiscountType, coupon.DiscountValue)
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id string, patch CouponPatch) (*models.Coupon, error) {
	fields := repository.Fields{}
	if patch.Code != nil {
		code := models.NormalizeCouponCode(*patch.Code)
		if code == "" {
			return nil, utils.InvalidInputError("Coupon code cannot be empty", nil)
		}
		taken, err := s.coupons.CodeTaken(ctx, code, id)
		if err != nil {
			return nil, utils.InternalError("Failed to update coupon", err)
		}
		if taken {
			return nil, utils.ConflictError("Coupon code already exists", nil)
		}
		fields[models.CouponFieldCode] = code
	}
	if patch.DiscountType != nil {
		fields[models.CouponFieldDiscountType] = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		fields[models.CouponFieldDiscountValue] = *patch.DiscountValue
	}
	if patch.IsActive != nil {
		fields[models.CouponFieldIsActive] = *patch.IsActive
	}
	if patch.ExpiresAt != nil {
		fields[models.CouponFieldExpiresAt] = *patch.ExpiresAt
	}
	if len(fields) == 0 {
		return nil, utils.InvalidInputError("No fields to update", nil)
	}

	if patch.DiscountType != nil || patch.DiscountValue != nil {
		current, err := s.coupons.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFoundError("Coupon not found", nil)
		}
		if err != nil {
			return nil, utils.InternalError("Failed to update coupon", err)
		}
		discountType, value := current.DiscountType, current.DiscountValue
		if patch.DiscountType != nil {
			discountType = *patch.DiscountType
		}
		if patch.DiscountValue != nil {
			value = *patch.DiscountValue
		}
		if err := validatePercentage(discountType, value); err != nil {
			return nil, err
		}
	}

	if err := s.coupons.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFoundError("Coupon not found", nil)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ConflictError("Coupon code already exists", nil)
		}
		return nil, utils.InternalError("Failed to update coupon", err)
	}
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, utils.InternalError("Failed to fetch updated coupon", err)
	}
	return coupon, nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	err := s.coupons.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFoundError("Coupon not found", nil)
	}
	if err != nil {
		return utils.InternalError("Failed to delete coupon", err)
	}
	return nil
}
