package controllers

import (
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest checks a code against the cart total shown to the customer.
type ValidateCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderTotal float64 `json:"order_total" binding:"gte=0"`
}

// GET /coupons/active
func (h *Handler) ActiveCoupon(c *gin.Context) {
	utils.LogInfo("ActiveCoupon called")

	coupon, err := h.Coupons.Active(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if coupon == nil {
		utils.Success(c, "No active coupon", gin.H{"coupon": nil})
		return
	}
	utils.Success(c, "Active coupon retrieved", gin.H{"coupon": coupon})
}

// POST /coupons/validate
func (h *Handler) ValidateCoupon(c *gin.Context) {
	utils.LogInfo("ValidateCoupon called")

	var req ValidateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.Coupons.Validate(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		utils.LogDebug("Coupon %q rejected: %v", req.Code, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Coupon is valid", result)
}

// GET /admin/coupons
func (h *Handler) ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")

	coupons, err := h.Coupons.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Coupons retrieved successfully", gin.H{"coupons": coupons})
}

// POST /admin/coupons
func (h *Handler) CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req services.CouponInput
	if !bindJSON(c, &req) {
		return
	}
	utils.LogDebug("Creating coupon %s", req.Code)

	coupon, err := h.Coupons.Create(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Failed to create coupon %s: %v", req.Code, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Coupon %s created", coupon.Code)
	utils.Created(c, "Coupon created successfully", coupon)
}

// PUT /admin/coupons/:id
func (h *Handler) UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	var req services.CouponPatch
	if !bindJSON(c, &req) {
		return
	}

	coupon, err := h.Coupons.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.LogError("Failed to update coupon %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Coupon updated successfully", coupon)
}

// DELETE /admin/coupons/:id
func (h *Handler) DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	if err := h.Coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.LogError("Failed to delete coupon %s: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Coupon deleted successfully", nil)
}
