package controllers

import (
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// ExecutePaymentRequest carries the payment and payer identifiers.
type ExecutePaymentRequest struct {
	PaymentID string `json:"payment_id" form:"payment_id"`
	PayerID   string `json:"payer_id" form:"payer_id"`
}

// firstQuery returns the first non-empty query parameter among keys.
func firstQuery(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}

// POST /shop/create-order
func (h *Handler) CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")

	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}
	utils.LogDebug("Checkout for %s with %d items, coupon %q", req.CustomerEmail, len(req.Items), req.CouponCode)

	checkout, err := h.Orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.LogError("Failed to create order for %s: %v", req.CustomerEmail, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %s created with payment %s", checkout.OrderID, checkout.PaymentID)
	utils.Success(c, "Order created", checkout)
}

// POST /shop/execute-payment
// Identifiers may come in the JSON body or the query. Besides payment_id and
// payer_id the query accepts the names PayPal appends to the return URL:
// token (orders API) or paymentId, and PayerID.
func (h *Handler) ExecutePayment(c *gin.Context) {
	utils.LogInfo("ExecutePayment called")

	var req ExecutePaymentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.LogError("Invalid payment query: %v", err)
		utils.BadRequest(c, "Invalid request", err)
		return
	}
	if req.PaymentID == "" {
		req.PaymentID = firstQuery(c, "token", "paymentId")
	}
	if req.PayerID == "" {
		req.PayerID = c.Query("PayerID")
	}
	if c.Request.ContentLength > 0 {
		var body ExecutePaymentRequest
		if !bindJSON(c, &body) {
			return
		}
		if body.PaymentID != "" {
			req.PaymentID = body.PaymentID
		}
		if body.PayerID != "" {
			req.PayerID = body.PayerID
		}
	}

	result, err := h.Orders.ConfirmPayment(c.Request.Context(), req.PaymentID, req.PayerID)
	if err != nil {
		utils.LogError("Payment execution failed for %s: %v", req.PaymentID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Payment %s executed", req.PaymentID)
	utils.Success(c, result.Message, result)
}
