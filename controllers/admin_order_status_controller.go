package controllers

import (
	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest may arrive as query parameters or a JSON body.
type UpdateOrderStatusRequest struct {
	Status          string `json:"status" form:"status" binding:"required,orderstatus"`
	TrackingNumber  string `json:"tracking_number" form:"tracking_number"`
	ShippingCarrier string `json:"shipping_carrier" form:"shipping_carrier"`
}

// PUT /admin/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("UpdateOrderStatus called")

	orderID := c.Param("id")
	var req UpdateOrderStatusRequest
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	} else if err := c.ShouldBindQuery(&req); err != nil {
		utils.LogError("Invalid status request for order %s: %v", orderID, err)
		utils.ValidationError(c, "Invalid status", utils.DescribeValidationErrors(err))
		return
	}
	utils.LogDebug("Setting order %s to %s", orderID, req.Status)

	order, err := h.Orders.SetStatus(c.Request.Context(), orderID, req.Status, &services.TrackingInput{
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
	})
	if err != nil {
		utils.LogError("Failed to update order %s status: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order status updated to "+req.Status, order)
}

// PUT /admin/orders/:id/tracking
func (h *Handler) UpdateOrderTracking(c *gin.Context) {
	utils.LogInfo("UpdateOrderTracking called")

	orderID := c.Param("id")
	var req services.TrackingInput
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &req) {
			return
		}
	} else if err := c.ShouldBindQuery(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err)
		return
	}

	order, err := h.Orders.SetTracking(c.Request.Context(), orderID, req)
	if err != nil {
		utils.LogError("Failed to update tracking for order %s: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Tracking %s recorded for order %s", order.TrackingNumber, orderID)
	utils.Success(c, "Tracking information updated", order)
}
