package controllers

import (
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// GET /track-order?order_id=&email=
func (h *Handler) TrackOrder(c *gin.Context) {
	utils.LogInfo("TrackOrder called")

	orderID := c.Query("order_id")
	email := c.Query("email")
	if orderID == "" || email == "" {
		utils.LogError("Track order request missing order_id or email")
		utils.BadRequest(c, "order_id and email are required", nil)
		return
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		utils.BadRequest(c, msg, nil)
		return
	}

	view, err := h.Orders.Track(c.Request.Context(), orderID, email)
	if err != nil {
		utils.LogError("Track order %s failed: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Order retrieved successfully", view)
}

// GET /auth/orders
func (h *Handler) MyOrders(c *gin.Context) {
	utils.LogInfo("MyOrders called")

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	orders, err := h.Orders.ListForCustomer(c.Request.Context(), user.Email)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.LogDebug("Found %d orders for user %s", len(orders), user.ID)
	utils.Success(c, "Orders retrieved successfully", gin.H{"orders": orders})
}
