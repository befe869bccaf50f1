package controllers

import (
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
)

// GET /admin/orders
func (h *Handler) AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.LogDebug("Retrieved %d orders", len(orders))

	if page, ok := utils.PaginationFromQuery(c); ok {
		start, end := page.Window(len(orders))
		utils.Success(c, "Orders retrieved successfully", gin.H{"orders": orders[start:end], "pagination": page})
		return
	}
	utils.Success(c, "Orders retrieved successfully", gin.H{"orders": orders})
}

// GET /admin/orders/:id
func (h *Handler) AdminGetOrder(c *gin.Context) {
	utils.LogInfo("AdminGetOrder called")

	order, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.LogError("Order %s lookup failed: %v", c.Param("id"), err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order retrieved successfully", order)
}

// POST /admin/orders/:id/mark-viewed
func (h *Handler) MarkOrderViewed(c *gin.Context) {
	utils.LogInfo("MarkOrderViewed called")

	orderID := c.Param("id")
	if err := h.Orders.MarkViewed(c.Request.Context(), orderID); err != nil {
		utils.LogError("Failed to mark order %s viewed: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Order marked as viewed", gin.H{"success": true})
}

// GET /admin/orders/unviewed/count
func (h *Handler) UnviewedOrderCount(c *gin.Context) {
	utils.LogInfo("UnviewedOrderCount called")

	count := h.Orders.UnviewedCount(c.Request.Context())
	utils.Success(c, "Unviewed orders counted", gin.H{"count": count})
}

// DELETE /admin/orders/:id
func (h *Handler) AdminDeleteOrder(c *gin.Context) {
	utils.LogInfo("AdminDeleteOrder called")

	orderID := c.Param("id")
	if err := h.Orders.Delete(c.Request.Context(), orderID); err != nil {
		utils.LogError("Failed to delete order %s: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	utils.LogInfo("Order %s deleted", orderID)
	utils.Success(c, "Order deleted successfully", nil)
}
