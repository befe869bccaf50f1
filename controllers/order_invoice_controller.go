package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/apebrain/shop-api/services"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GET /orders/:id/invoice?email=
// The invoice is public but only issued when email matches the order.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	orderID := c.Param("id")
	email := c.Query("email")
	if email == "" {
		utils.LogError("Invoice request for order %s without email", orderID)
		utils.BadRequest(c, "email is required", nil)
		return
	}

	order, err := h.Orders.Track(c.Request.Context(), orderID, email)
	if err != nil {
		utils.LogError("Invoice lookup failed for order %s: %v", orderID, err)
		utils.RespondError(c, err)
		return
	}

	buf, err := renderInvoice(order)
	if err != nil {
		utils.LogError("Failed to render invoice for order %s: %v", orderID, err)
		utils.RespondError(c, utils.InternalError("Failed to generate invoice", err))
		return
	}
	utils.LogInfo("PDF invoice generated for order %s", orderID)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%s.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func renderInvoice(order *services.OrderView) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "ApeBrain.cloud")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Mushrooms, wellness and consciousness")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Order ID: "+order.ID)
	pdf.Ln(8)
	pdf.Cell(70, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Billed To: "+order.CustomerEmail)
	pdf.Ln(8)
	if order.TrackingNumber != "" {
		pdf.Cell(100, 8, "Shipment: "+order.ShippingCarrier+" "+order.TrackingNumber)
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	var subtotal float64
	for _, item := range order.Items {
		subtotal += item.LineTotal()
		pdf.CellFormat(80, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := [][2]string{
		{"Subtotal:", fmt.Sprintf("%.2f", subtotal)},
		{"Discount:", fmt.Sprintf("%.2f", order.DiscountAmount)},
	}
	if order.CouponCode != "" {
		summary[1][0] = "Discount (" + order.CouponCode + "):"
	}
	for _, line := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(130, 8, line[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, line[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(130, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", order.Total), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for shopping with ApeBrain.cloud!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
