package controllers

import (
	"fmt"
	"math"
	"time"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// orderSummary totals the exported orders.
type orderSummary struct {
	Orders    int
	Paid      int
	Items     int
	Customers int
	Revenue   float64
	Discounts float64
}

func summarizeOrders(orders []models.Order) orderSummary {
	var s orderSummary
	customers := make(map[string]bool)
	for _, order := range orders {
		s.Orders++
		customers[order.CustomerEmail] = true
		for _, item := range order.Items {
			s.Items += item.Quantity
		}
		if order.Status == models.OrderStatusPending || order.Status == models.OrderStatusCancelled {
			continue
		}
		s.Paid++
		s.Revenue += order.Total
		s.Discounts += order.DiscountAmount
	}
	s.Customers = len(customers)
	s.Revenue = math.Round(s.Revenue*100) / 100
	s.Discounts = math.Round(s.Discounts*100) / 100
	return s
}

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// buildOrderWorkbook lays out one row per order followed by a summary block.
func buildOrderWorkbook(orders []models.Order, generated time.Time) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	sheet.AddRow().AddCell().SetString("APEBRAIN.CLOUD - Orders")
	sheet.AddRow().AddCell().SetString("Generated: " + generated.Format("2006-01-02 15:04"))
	sheet.AddRow()

	headers := []string{"Order ID", "Date", "Customer", "Items", "Coupon", "Discount", "Total", "Status", "Carrier", "Tracking Number"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(boldStyle())
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(order.ID)
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(order.CustomerEmail)
		row.AddCell().SetInt(len(order.Items))
		row.AddCell().SetString(order.CouponCode)
		row.AddCell().SetFloat(order.DiscountAmount)
		row.AddCell().SetFloat(order.Total)
		row.AddCell().SetString(order.Status)
		row.AddCell().SetString(order.ShippingCarrier)
		row.AddCell().SetString(order.TrackingNumber)
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	summaryRow.Cells[0].SetStyle(boldStyle())

	summary := summarizeOrders(orders)
	summaryData := [][]string{
		{"Total Orders", fmt.Sprintf("%d", summary.Orders)},
		{"Paid Orders", fmt.Sprintf("%d", summary.Paid)},
		{"Total Items", fmt.Sprintf("%d", summary.Items)},
		{"Customers", fmt.Sprintf("%d", summary.Customers)},
		{"Revenue", fmt.Sprintf("%.2f", summary.Revenue)},
		{"Discounts", fmt.Sprintf("%.2f", summary.Discounts)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}
	return file, nil
}

// GET /admin/orders/export
func (h *Handler) ExportOrdersExcel(c *gin.Context) {
	utils.LogInfo("ExportOrdersExcel called")

	orders, err := h.Orders.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.LogDebug("Exporting %d orders", len(orders))

	now := time.Now()
	file, err := buildOrderWorkbook(orders, now)
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to create Excel sheet", err))
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", now.Format("20060102")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		return
	}
	utils.LogInfo("Exported %d orders to Excel", len(orders))
}
