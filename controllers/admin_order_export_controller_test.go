package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apebrain/shop-api/models"
	"github.com/apebrain/shop-api/services"
)

func exportFixture() []models.Order {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []models.Order{
		{
			ID:             "o-1",
			CustomerEmail:  "a@example.com",
			Items:          []models.OrderItem{{ProductID: "phys-1", Name: "Lion's Mane Extract", Price: 29.99, Quantity: 2}},
			Total:          53.98,
			DiscountAmount: 6,
			CouponCode:     "SPRING10",
			Status:         models.OrderStatusShipped,
			CreatedAt:      created,
		},
		{
			ID:            "o-2",
			CustomerEmail: "a@example.com",
			Items:         []models.OrderItem{{ProductID: "digi-1", Name: "Guide", Price: 19.99, Quantity: 1}},
			Total:         19.99,
			Status:        models.OrderStatusPending,
			CreatedAt:     created,
		},
		{
			ID:            "o-3",
			CustomerEmail: "b@example.com",
			Items:         []models.OrderItem{{ProductID: "phys-3", Name: "Grow Kit", Price: 49.99, Quantity: 1}},
			Total:         49.99,
			Status:        models.OrderStatusPaid,
			CreatedAt:     created,
		},
	}
}

func TestSummarizeOrdersSkipsUnpaid(t *testing.T) {
	summary := summarizeOrders(exportFixture())

	assert.Equal(t, 3, summary.Orders)
	assert.Equal(t, 2, summary.Paid)
	assert.Equal(t, 4, summary.Items)
	assert.Equal(t, 2, summary.Customers)
	assert.Equal(t, 103.97, summary.Revenue)
	assert.Equal(t, 6.0, summary.Discounts)
}

func TestBuildOrderWorkbook(t *testing.T) {
	file, err := buildOrderWorkbook(exportFixture(), time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)

	header := sheet.Rows[3]
	assert.Equal(t, "Order ID", header.Cells[0].Value)
	assert.Equal(t, "Tracking Number", header.Cells[9].Value)

	first := sheet.Rows[4]
	assert.Equal(t, "o-1", first.Cells[0].Value)
	assert.Equal(t, "SPRING10", first.Cells[4].Value)

	last := sheet.Rows[len(sheet.Rows)-1]
	assert.Equal(t, "Discounts", last.Cells[0].Value)
	assert.Equal(t, "6.00", last.Cells[1].Value)
}

func TestRenderInvoice(t *testing.T) {
	view := services.NewOrderView(exportFixture()[0])

	buf, err := renderInvoice(&view)
	require.NoError(t, err)

	assert.Equal(t, "%PDF", string(buf.Bytes()[:4]))
}
