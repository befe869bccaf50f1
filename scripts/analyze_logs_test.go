package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const errorLogSample = `2025-03-14T09:30:00.000Z	ERROR	controllers/auth_controller.go:68	Login failed for Fan@Example.com: invalid credentials
2025-03-14T09:31:00.000Z	ERROR	controllers/admin_auth.go:21	Admin login failed: invalid credentials
2025-03-14T09:32:00.000Z	ERROR	controllers/payment_controller.go:63	Payment execution failed: gateway timeout
2025-03-14T09:33:00.000Z	ERROR	notify/notify.go:97	Failed to send notification: dial tcp refused
2025-03-14T09:34:00.000Z	ERROR	controllers/auth_controller.go:68	Login failed for fan@example.com: invalid credentials
`

const infoLogSample = `2025-03-14T09:30:00.000Z	INFO	controllers/auth_controller.go:73	User logged in: fan@example.com
2025-03-14T09:35:00.000Z	INFO	controllers/payment_controller.go:32	Order o-1 created with payment PAY-1
2025-03-14T09:36:00.000Z	INFO	controllers/payment_controller.go:68	Payment PAY-1 executed
2025-03-14T09:36:01.000Z	INFO	notify/notify.go:99	Notification order_confirmation sent to buyer@example.com
2025-03-14T09:37:00.000Z	INFO	utils/logger.go:110	GET /api/products | Status: 200 | Latency: 1ms
2025-03-14T09:38:00.000Z	INFO	utils/logger.go:110	POST /api/shop/create-order | Status: 502 | Latency: 9ms
`

func TestAnalyzeErrorLog(t *testing.T) {
	stats := newLogStats()
	analyzeErrorLog(strings.NewReader(errorLogSample), stats)

	assert.Equal(t, 5, stats.TotalErrors)
	assert.Equal(t, 2, stats.LoginFailures)
	assert.Equal(t, 1, stats.AdminLoginFailures)
	assert.Equal(t, 1, stats.PaymentFailures)
	assert.Equal(t, 1, stats.EmailFailures)
	assert.Equal(t, 2, stats.CustomerActivities["fan@example.com"])
	assert.Equal(t, 1, stats.ErrorPatterns["Admin login failed"])
	assert.Equal(t, 1, stats.ErrorPatterns["Payment execution failed"])
}

func TestAnalyzeInfoLog(t *testing.T) {
	stats := newLogStats()
	analyzeInfoLog(strings.NewReader(infoLogSample), stats)

	assert.Equal(t, 1, stats.LoginSuccess)
	assert.Equal(t, 1, stats.OrdersCreated)
	assert.Equal(t, 1, stats.PaymentsExecuted)
	assert.Equal(t, 1, stats.EmailsSent)
	assert.Equal(t, 1, stats.ServerErrors)
	assert.Equal(t, 1, stats.CustomerActivities["buyer@example.com"])
}

func TestTopCountsOrdersByCountThenKey(t *testing.T) {
	entries := topCounts(map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}, 3)

	assert.Equal(t, []countEntry{{"c", 5}, {"a", 2}, {"b", 2}}, entries)
}

func TestPrintReport(t *testing.T) {
	stats := newLogStats()
	stats.OrdersCreated = 4
	stats.CustomerActivities["fan@example.com"] = 3

	var out bytes.Buffer
	printReport(&out, stats)

	assert.Contains(t, out.String(), "Orders Created: 4")
	assert.Contains(t, out.String(), "fan@example.com: 3 activities")
}
