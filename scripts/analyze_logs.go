package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats summarizes one day of server logs
type LogStats struct {
	TotalErrors        int
	LoginSuccess       int
	LoginFailures      int
	AdminLoginFailures int
	OrdersCreated      int
	PaymentsExecuted   int
	PaymentFailures    int
	EmailsSent         int
	EmailFailures      int
	ServerErrors       int
	CustomerActivities map[string]int
	ErrorPatterns      map[string]int
}

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	statusRegex = regexp.MustCompile(`Status: (\d{3})`)
)

func newLogStats() *LogStats {
	return &LogStats{
		CustomerActivities: make(map[string]int),
		ErrorPatterns:      make(map[string]int),
	}
}

func main() {
	logDir := flag.String("dir", "./logs", "directory holding the daily log files")
	day := flag.String("date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")
	flag.Parse()

	stats := newLogStats()
	for level, analyze := range map[string]func(io.Reader, *LogStats){
		"error": analyzeErrorLog,
		"info":  analyzeInfoLog,
	} {
		path := filepath.Join(*logDir, fmt.Sprintf("%s-%s.log", level, *day))
		file, err := os.Open(path)
		if err != nil {
			fmt.Printf("Error opening log file %s: %v\n", path, err)
			continue
		}
		analyze(file, stats)
		file.Close()
	}

	printReport(os.Stdout, stats)
}

func analyzeErrorLog(r io.Reader, stats *LogStats) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		switch {
		case strings.Contains(line, "Admin login failed"):
			stats.AdminLoginFailures++
		case strings.Contains(line, "Login failed for"):
			stats.LoginFailures++
			extractCustomer(line, stats)
		case strings.Contains(line, "Payment execution failed"):
			stats.PaymentFailures++
		case strings.Contains(line, "Failed to send notification"):
			stats.EmailFailures++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLog(r io.Reader, stats *LogStats) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "User logged in:"):
			stats.LoginSuccess++
		case strings.Contains(line, "Order ") && strings.Contains(line, " created with payment "):
			stats.OrdersCreated++
		case strings.Contains(line, "Payment ") && strings.HasSuffix(line, " executed"):
			stats.PaymentsExecuted++
		case strings.Contains(line, "Notification ") && strings.Contains(line, " sent to "):
			stats.EmailsSent++
			extractCustomer(line, stats)
		}

		if m := statusRegex.FindStringSubmatch(line); m != nil && m[1][0] == '5' {
			stats.ServerErrors++
		}
	}
}

func extractCustomer(line string, stats *LogStats) {
	if email := emailRegex.FindString(line); email != "" {
		stats.CustomerActivities[strings.ToLower(email)]++
	}
}

// extractErrorPattern keys errors by their message up to the first colon,
// dropping the timestamp, level and caller columns zap writes before it.
func extractErrorPattern(line string, stats *LogStats) {
	fields := strings.Split(line, "\t")
	msg := fields[len(fields)-1]
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	if msg = strings.TrimSpace(msg); msg != "" {
		stats.ErrorPatterns[msg]++
	}
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Authentication:")
	fmt.Fprintf(w, "   Successful Logins: %d\n", stats.LoginSuccess)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.LoginFailures)
	fmt.Fprintf(w, "   Failed Admin Logins: %d\n", stats.AdminLoginFailures)

	fmt.Fprintln(w, "\n2. Shop:")
	fmt.Fprintf(w, "   Orders Created: %d\n", stats.OrdersCreated)
	fmt.Fprintf(w, "   Payments Executed: %d\n", stats.PaymentsExecuted)
	fmt.Fprintf(w, "   Payment Failures: %d\n", stats.PaymentFailures)

	fmt.Fprintln(w, "\n3. Notifications:")
	fmt.Fprintf(w, "   Sent: %d\n", stats.EmailsSent)
	fmt.Fprintf(w, "   Failed: %d\n", stats.EmailFailures)

	fmt.Fprintln(w, "\n4. Errors:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(w, "   5xx Responses: %d\n", stats.ServerErrors)

	fmt.Fprintln(w, "\n5. Most Active Customers:")
	printTop(w, stats.CustomerActivities, 5, "activities")

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	printTop(w, stats.ErrorPatterns, 5, "occurrences")
}

type countEntry struct {
	key   string
	count int
}

// topCounts orders counts descending, ties by key.
func topCounts(counts map[string]int, limit int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for k, n := range counts {
		entries = append(entries, countEntry{k, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func printTop(w io.Writer, counts map[string]int, limit int, unit string) {
	for _, e := range topCounts(counts, limit) {
		fmt.Fprintf(w, "   %s: %d %s\n", e.key, e.count, unit)
	}
}
