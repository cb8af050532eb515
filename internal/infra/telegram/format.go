package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"training_center_ledger/internal/app"
	"training_center_ledger/internal/domain/ledger"
	"training_center_ledger/internal/domain/notification"

	"github.com/shopspring/decimal"
)

const readCallbackPrefix = "notif_read_"

func readCallbackData(id int64) string {
	return fmt.Sprintf("%s%d", readCallbackPrefix, id)
}

// parseReadCallback extracts the notification ID from "notif_read_<id>".
func parseReadCallback(data string) (int64, error) {
	// telebot prefixes unique-less callback data with \f
	data = strings.TrimPrefix(data, "\f")
	if !strings.HasPrefix(data, readCallbackPrefix) {
		return 0, fmt.Errorf("unexpected callback data: %q", data)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, readCallbackPrefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid notification id in callback data %q", data)
	}
	return id, nil
}

// parseYearArg returns the year given as the first argument, or now's year.
func parseYearArg(args []string, now time.Time) (int, error) {
	if len(args) == 0 {
		return now.Year(), nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", args[0])
	}
	return year, nil
}

func formatReconciliationReport(r *app.ReconciliationReport) string {
	var b strings.Builder
	b.WriteString("Reconciliation finished.\n\n")

	switch {
	case r.PayrollErr != nil:
		fmt.Fprintf(&b, "Payroll: failed (%v)\n", r.PayrollErr)
	case r.Payroll != nil:
		fmt.Fprintf(&b, "Payroll %s: %d posted, %d already posted, %d failed\n",
			r.Payroll.Month, r.Payroll.Posted, r.Payroll.Skipped, r.Payroll.Failed)
	default:
		fmt.Fprintf(&b, "Payroll: skipped, %s\n", r.PayrollSkipped)
	}

	switch {
	case r.NotifierErr != nil:
		fmt.Fprintf(&b, "Training alerts: failed (%v)\n", r.NotifierErr)
	case r.Notifier != nil:
		fmt.Fprintf(&b, "Training alerts: %d created, %d already sent, %d failed\n",
			r.Notifier.Created, r.Notifier.Skipped, r.Notifier.Failed)
	default:
		b.WriteString("Training alerts: skipped, running elsewhere\n")
	}
	return b.String()
}

func formatUnread(count int, items []*notification.Notification) string {
	if count == 0 {
		return "No unread notifications."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Unread notifications: %d\n", count)
	for _, n := range items {
		fmt.Fprintf(&b, "\n#%d %s (%s)\n%s\n", n.ID, n.Title, n.Date.Format("2006-01-02"), n.Message)
	}
	if count > len(items) {
		fmt.Fprintf(&b, "\n…and %d more.", count-len(items))
	}
	return b.String()
}

func formatSummary(year int, months []ledger.MonthlyTotals, quarters []app.QuarterTotals, breakdown []ledger.TypeTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Finance summary %d\n\n", year)
	for _, m := range months {
		fmt.Fprintf(&b, "%s  in %s  out %s  net %s\n", m.Month,
			m.Income.StringFixed(2), m.Expense.StringFixed(2), m.Net().StringFixed(2))
	}
	b.WriteString("\n")
	for _, q := range quarters {
		fmt.Fprintf(&b, "Q%d  in %s  out %s  net %s\n", q.Quarter,
			q.Income.StringFixed(2), q.Expense.StringFixed(2), q.Net().StringFixed(2))
	}
	if len(breakdown) > 0 {
		b.WriteString("\nExpenses by type\n")
		for _, t := range breakdown {
			fmt.Fprintf(&b, "%s  %s  (%d)\n", t.Type, t.Amount.StringFixed(2), t.Count)
		}
	}
	return b.String()
}

// parseMonthArg returns the month given as the first argument, or now's month.
func parseMonthArg(args []string, now time.Time) (ledger.YearMonth, error) {
	if len(args) == 0 {
		return ledger.YearMonthOf(now), nil
	}
	return ledger.ParseYearMonth(args[0])
}

func formatPayroll(month ledger.YearMonth, records []*ledger.SalaryRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No salary records for %s.", month)
	}
	var b strings.Builder
	total := decimal.Zero
	fmt.Fprintf(&b, "Salary records %s\n\n", month)
	for _, r := range records {
		fmt.Fprintf(&b, "Staff #%d  %s  %s\n", r.StaffID, r.Amount.StringFixed(2), r.PaymentStatus)
		total = total.Add(r.Amount)
	}
	fmt.Fprintf(&b, "\nTotal: %s (%d records)", total.StringFixed(2), len(records))
	return b.String()
}
