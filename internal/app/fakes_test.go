package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"training_center_ledger/internal/domain/ledger"
	"training_center_ledger/internal/domain/notification"
	"training_center_ledger/internal/domain/staff"
	idb "training_center_ledger/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func nullLogger() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return logrus.NewEntry(log)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// --- staff ---

type memStaffRepo struct {
	members []*staff.Member
	listErr error
}

func (r *memStaffRepo) ListPermanent(_ context.Context) ([]*staff.Member, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*staff.Member, 0)
	for _, m := range r.members {
		if m.JobStatus == staff.StatusPermanent {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memStaffRepo) ListTrainingEndingBetween(_ context.Context, from, to time.Time) ([]*staff.Member, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*staff.Member, 0)
	for _, m := range r.members {
		if m.JobStatus != staff.StatusTraining || !m.TrainingEndDate.Valid {
			continue
		}
		end := m.TrainingEndDate.Time
		if !sameDay(end, from) && end.Before(from) {
			continue
		}
		if !sameDay(end, to) && end.After(to) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// --- ledger ---

type memLedgerRepo struct {
	mu       sync.Mutex
	nextID   int64
	expenses []*ledger.Expense
	records  []*ledger.SalaryRecord

	gateErr   error
	existsErr map[int64]error // per staff
	postErr   map[int64]error // per staff
	totals    []ledger.MonthlyTotals
	byType    []ledger.TypeTotal
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{existsErr: map[int64]error{}, postErr: map[int64]error{}}
}

func (r *memLedgerRepo) CreateExpense(_ context.Context, e *ledger.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addExpense(e)
}

func (r *memLedgerRepo) CreateSalaryRecord(_ context.Context, rec *ledger.SalaryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addRecord(rec)
}

func (r *memLedgerRepo) PostSalary(_ context.Context, e *ledger.Expense, rec *ledger.SalaryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.postErr[rec.StaffID]; err != nil {
		return err
	}
	if r.salaryExpenseIndex(e) >= 0 || r.recordIndex(rec.StaffID, rec.PaymentMonth) >= 0 {
		return fmt.Errorf("error creating expense: %w", idb.ErrDuplicate)
	}
	if err := r.addExpense(e); err != nil {
		return err
	}
	return r.addRecord(rec)
}

func (r *memLedgerRepo) addExpense(e *ledger.Expense) error {
	if r.salaryExpenseIndex(e) >= 0 {
		return fmt.Errorf("error creating expense: %w", idb.ErrDuplicate)
	}
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	cp := *e
	r.expenses = append(r.expenses, &cp)
	return nil
}

func (r *memLedgerRepo) addRecord(rec *ledger.SalaryRecord) error {
	if r.recordIndex(rec.StaffID, rec.PaymentMonth) >= 0 {
		return fmt.Errorf("error creating salary record: %w", idb.ErrDuplicate)
	}
	r.nextID++
	rec.ID = r.nextID
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *memLedgerRepo) salaryExpenseIndex(e *ledger.Expense) int {
	if e.Type != ledger.ExpenseTypeStaffSalary || !e.StaffID.Valid {
		return -1
	}
	for i, x := range r.expenses {
		if x.Type == e.Type && x.StaffID == e.StaffID && x.PeriodMonth == e.PeriodMonth {
			return i
		}
	}
	return -1
}

func (r *memLedgerRepo) recordIndex(staffID int64, ym ledger.YearMonth) int {
	for i, x := range r.records {
		if x.StaffID == staffID && x.PaymentMonth == ym {
			return i
		}
	}
	return -1
}

func (r *memLedgerRepo) SalaryExpenseExistsForMonth(_ context.Context, ym ledger.YearMonth) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gateErr != nil {
		return false, r.gateErr
	}
	for _, e := range r.expenses {
		if e.Type == ledger.ExpenseTypeStaffSalary && e.PeriodMonth.String == string(ym) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLedgerRepo) SalaryRecordExists(_ context.Context, staffID int64, ym ledger.YearMonth) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.existsErr[staffID]; err != nil {
		return false, err
	}
	return r.recordIndex(staffID, ym) >= 0, nil
}

func (r *memLedgerRepo) ListSalaryRecordsByMonth(_ context.Context, ym ledger.YearMonth) ([]*ledger.SalaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.SalaryRecord, 0)
	for _, rec := range r.records {
		if rec.PaymentMonth == ym {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

func (r *memLedgerRepo) MonthlyTotals(_ context.Context, _, _ time.Time) ([]ledger.MonthlyTotals, error) {
	return r.totals, nil
}

func (r *memLedgerRepo) ExpenseTotalsByType(_ context.Context, _, _ time.Time) ([]ledger.TypeTotal, error) {
	return r.byType, nil
}

func (r *memLedgerRepo) salaryExpensesFor(staffID int64) []*ledger.Expense {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ledger.Expense, 0)
	for _, e := range r.expenses {
		if e.Type == ledger.ExpenseTypeStaffSalary && e.StaffID.Int64 == staffID {
			out = append(out, e)
		}
	}
	return out
}

// --- notifications ---

type memNotificationRepo struct {
	mu        sync.Mutex
	nextID    int64
	items     []*notification.Notification
	existsErr map[int64]error
	createErr map[int64]error
	// skipExistsCheck makes ExistsForDate always report false, as when a
	// concurrent writer inserts between the check and the insert.
	skipExistsCheck bool
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{existsErr: map[int64]error{}, createErr: map[int64]error{}}
}

func (r *memNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr[n.RelatedID]; err != nil {
		return err
	}
	for _, x := range r.items {
		if x.RelatedTo == n.RelatedTo && x.RelatedID == n.RelatedID && sameDay(x.Date, n.Date) {
			return fmt.Errorf("error creating notification: %w", idb.ErrDuplicate)
		}
	}
	r.nextID++
	n.ID = r.nextID
	n.IsRead = false
	n.CreatedAt = time.Now()
	cp := *n
	r.items = append(r.items, &cp)
	return nil
}

func (r *memNotificationRepo) ExistsForDate(_ context.Context, relatedTo notification.RelatedTo, relatedID int64, date time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.existsErr[relatedID]; err != nil {
		return false, err
	}
	if r.skipExistsCheck {
		return false, nil
	}
	for _, x := range r.items {
		if x.RelatedTo == relatedTo && x.RelatedID == relatedID && sameDay(x.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) GetByID(_ context.Context, id int64) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.ID == id {
			cp := *x
			return &cp, nil
		}
	}
	return nil, idb.ErrNotificationNotFound
}

func (r *memNotificationRepo) CountUnread(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, x := range r.items {
		if !x.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) ListUnread(_ context.Context, limit int) ([]*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		if !r.items[i].IsRead {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.items {
		if x.ID == id {
			x.IsRead = true
			return nil
		}
	}
	return idb.ErrNotificationNotFound
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, x := range r.items {
		if !x.IsRead {
			x.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memNotificationRepo) forStaff(staffID int64) []*notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for _, x := range r.items {
		if x.RelatedTo == notification.RelatedToStaffTraining && x.RelatedID == staffID {
			out = append(out, x)
		}
	}
	return out
}

// --- telegram and lock ---

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegramClient struct {
	sent []sentMessage
	err  error
}

func (c *fakeTelegramClient) SendMessage(chatID int64, text string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquired []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) TryLock(_ context.Context, key string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	l.acquired = append(l.acquired, key)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, true, nil
}

func sqlNullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func sqlNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: true}
}

func sqlNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}
