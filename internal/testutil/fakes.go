// Package testutil holds in-memory stand-ins for the Postgres repositories
// and the mailer, shared by service and handler tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
)

var ErrStoreDown = errors.New("store unavailable")

var (
	_ repo.Payments  = (*Payments)(nil)
	_ repo.Orders    = (*Orders)(nil)
	_ repo.Staff     = (*Staff)(nil)
	_ repo.AuditLogs = (*AuditLogs)(nil)
)

// Payments mimics payments_repo: WithTx holds the lock for the whole
// callback and restores the previous state if it fails.
type Payments struct {
	mu     sync.Mutex
	rows   map[int64]models.PaymentTransaction
	audits []models.AuditLog
	nextID int64
	base   time.Time

	ListErr   error
	InsertErr error
	// UpdateStatusHook, when set, runs before UpdateStatus and may return
	// an error to simulate a failing write.
	UpdateStatusHook func(id int64) error
}

func NewPayments() *Payments {
	return &Payments{
		rows: map[int64]models.PaymentTransaction{},
		base: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *Payments) GetByID(_ context.Context, id int64) (models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return models.PaymentTransaction{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *Payments) List(_ context.Context) ([]models.PaymentTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]models.PaymentTransaction, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *Payments) WithTx(_ context.Context, fn func(repo.PaymentWriter) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := make(map[int64]models.PaymentTransaction, len(f.rows))
	for k, v := range f.rows {
		snapshot[k] = v
	}
	audits, nextID := len(f.audits), f.nextID

	if err := fn(paymentWriter{f}); err != nil {
		f.rows, f.audits, f.nextID = snapshot, f.audits[:audits], nextID
		return err
	}
	return nil
}

// Count returns the number of stored confirmations.
func (f *Payments) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

// Audits returns a copy of the audit entries written so far.
func (f *Payments) Audits() []models.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AuditLog(nil), f.audits...)
}

// Put stores p as-is, for seeding.
func (f *Payments) Put(p models.PaymentTransaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID > f.nextID {
		f.nextID = p.ID
	}
	f.rows[p.ID] = p
}

// paymentWriter runs with Payments.mu already held.
type paymentWriter struct{ f *Payments }

func (w paymentWriter) Insert(_ context.Context, p models.PaymentTransaction) (models.PaymentTransaction, error) {
	if w.f.InsertErr != nil {
		return models.PaymentTransaction{}, w.f.InsertErr
	}
	w.f.nextID++
	p.ID = w.f.nextID
	p.CreatedAt = w.f.base.Add(time.Duration(p.ID) * time.Minute)
	p.UpdatedAt = p.CreatedAt
	w.f.rows[p.ID] = p
	return p, nil
}

func (w paymentWriter) GetForUpdate(_ context.Context, id int64) (models.PaymentTransaction, error) {
	p, ok := w.f.rows[id]
	if !ok {
		return models.PaymentTransaction{}, repo.ErrNotFound
	}
	return p, nil
}

func (w paymentWriter) UpdateStatus(_ context.Context, id int64, status models.PaymentStatus, notes *string) (models.PaymentTransaction, error) {
	if w.f.UpdateStatusHook != nil {
		if err := w.f.UpdateStatusHook(id); err != nil {
			return models.PaymentTransaction{}, err
		}
	}
	p, ok := w.f.rows[id]
	if !ok || (p.Status != models.PaymentPending && p.Status != status) {
		return models.PaymentTransaction{}, repo.ErrNotFound
	}
	p.Status = status
	if notes != nil {
		n := *notes
		p.Notes = &n
	}
	p.UpdatedAt = p.UpdatedAt.Add(time.Second)
	w.f.rows[id] = p
	return p, nil
}

func (w paymentWriter) Audit(_ context.Context, l models.AuditLog) error {
	w.f.audits = append(w.f.audits, l)
	return nil
}

// Orders is one in-memory order table.
type Orders struct {
	mu    sync.Mutex
	table string
	rows  map[int64]models.Order

	ContactsErr error
	UpdateErr   error

	ContactsCalls  int
	GetByIDCalls   int
	GetByCodeCalls int
	UpdateCalls    int
}

func NewOrders(table string, seed ...models.Order) *Orders {
	o := &Orders{table: table, rows: map[int64]models.Order{}}
	for _, s := range seed {
		o.rows[s.ID] = s
	}
	return o
}

func (o *Orders) Table() string { return o.table }

func (o *Orders) GetByID(_ context.Context, id int64) (models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.GetByIDCalls++
	r, ok := o.rows[id]
	if !ok {
		return models.Order{}, repo.ErrNotFound
	}
	return r, nil
}

func (o *Orders) GetByCode(_ context.Context, code string) (models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.GetByCodeCalls++
	for _, r := range o.rows {
		if r.Code != nil && strings.EqualFold(*r.Code, code) {
			return r, nil
		}
	}
	return models.Order{}, repo.ErrNotFound
}

func (o *Orders) UpdateStatus(_ context.Context, id int64, status string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.UpdateCalls++
	if o.UpdateErr != nil {
		return o.UpdateErr
	}
	r, ok := o.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	r.Status = status
	o.rows[id] = r
	return nil
}

func (o *Orders) ContactsByIDs(_ context.Context, ids []int64) (map[int64]models.OrderContact, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ContactsCalls++
	if o.ContactsErr != nil {
		return nil, o.ContactsErr
	}
	out := map[int64]models.OrderContact{}
	for _, id := range ids {
		if r, ok := o.rows[id]; ok {
			out[id] = r.Contact()
		}
	}
	return out, nil
}

// Status returns the current status of order id, or "" if absent.
func (o *Orders) Status(id int64) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rows[id].Status
}

// Notifier records every notice it is asked to send.
type Notifier struct {
	mu      sync.Mutex
	notices []models.PaymentNotice
	Err     error
}

func (n *Notifier) NotifyPaymentConfirmed(_ context.Context, notice models.PaymentNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.Err
}

func (n *Notifier) Notices() []models.PaymentNotice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.PaymentNotice(nil), n.notices...)
}

// Staff is an in-memory staff_users table.
type Staff struct {
	mu   sync.Mutex
	rows map[string]models.StaffUser
	seq  int
}

func NewStaff() *Staff { return &Staff{rows: map[string]models.StaffUser{}} }

func (s *Staff) Create(_ context.Context, u models.StaffUser) (models.StaffUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if strings.EqualFold(r.Email, u.Email) {
			return models.StaffUser{}, repo.ErrDuplicate
		}
	}
	s.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("staff-%d", s.seq)
	}
	u.CreatedAt = time.Date(2026, 1, 1, 0, s.seq, 0, 0, time.UTC)
	u.UpdatedAt = u.CreatedAt
	s.rows[u.ID] = u
	return u, nil
}

func (s *Staff) GetByID(_ context.Context, id string) (models.StaffUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return models.StaffUser{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *Staff) GetByEmail(_ context.Context, email string) (models.StaffUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.StaffUser{}, repo.ErrNotFound
}

func (s *Staff) List(_ context.Context) ([]models.StaffUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StaffUser, 0, len(s.rows))
	for _, u := range s.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// AuditLogs collects audit entries written outside payment transactions.
type AuditLogs struct {
	mu      sync.Mutex
	entries []models.AuditLog
	Err     error
}

func (a *AuditLogs) Create(_ context.Context, l models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.entries = append(a.entries, l)
	return nil
}

func (a *AuditLogs) Entries() []models.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AuditLog(nil), a.entries...)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
