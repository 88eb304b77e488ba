package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/domain"
)

// fakeInvoiceStore implements domain.InvoiceStore in memory for testing.
type fakeInvoiceStore struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*domain.Invoice
	items    map[uuid.UUID][]domain.InvoiceItem

	// createErr forces CreateInvoice to fail, once per queued error.
	createErrs []error
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices: make(map[uuid.UUID]*domain.Invoice),
		items:    make(map[uuid.UUID][]domain.InvoiceItem),
	}
}

func (f *fakeInvoiceStore) CreateInvoice(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}

	for _, existing := range f.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicateInvoiceNumber
		}
	}

	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	stored := *inv
	f.invoices[inv.ID] = &stored

	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = inv.ID
	}
	f.items[inv.ID] = append([]domain.InvoiceItem(nil), items...)
	return nil
}

func (f *fakeInvoiceStore) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, ok := f.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	copied := *inv
	return &copied, nil
}

func (f *fakeInvoiceStore) GetInvoiceByToken(ctx context.Context, token string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, inv := range f.invoices {
		if inv.AccessToken == token {
			copied := *inv
			return &copied, nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (f *fakeInvoiceStore) ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.InvoiceItem(nil), f.items[invoiceID]...), nil
}

func (f *fakeInvoiceStore) ListInvoicesByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.Invoice
	for _, inv := range f.invoices {
		if inv.UserID == userID {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeInvoiceStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.invoices[inv.ID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.UpdatedAt = time.Now()
	stored := *inv
	f.invoices[inv.ID] = &stored
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = inv.ID
	}
	f.items[inv.ID] = append([]domain.InvoiceItem(nil), items...)
	return nil
}

func (f *fakeInvoiceStore) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, ok := f.invoices[id]
	if !ok {
		return domain.ErrInvoiceNotFound
	}
	inv.Status = status
	inv.PaidAt = paidAt
	inv.UpdatedAt = time.Now()
	return nil
}

func (f *fakeInvoiceStore) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.invoices[id]; !ok {
		return domain.ErrInvoiceNotFound
	}
	delete(f.invoices, id)
	delete(f.items, id)
	return nil
}

func (f *fakeInvoiceStore) NextInvoiceSequence(ctx context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	max := 0
	for _, inv := range f.invoices {
		if !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		seq, err := strconv.Atoi(inv.InvoiceNumber[len(prefix):])
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max + 1, nil
}

func (f *fakeInvoiceStore) MarkInvoicesOverdue(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, inv := range f.invoices {
		if inv.Status == domain.InvoiceStatusSent && inv.DueDate != nil && inv.DueDate.Before(now) {
			inv.Status = domain.InvoiceStatusOverdue
			count++
		}
	}
	return count, nil
}

// fakeSessionStore implements domain.SessionStore in memory for testing.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *session
	f.sessions[session.Token] = &stored
	return nil
}

func (f *fakeSessionStore) GetSession(ctx context.Context, token, scope string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess, ok := f.sessions[token]
	if !ok || sess.Scope != scope {
		return nil, domain.Unauthorized("session.get", "Session not found")
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, token, scope string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sess, ok := f.sessions[token]; ok && sess.Scope == scope {
		delete(f.sessions, token)
	}
	return nil
}

func (f *fakeSessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for token, sess := range f.sessions {
		if sess.Expired(now) {
			delete(f.sessions, token)
			count++
		}
	}
	return count, nil
}

// fakeSubscriptionStore implements domain.SubscriptionStore in memory.
type fakeSubscriptionStore struct {
	mu   sync.Mutex
	subs map[uuid.UUID]*domain.Subscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: make(map[uuid.UUID]*domain.Subscription)}
}

func (f *fakeSubscriptionStore) GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.subs[userID]
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeSubscriptionStore) UpsertSubscription(ctx context.Context, userID uuid.UUID, stripeCustomerID string) (*domain.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub, ok := f.subs[userID]; ok {
		if sub.StripeCustomerID == "" {
			sub.StripeCustomerID = stripeCustomerID
		}
		copied := *sub
		return &copied, nil
	}

	sub := &domain.Subscription{
		ID:               uuid.New(),
		UserID:           userID,
		StripeCustomerID: stripeCustomerID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	f.subs[userID] = sub
	copied := *sub
	return &copied, nil
}

// fakeUserStore implements domain.UserStore in memory for testing.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserStore) ListUsers(ctx context.Context, limit, offset int32) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []domain.User
	for _, user := range f.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// fakeAdminStore implements domain.AdminStore in memory for testing.
type fakeAdminStore struct {
	admins map[uuid.UUID]*domain.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[uuid.UUID]*domain.Admin)}
}

func (f *fakeAdminStore) addAdmin(email, name, passwordHash string) *domain.Admin {
	admin := &domain.Admin{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	f.admins[admin.ID] = admin
	return admin
}

func (f *fakeAdminStore) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	for _, existing := range f.admins {
		if existing.Email == admin.Email {
			return domain.ErrAdminExists
		}
	}
	admin.ID = uuid.New()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	copied := *admin
	f.admins[admin.ID] = &copied
	return nil
}

func (f *fakeAdminStore) GetAdminByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func (f *fakeAdminStore) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, admin := range f.admins {
		if admin.Email == email {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (f *fakeAdminStore) ListAdminEmails(ctx context.Context) ([]string, error) {
	var emails []string
	for _, admin := range f.admins {
		emails = append(emails, admin.Email)
	}
	sort.Strings(emails)
	return emails, nil
}
