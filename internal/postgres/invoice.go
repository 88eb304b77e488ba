package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifn/tagihin/internal/domain"
)

// InvoiceStore implements domain.InvoiceStore using PostgreSQL.
type InvoiceStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure InvoiceStore implements domain.InvoiceStore.
var _ domain.InvoiceStore = (*InvoiceStore)(nil)

// NewInvoiceStore creates a new InvoiceStore instance.
func NewInvoiceStore(pool *pgxpool.Pool) *InvoiceStore {
	return &InvoiceStore{pool: pool}
}

const invoiceColumns = `
	id, user_id, invoice_number, access_token, status, issue_date, due_date,
	company_name, company_email, company_phone, company_address,
	client_name, client_email, client_phone, client_address,
	notes, tax_rate, subtotal, tax_amount, total,
	paid_at, created_at, updated_at`

// CreateInvoice inserts an invoice and its items in one transaction.
func (s *InvoiceStore) CreateInvoice(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO invoices (
			user_id, invoice_number, access_token, status, issue_date, due_date,
			company_name, company_email, company_phone, company_address,
			client_name, client_email, client_phone, client_address,
			notes, tax_rate, subtotal, tax_amount, total
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, $18, $19
		)
		RETURNING id, created_at, updated_at`,
		inv.UserID, inv.InvoiceNumber, inv.AccessToken, inv.Status, inv.IssueDate, inv.DueDate,
		inv.CompanyName, inv.CompanyEmail, inv.CompanyPhone, inv.CompanyAddress,
		inv.ClientName, inv.ClientEmail, inv.ClientPhone, inv.ClientAddress,
		inv.Notes, inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.Total,
	)
	if err := row.Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if isUniqueViolation(err, "invoices_invoice_number_key") {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := insertItems(ctx, tx, inv.ID, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice by ID.
func (s *InvoiceStore) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id,
	)
	return scanInvoice(row)
}

// GetInvoiceByToken retrieves an invoice by its access token. Matching
// is exact; no normalization is applied.
func (s *InvoiceStore) GetInvoiceByToken(ctx context.Context, token string) (*domain.Invoice, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE access_token = $1`, token,
	)
	return scanInvoice(row)
}

// ListInvoiceItems returns an invoice's items in insertion order.
func (s *InvoiceStore) ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, invoice_id, description, quantity, price, amount, position
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY position`, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Price, &item.Amount, &item.Position); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list invoice items: %w", err)
	}
	return items, nil
}

// ListInvoicesByUser returns a user's invoices with pagination, newest first.
func (s *InvoiceStore) ListInvoicesByUser(ctx context.Context, userID uuid.UUID, limit, offset int32) ([]domain.Invoice, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice rewrites the invoice fields and replaces its item set in
// one transaction.
func (s *InvoiceStore) UpdateInvoice(ctx context.Context, inv *domain.Invoice, items []domain.InvoiceItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoices SET
			issue_date = $2, due_date = $3,
			company_name = $4, company_email = $5, company_phone = $6, company_address = $7,
			client_name = $8, client_email = $9, client_phone = $10, client_address = $11,
			notes = $12, tax_rate = $13, subtotal = $14, tax_amount = $15, total = $16,
			updated_at = now()
		WHERE id = $1`,
		inv.ID, inv.IssueDate, inv.DueDate,
		inv.CompanyName, inv.CompanyEmail, inv.CompanyPhone, inv.CompanyAddress,
		inv.ClientName, inv.ClientEmail, inv.ClientPhone, inv.ClientAddress,
		inv.Notes, inv.TaxRate, inv.Subtotal, inv.TaxAmount, inv.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("failed to clear invoice items: %w", err)
	}
	if err := insertItems(ctx, tx, inv.ID, items); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit invoice update: %w", err)
	}
	return nil
}

// UpdateInvoiceStatus sets the invoice status and, for payments, the
// payment time.
func (s *InvoiceStore) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE invoices SET status = $2, paid_at = $3, updated_at = now()
		WHERE id = $1`,
		id, status, paidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// DeleteInvoice removes an invoice. Items cascade.
func (s *InvoiceStore) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// NextInvoiceSequence returns the next sequence number for invoice
// numbers starting with prefix, one past the highest suffix already
// issued. Deleted invoices leave a gap rather than freeing their
// number for reuse. The unique constraint on invoice_number catches
// concurrent callers; the service retries on conflict.
func (s *InvoiceStore) NextInvoiceSequence(ctx context.Context, prefix string) (int, error) {
	var max int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(substring(invoice_number FROM char_length($1::text) + 1)::int), 0)
		FROM invoices WHERE invoice_number LIKE $1 || '%'`, prefix,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to read invoice number sequence: %w", err)
	}
	return max + 1, nil
}

// MarkInvoicesOverdue flips sent invoices past their due date to overdue
// and returns the number updated.
func (s *InvoiceStore) MarkInvoicesOverdue(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE invoices SET status = $1, updated_at = now()
		WHERE status = $2 AND due_date IS NOT NULL AND due_date < $3`,
		domain.InvoiceStatusOverdue, domain.InvoiceStatusSent, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark invoices overdue: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func insertItems(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, items []domain.InvoiceItem) error {
	for i := range items {
		items[i].InvoiceID = invoiceID
		items[i].Position = int32(i)
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_items (invoice_id, description, quantity, price, amount, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			invoiceID, items[i].Description, items[i].Quantity, items[i].Price, items[i].Amount, items[i].Position,
		).Scan(&items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.AccessToken, &inv.Status, &inv.IssueDate, &inv.DueDate,
		&inv.CompanyName, &inv.CompanyEmail, &inv.CompanyPhone, &inv.CompanyAddress,
		&inv.ClientName, &inv.ClientEmail, &inv.ClientPhone, &inv.ClientAddress,
		&inv.Notes, &inv.TaxRate, &inv.Subtotal, &inv.TaxAmount, &inv.Total,
		&inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &inv, nil
}
