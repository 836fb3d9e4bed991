package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"billingflow/pkg/invoice"
)

// Repository persists invoices in PostgreSQL. Lines are stored denormalized
// as a JSONB document so the captured prices live with the invoice record.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new invoice with its lines.
func (r *Repository) Create(ctx context.Context, inv invoice.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO invoices (id,customer_name,total_amount,created_at,lines) VALUES ($1,$2,$3,$4,$5)",
		inv.ID, inv.CustomerName, inv.TotalAmount, inv.Date, lines)
	return err
}

// Get retrieves an invoice by ID.
func (r *Repository) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	var inv invoice.Invoice
	var lines []byte
	err := r.db.QueryRowContext(ctx,
		"SELECT id,customer_name,total_amount,created_at,lines FROM invoices WHERE id=$1", id).
		Scan(&inv.ID, &inv.CustomerName, &inv.TotalAmount, &inv.Date, &lines)
	if err == sql.ErrNoRows {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	if err != nil {
		return invoice.Invoice{}, err
	}
	if err := json.Unmarshal(lines, &inv.Lines); err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

// List fetches all invoices, newest first.
func (r *Repository) List(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,customer_name,total_amount,created_at,lines FROM invoices ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []invoice.Invoice
	for rows.Next() {
		var inv invoice.Invoice
		var lines []byte
		if err := rows.Scan(&inv.ID, &inv.CustomerName, &inv.TotalAmount, &inv.Date, &lines); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(lines, &inv.Lines); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
