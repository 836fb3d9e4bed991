package postgres

import (
	"context"
	"database/sql"

	"billingflow/pkg/item"
)

// Repository persists items in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new item.
func (r *Repository) Create(ctx context.Context, it item.Item) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO items (id,name,description,price) VALUES ($1,$2,$3,$4)",
		it.ID, it.Name, it.Description, it.Price)
	return err
}

// Get retrieves an item by ID.
func (r *Repository) Get(ctx context.Context, id string) (item.Item, error) {
	var it item.Item
	err := r.db.QueryRowContext(ctx,
		"SELECT id,name,description,price FROM items WHERE id=$1", id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Price)
	if err == sql.ErrNoRows {
		return item.Item{}, item.ErrNotFound
	}
	return it, err
}

// List fetches all items.
func (r *Repository) List(ctx context.Context) ([]item.Item, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id,name,description,price FROM items ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []item.Item
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update updates an existing item.
func (r *Repository) Update(ctx context.Context, it item.Item) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE items SET name=$2, description=$3, price=$4 WHERE id=$1",
		it.ID, it.Name, it.Description, it.Price)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}

// Delete removes an item by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM items WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return item.ErrNotFound
	}
	return nil
}
