package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sahanac12/lost-found/internal/model"
)

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var photoName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, title, description, category, location, date, status, photo_name, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Location,
		&item.Date, &item.Status, &photoName, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.PhotoName = photoName.String
	return item, nil
}

// ListActiveItems returns all items still open for claims, with the report
// type and reporter name joined in for the listing page.
func ListActiveItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.title, i.description, i.category, i.location, i.date,
		        i.status, i.photo_name, i.created_at,
		        r.report_type, u.name AS reporter_name
		 FROM items i
		 JOIN reports r ON r.item_id = i.id
		 JOIN users u ON u.id = r.user_id
		 WHERE i.status = 'active'
		 ORDER BY i.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing active items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var photoName sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Category,
			&item.Location, &item.Date, &item.Status, &photoName, &item.CreatedAt,
			&item.ReportType, &item.ReporterName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.PhotoName = photoName.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemStatus updates an item's status.
func UpdateItemStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	if !model.ValidItemStatus(status) {
		return fmt.Errorf("invalid item status %q", status)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// CountItems returns the total number of items.
func CountItems(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}
