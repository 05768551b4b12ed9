package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
)

type repoSQLite struct{ db *sql.DB }

func NewRepoSQLite(db *sql.DB) Repository { return &repoSQLite{db: db} }

func (r *repoSQLite) scan(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	var id, created, updated string
	var base float64
	err := row.Scan(&id, &c.Name, &c.Description, &base, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse category id: %w", err)
	}
	c.BaseCost = treatment.Money(base)
	c.CreatedAt, _ = time.Parse(time.RFC3339, created)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &c, nil
}

func (r *repoSQLite) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO treatment_categories (id, name, description, base_cost, created_at, updated_at)
		VALUES (?,?,?,?,?,?)`,
		c.ID.String(), c.Name, c.Description, float64(c.BaseCost),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return r.scan(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, base_cost, created_at, updated_at FROM treatment_categories WHERE id = ?`,
		id.String()))
}

func (r *repoSQLite) Update(ctx context.Context, c *Category) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE treatment_categories SET name=?, description=?, base_cost=?, updated_at=?
		WHERE id = ?`,
		c.Name, c.Description, float64(c.BaseCost),
		c.UpdatedAt.Format(time.RFC3339), c.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM treatment_categories WHERE id = ?`, id.String())
	return err
}

func (r *repoSQLite) List(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, base_cost, created_at, updated_at FROM treatment_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Category
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
