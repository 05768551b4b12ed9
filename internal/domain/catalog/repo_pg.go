package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const categoryCols = `id, name, description, base_cost, created_at, updated_at`

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.BaseCost, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Category) error {
	c.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO treatment_categories (id, name, description, base_cost)
		VALUES ($1,$2,$3,$4)`,
		c.ID, c.Name, c.Description, c.BaseCost)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, `SELECT `+categoryCols+` FROM treatment_categories WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE treatment_categories SET name=$2, description=$3, base_cost=$4, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Description, c.BaseCost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM treatment_categories WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context) ([]*Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryCols+` FROM treatment_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
