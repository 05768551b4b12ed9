package patient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type repoSQLite struct{ db *sql.DB }

func NewRepoSQLite(db *sql.DB) Repository { return &repoSQLite{db: db} }

const sqliteCols = `id, first_name, last_name, phone, email, date_of_birth, gender, address, created_at, updated_at`

func (r *repoSQLite) scan(row interface{ Scan(...any) error }) (*Patient, error) {
	var p Patient
	var id, created, updated string
	err := row.Scan(&id, &p.FirstName, &p.LastName, &p.Phone, &p.Email,
		&p.DateOfBirth, &p.Gender, &p.Address, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse patient id: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &p, nil
}

func (r *repoSQLite) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, first_name, last_name, phone, email, date_of_birth, gender, address, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.ID.String(), p.FirstName, p.LastName, p.Phone, p.Email,
		p.DateOfBirth, p.Gender, p.Address,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+sqliteCols+` FROM patients WHERE id = ?`, id.String()))
}

func (r *repoSQLite) Update(ctx context.Context, p *Patient) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients SET first_name=?, last_name=?, phone=?, email=?,
			date_of_birth=?, gender=?, address=?, updated_at=?
		WHERE id = ?`,
		p.FirstName, p.LastName, p.Phone, p.Email,
		p.DateOfBirth, p.Gender, p.Address,
		p.UpdatedAt.Format(time.RFC3339), p.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id.String())
	return err
}

func (r *repoSQLite) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	where := ``
	args := []any{}
	if query != "" {
		where = `WHERE LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?`
		q := "%" + strings.ToLower(query) + "%"
		args = append(args, q, q, q)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listArgs := append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteCols+` FROM patients `+where+
		` ORDER BY last_name, first_name LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
