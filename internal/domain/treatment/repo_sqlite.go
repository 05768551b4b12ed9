package treatment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// repoSQLite backs the treatment repository with an embedded SQLite database
// for standalone deployments without Postgres. Nested documents are stored as
// JSON text columns.
type repoSQLite struct{ db *sql.DB }

func NewRepoSQLite(db *sql.DB) Repository { return &repoSQLite{db: db} }

const sqliteCols = `id, patient_id, patient_name, name, description, status,
	dental_checkup, diagnosis, treatment_plans, tooth_issues,
	cost, material_cost, created_at, updated_at`

func (r *repoSQLite) scan(row interface{ Scan(...any) error }) (*Treatment, error) {
	var t Treatment
	var id, patientID string
	var checkup, diagnosis, plans, issues string
	var created, updated string
	err := row.Scan(&id, &patientID, &t.PatientName, &t.Name, &t.Description, &t.Status,
		&checkup, &diagnosis, &plans, &issues,
		&t.Cost, &t.MaterialCost, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse treatment id: %w", err)
	}
	if t.PatientID, err = uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("parse patient id: %w", err)
	}
	if err := json.Unmarshal([]byte(checkup), &t.DentalCheckup); err != nil {
		return nil, fmt.Errorf("decode dental_checkup: %w", err)
	}
	if err := json.Unmarshal([]byte(diagnosis), &t.Diagnosis); err != nil {
		return nil, fmt.Errorf("decode diagnosis: %w", err)
	}
	if err := json.Unmarshal([]byte(plans), &t.TreatmentPlans); err != nil {
		return nil, fmt.Errorf("decode treatment_plans: %w", err)
	}
	if err := json.Unmarshal([]byte(issues), &t.ToothIssues); err != nil {
		return nil, fmt.Errorf("decode tooth_issues: %w", err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, created)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &t, nil
}

func (r *repoSQLite) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	checkup, diagnosis, plans, issues, err := marshalDocs(t)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO treatments (id, patient_id, patient_name, name, description, status,
			dental_checkup, diagnosis, treatment_plans, tooth_issues,
			cost, material_cost, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		t.ID.String(), t.PatientID.String(), t.PatientName, t.Name, t.Description, t.Status,
		string(checkup), string(diagnosis), string(plans), string(issues),
		float64(t.Cost), float64(t.MaterialCost),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	return err
}

func (r *repoSQLite) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+sqliteCols+` FROM treatments WHERE id = ?`, id.String()))
}

func (r *repoSQLite) Update(ctx context.Context, t *Treatment) error {
	t.UpdatedAt = time.Now().UTC()
	checkup, diagnosis, plans, issues, err := marshalDocs(t)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE treatments SET patient_id=?, patient_name=?, name=?, description=?, status=?,
			dental_checkup=?, diagnosis=?, treatment_plans=?, tooth_issues=?,
			cost=?, material_cost=?, updated_at=?
		WHERE id = ?`,
		t.PatientID.String(), t.PatientName, t.Name, t.Description, t.Status,
		string(checkup), string(diagnosis), string(plans), string(issues),
		float64(t.Cost), float64(t.MaterialCost),
		t.UpdatedAt.Format(time.RFC3339), t.ID.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoSQLite) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM treatments WHERE id = ?`, id.String())
	return err
}

func (r *repoSQLite) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Treatment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM treatments WHERE patient_id = ?`, patientID.String()).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteCols+` FROM treatments
		WHERE patient_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`, patientID.String(), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoSQLite) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM treatments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteCols+` FROM treatments
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoSQLite) collect(rows *sql.Rows) ([]*Treatment, error) {
	var items []*Treatment
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
