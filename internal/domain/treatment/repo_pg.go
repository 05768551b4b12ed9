package treatment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const treatmentCols = `id, patient_id, patient_name, name, description, status,
	dental_checkup, diagnosis, treatment_plans, tooth_issues,
	cost, material_cost, created_at, updated_at`

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	var checkup, diagnosis, plans, issues []byte
	err := row.Scan(&t.ID, &t.PatientID, &t.PatientName, &t.Name, &t.Description, &t.Status,
		&checkup, &diagnosis, &plans, &issues,
		&t.Cost, &t.MaterialCost, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(checkup, &t.DentalCheckup); err != nil {
		return nil, fmt.Errorf("decode dental_checkup: %w", err)
	}
	if err := json.Unmarshal(diagnosis, &t.Diagnosis); err != nil {
		return nil, fmt.Errorf("decode diagnosis: %w", err)
	}
	if err := json.Unmarshal(plans, &t.TreatmentPlans); err != nil {
		return nil, fmt.Errorf("decode treatment_plans: %w", err)
	}
	if err := json.Unmarshal(issues, &t.ToothIssues); err != nil {
		return nil, fmt.Errorf("decode tooth_issues: %w", err)
	}
	return &t, nil
}

func marshalDocs(t *Treatment) (checkup, diagnosis, plans, issues []byte, err error) {
	if checkup, err = json.Marshal(t.DentalCheckup); err != nil {
		return
	}
	if diagnosis, err = json.Marshal(t.Diagnosis); err != nil {
		return
	}
	if plans, err = json.Marshal(t.TreatmentPlans); err != nil {
		return
	}
	issues, err = json.Marshal(t.ToothIssues)
	return
}

func (r *repoPG) Create(ctx context.Context, t *Treatment) error {
	t.ID = uuid.New()
	checkup, diagnosis, plans, issues, err := marshalDocs(t)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO treatments (id, patient_id, patient_name, name, description, status,
			dental_checkup, diagnosis, treatment_plans, tooth_issues, cost, material_cost)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		t.ID, t.PatientID, t.PatientName, t.Name, t.Description, t.Status,
		checkup, diagnosis, plans, issues, t.Cost, t.MaterialCost)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	return scanTreatment(r.pool.QueryRow(ctx, `SELECT `+treatmentCols+` FROM treatments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Treatment) error {
	checkup, diagnosis, plans, issues, err := marshalDocs(t)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE treatments SET patient_id=$2, patient_name=$3, name=$4, description=$5, status=$6,
			dental_checkup=$7, diagnosis=$8, treatment_plans=$9, tooth_issues=$10,
			cost=$11, material_cost=$12, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.PatientID, t.PatientName, t.Name, t.Description, t.Status,
		checkup, diagnosis, plans, issues, t.Cost, t.MaterialCost)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Treatment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM treatments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+treatmentCols+` FROM treatments
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectTreatments(rows)
	return items, total, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Treatment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM treatments`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+treatmentCols+` FROM treatments
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectTreatments(rows)
	return items, total, err
}

func collectTreatments(rows pgx.Rows) ([]*Treatment, error) {
	var items []*Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
