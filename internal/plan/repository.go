package plan

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanRepository struct{}

type PlanRepositoryInterface interface {
	List(db *sql.DB) ([]*Plan, error)
	GetByID(db *sql.DB, id int) (*Plan, error)
	Create(tx *sql.Tx, plan *Plan) (int, error)
	Update(tx *sql.Tx, plan *Plan) error
	Delete(tx *sql.Tx, id int) error
}

func NewPlanRepository() PlanRepositoryInterface {
	return &PlanRepository{}
}

// List returns all plans ordered ascending by price
func (r *PlanRepository) List(db *sql.DB) ([]*Plan, error) {
	query := `
		SELECT
			id, name, price, cpu, ram, storage,
			backups, description, features,
			created_at, updated_at
		FROM plans
		ORDER BY price
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// GetByID retrieves a single plan
func (r *PlanRepository) GetByID(db *sql.DB, id int) (*Plan, error) {
	query := `
		SELECT
			id, name, price, cpu, ram, storage,
			backups, description, features,
			created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	p, err := scanPlan(db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		logrus.WithError(err).Error("Failed to get plan by ID")
		return nil, err
	}

	return p, nil
}

// Create inserts a new plan and returns its id
func (r *PlanRepository) Create(tx *sql.Tx, plan *Plan) (int, error) {
	features, err := encodeFeatures(plan.Features)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO plans (
			name, price, cpu, ram, storage,
			backups, description, features,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`

	var id int
	err = tx.QueryRow(
		query,
		plan.Name,
		plan.Price,
		plan.CPU,
		plan.RAM,
		plan.Storage,
		plan.Backups,
		plan.Description,
		features,
	).Scan(&id)

	if err != nil {
		logrus.WithError(err).Error("Failed to create plan")
		return 0, err
	}

	return id, nil
}

// Update fully replaces all mutable fields of a plan
func (r *PlanRepository) Update(tx *sql.Tx, plan *Plan) error {
	features, err := encodeFeatures(plan.Features)
	if err != nil {
		return err
	}

	query := `
		UPDATE plans
		SET name = $1,
		    price = $2,
		    cpu = $3,
		    ram = $4,
		    storage = $5,
		    backups = $6,
		    description = $7,
		    features = $8,
		    updated_at = NOW()
		WHERE id = $9
	`

	result, err := tx.Exec(
		query,
		plan.Name,
		plan.Price,
		plan.CPU,
		plan.RAM,
		plan.Storage,
		plan.Backups,
		plan.Description,
		features,
		plan.ID,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to update plan")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}

	return nil
}

// Delete removes a plan
func (r *PlanRepository) Delete(tx *sql.Tx, id int) error {
	result, err := tx.Exec(`DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete plan")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPlanNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*Plan, error) {
	var p Plan
	var features sql.NullString

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.CPU,
		&p.RAM,
		&p.Storage,
		&p.Backups,
		&p.Description,
		&features,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	var raw *string
	if features.Valid {
		raw = &features.String
	}
	p.Features, err = decodeFeatures(raw)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
