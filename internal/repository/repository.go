package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/metrics"
	"github.com/SriGanesh737/employee-api/internal/models"
	"github.com/jackc/pgx/v5"
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	CreateEmployee(ctx context.Context, input models.CreateEmployeeInput) (models.Employee, error)
	ListEmployees(ctx context.Context, page, pageSize int) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, identifier int) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, identifier int, input models.UpdateEmployeeInput) (models.Employee, error)
	DeleteEmployee(ctx context.Context, identifier int) (models.Employee, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// observe records the duration of the named operation. Use as `defer r.observe("x", time.Now())`.
func (r *Repository) observe(queryType string, startTime time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// inTx runs fn inside a single transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %w", errs.ErrPersistence, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %w", errs.ErrPersistence, err)
	}

	return nil
}
