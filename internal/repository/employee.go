package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/models"
	"github.com/SriGanesh737/employee-api/internal/validation"
	"github.com/jackc/pgx/v5"
)

const selectEmployee = `
	SELECT e.id, e.full_name, e.job_title, e.phone_number, e.email, e.address, e.city, e.state,
		e.primary_contact_id, e.secondary_contact_id,
		p.id, p.name, p.phone_number, p.relationship,
		s.id, s.name, s.phone_number, s.relationship
	FROM employees e
	JOIN emergency_contacts p ON p.id = e.primary_contact_id
	JOIN emergency_contacts s ON s.id = e.secondary_contact_id`

// maxSerialID is the largest value a SERIAL id column can hold.
const maxSerialID = math.MaxInt32

const (
	getEmployeeByIDQuery  = selectEmployee + ` WHERE e.id = $1`
	lockEmployeeQuery     = selectEmployee + ` WHERE e.id = $1 FOR UPDATE`
	listEmployeesQuery    = selectEmployee + ` ORDER BY e.id LIMIT $1 OFFSET $2`
	lockContactsRefsQuery = `SELECT primary_contact_id, secondary_contact_id FROM employees WHERE id = $1 FOR UPDATE`

	insertContactQuery = `
		INSERT INTO emergency_contacts (name, phone_number, relationship)
		VALUES ($1, $2, $3)
		RETURNING id`
	insertEmployeeQuery = `
		INSERT INTO employees (full_name, job_title, phone_number, email, address, city, state,
			primary_contact_id, secondary_contact_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	deleteContactsQuery = `DELETE FROM emergency_contacts WHERE id = ANY($1)`
	deleteEmployeeQuery = `DELETE FROM employees WHERE id = $1`
)

// CreateEmployee inserts both emergency contacts and the employee that owns them
// in one transaction and returns the employee with the contacts attached.
func (r *Repository) CreateEmployee(ctx context.Context, input models.CreateEmployeeInput) (models.Employee, error) {
	defer r.observe("create_employee", time.Now())

	if err := validation.Struct(input); err != nil {
		return models.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	employee := models.Employee{
		FullName:    input.FullName,
		JobTitle:    input.JobTitle,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
	}

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error

		employee.PrimaryContact, err = insertContact(ctx, tx, *input.PrimaryContact)
		if err != nil {
			return fmt.Errorf("failed to save primary contact: %w", err)
		}

		employee.SecondaryContact, err = insertContact(ctx, tx, *input.SecondaryContact)
		if err != nil {
			return fmt.Errorf("failed to save secondary contact: %w", err)
		}

		employee.PrimaryContactID = employee.PrimaryContact.ID
		employee.SecondaryContactID = employee.SecondaryContact.ID

		err = tx.QueryRow(ctx, insertEmployeeQuery,
			employee.FullName,
			employee.JobTitle,
			employee.PhoneNumber,
			employee.Email,
			employee.Address,
			employee.City,
			employee.State,
			employee.PrimaryContactID,
			employee.SecondaryContactID,
		).Scan(&employee.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to save employee: %w", errs.ErrPersistence, err)
		}

		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	if r.metrics != nil {
		r.metrics.EmployeesCreated.Inc()
	}

	return employee, nil
}

// ListEmployees returns one page of employees in insertion order.
func (r *Repository) ListEmployees(ctx context.Context, page, pageSize int) ([]models.Employee, error) {
	defer r.observe("list_employees", time.Now())

	if err := validation.Page(page, pageSize); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	rows, err := r.db.Query(ctx, listEmployeesQuery, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list employees: %w", errs.ErrPersistence, err)
	}

	employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Employee, error) {
		return scanEmployee(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read employees: %w", errs.ErrPersistence, err)
	}

	if employees == nil {
		employees = []models.Employee{}
	}

	return employees, nil
}

// GetEmployeeByID retrieves an employee with both contacts. It returns nil without an error
// when no employee has the given id.
func (r *Repository) GetEmployeeByID(ctx context.Context, identifier int) (*models.Employee, error) {
	defer r.observe("get_employee_by_id", time.Now())

	if !storableID(identifier) {
		return nil, nil //nolint:nilnil // no row can carry this id
	}

	employee, err := getEmployee(ctx, r.db, getEmployeeByIDQuery, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is a valid result
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get employee by id: %w", errs.ErrPersistence, err)
	}

	return &employee, nil
}

// UpdateEmployee applies the present scalar fields to the employee and each present contact
// patch to the contact row referenced by that slot. It never creates contact rows.
func (r *Repository) UpdateEmployee(
	ctx context.Context,
	identifier int,
	input models.UpdateEmployeeInput,
) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	if err := validation.Struct(input); err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if !storableID(identifier) {
		return models.Employee{}, fmt.Errorf("failed to update employee %d: %w", identifier, errs.ErrNotFound)
	}

	var updated models.Employee

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var primaryID, secondaryID int

		err := tx.QueryRow(ctx, lockContactsRefsQuery, identifier).Scan(&primaryID, &secondaryID)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to update employee %d: %w", identifier, errs.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%w: failed to lock employee: %w", errs.ErrPersistence, err)
		}

		if query, args, ok := buildUpdate("employees", identifier, employeeAssignments(input)); ok {
			if _, err = tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: failed to update employee data: %w", errs.ErrPersistence, err)
			}
		}

		if err = updateContact(ctx, tx, primaryID, input.PrimaryContact); err != nil {
			return fmt.Errorf("failed to update primary contact: %w", err)
		}

		if err = updateContact(ctx, tx, secondaryID, input.SecondaryContact); err != nil {
			return fmt.Errorf("failed to update secondary contact: %w", err)
		}

		updated, err = getEmployee(ctx, tx, getEmployeeByIDQuery, identifier)
		if err != nil {
			return fmt.Errorf("%w: failed to reload employee: %w", errs.ErrPersistence, err)
		}

		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	return updated, nil
}

// DeleteEmployee removes both contacts and then the employee in one transaction.
// It returns the employee as it was before deletion.
func (r *Repository) DeleteEmployee(ctx context.Context, identifier int) (models.Employee, error) {
	defer r.observe("delete_employee", time.Now())

	if !storableID(identifier) {
		return models.Employee{}, fmt.Errorf("failed to delete employee %d: %w", identifier, errs.ErrNotFound)
	}

	var snapshot models.Employee

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error

		snapshot, err = getEmployee(ctx, tx, lockEmployeeQuery, identifier)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to delete employee %d: %w", identifier, errs.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%w: failed to lock employee: %w", errs.ErrPersistence, err)
		}

		contactIDs := []int{snapshot.PrimaryContactID, snapshot.SecondaryContactID}
		if _, err = tx.Exec(ctx, deleteContactsQuery, contactIDs); err != nil {
			return fmt.Errorf("%w: failed to delete emergency contacts: %w", errs.ErrPersistence, err)
		}

		if _, err = tx.Exec(ctx, deleteEmployeeQuery, identifier); err != nil {
			return fmt.Errorf("%w: failed to delete employee: %w", errs.ErrPersistence, err)
		}

		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	if r.metrics != nil {
		r.metrics.EmployeesDeleted.Inc()
	}

	return snapshot, nil
}

func storableID(identifier int) bool {
	return identifier >= 1 && identifier <= maxSerialID
}

func insertContact(ctx context.Context, tx pgx.Tx, input models.ContactInput) (models.EmergencyContact, error) {
	contact := models.EmergencyContact{
		Name:         input.Name,
		PhoneNumber:  input.PhoneNumber,
		Relationship: input.Relationship,
	}

	err := tx.QueryRow(ctx, insertContactQuery, contact.Name, contact.PhoneNumber, contact.Relationship).
		Scan(&contact.ID)
	if err != nil {
		return models.EmergencyContact{}, fmt.Errorf("%w: failed to insert emergency contact: %w", errs.ErrPersistence, err)
	}

	return contact, nil
}

func updateContact(ctx context.Context, tx pgx.Tx, contactID int, patch *models.ContactPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	query, args, _ := buildUpdate("emergency_contacts", contactID, []assignment{
		{column: "name", value: patch.Name},
		{column: "phone_number", value: patch.PhoneNumber},
		{column: "relationship", value: patch.Relationship},
	})

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: failed to update emergency contact %d: %w", errs.ErrPersistence, contactID, err)
	}

	return nil
}

func getEmployee(ctx context.Context, db querier, query string, identifier int) (models.Employee, error) {
	return scanEmployee(db.QueryRow(ctx, query, identifier))
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var result models.Employee

	err := row.Scan(
		&result.ID, &result.FullName, &result.JobTitle, &result.PhoneNumber, &result.Email,
		&result.Address, &result.City, &result.State,
		&result.PrimaryContactID, &result.SecondaryContactID,
		&result.PrimaryContact.ID, &result.PrimaryContact.Name,
		&result.PrimaryContact.PhoneNumber, &result.PrimaryContact.Relationship,
		&result.SecondaryContact.ID, &result.SecondaryContact.Name,
		&result.SecondaryContact.PhoneNumber, &result.SecondaryContact.Relationship,
	)
	if err != nil {
		return models.Employee{}, err
	}

	return result, nil
}

type assignment struct {
	column string
	value  *string
}

func employeeAssignments(input models.UpdateEmployeeInput) []assignment {
	return []assignment{
		{column: "full_name", value: input.FullName},
		{column: "job_title", value: input.JobTitle},
		{column: "phone_number", value: input.PhoneNumber},
		{column: "email", value: input.Email},
		{column: "address", value: input.Address},
		{column: "city", value: input.City},
		{column: "state", value: input.State},
	}
}

// buildUpdate renders an UPDATE for the non-nil assignments, in the order given.
// The row id is always $1. ok is false when there is nothing to set.
func buildUpdate(table string, identifier int, fields []assignment) (string, []any, bool) {
	sets := make([]string, 0, len(fields)+1)
	args := []any{identifier}

	for _, field := range fields {
		if field.value == nil {
			continue
		}
		args = append(args, *field.value)
		sets = append(sets, field.column+" = $"+strconv.Itoa(len(args)))
	}

	if len(sets) == 0 {
		return "", nil, false
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	query := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = $1"

	return query, args, true
}
