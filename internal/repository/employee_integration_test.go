//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SriGanesh737/employee-api/internal/config"
	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/metrics"
	"github.com/SriGanesh737/employee-api/internal/models"
	"github.com/SriGanesh737/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamathecxder/randomail"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbName     = "employees"
	dbUser     = "user"
	dbPassword = "password"
)

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	testcontainers.CleanupContainer(t, pgContainer)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(config.PostgresConfig{
		Host:     host,
		Port:     port.Port(),
		User:     dbUser,
		Password: dbPassword,
		Dbname:   dbName,
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, goose.Up(sqlDB, "../../migrations"))

	return pool
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()

	var count int
	require.NoError(t, pool.QueryRow(context.Background(), query, args...).Scan(&count))

	return count
}

func newCreateInput(name string) models.CreateEmployeeInput {
	email := randomail.GenerateRandomEmail()

	return models.CreateEmployeeInput{
		FullName: name,
		JobTitle: strPtr("engineer"),
		Email:    &email,
		City:     strPtr("Austin"),
		PrimaryContact: &models.ContactInput{
			Name: name + " primary", PhoneNumber: "111", Relationship: "spouse",
		},
		SecondaryContact: &models.ContactInput{
			Name: name + " secondary", PhoneNumber: "222", Relationship: "parent",
		},
	}
}

func TestEmployeeRepository_Integration(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	repo := repository.NewEmployeeRepository(pool, appMetrics)

	created, err := repo.CreateEmployee(ctx, newCreateInput("Jane Doe"))
	require.NoError(t, err)

	t.Run("create returns both contacts", func(t *testing.T) {
		assert.NotZero(t, created.ID)
		assert.NotZero(t, created.PrimaryContact.ID)
		assert.NotZero(t, created.SecondaryContact.ID)
		assert.NotEqual(t, created.PrimaryContact.ID, created.SecondaryContact.ID)
		assert.Equal(t, created.PrimaryContact.ID, created.PrimaryContactID)
		assert.Equal(t, created.SecondaryContact.ID, created.SecondaryContactID)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.EmployeesCreated), 0)
	})

	t.Run("get equals create result", func(t *testing.T) {
		got, err := repo.GetEmployeeByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created, *got)
	})

	t.Run("create without secondary contact persists nothing", func(t *testing.T) {
		employeesBefore := countRows(t, pool, "SELECT count(*) FROM employees")
		contactsBefore := countRows(t, pool, "SELECT count(*) FROM emergency_contacts")

		input := newCreateInput("No Secondary")
		input.SecondaryContact = nil

		_, err := repo.CreateEmployee(ctx, input)
		require.ErrorIs(t, err, errs.ErrValidation)

		assert.Equal(t, employeesBefore, countRows(t, pool, "SELECT count(*) FROM employees"))
		assert.Equal(t, contactsBefore, countRows(t, pool, "SELECT count(*) FROM emergency_contacts"))
	})

	t.Run("job title update leaves contacts unchanged", func(t *testing.T) {
		updated, err := repo.UpdateEmployee(ctx, created.ID, models.UpdateEmployeeInput{JobTitle: strPtr("X")})
		require.NoError(t, err)

		assert.Equal(t, "X", *updated.JobTitle)
		assert.Equal(t, created.FullName, updated.FullName)
		assert.Equal(t, created.PrimaryContact, updated.PrimaryContact)
		assert.Equal(t, created.SecondaryContact, updated.SecondaryContact)
	})

	t.Run("primary phone update touches only that contact", func(t *testing.T) {
		contactsBefore := countRows(t, pool, "SELECT count(*) FROM emergency_contacts")

		updated, err := repo.UpdateEmployee(ctx, created.ID, models.UpdateEmployeeInput{
			PrimaryContact: &models.ContactPatch{PhoneNumber: strPtr("555")},
		})
		require.NoError(t, err)

		assert.Equal(t, created.PrimaryContact.ID, updated.PrimaryContact.ID)
		assert.Equal(t, "555", updated.PrimaryContact.PhoneNumber)
		assert.Equal(t, created.PrimaryContact.Name, updated.PrimaryContact.Name)
		assert.Equal(t, created.SecondaryContact, updated.SecondaryContact)
		assert.Equal(t, contactsBefore, countRows(t, pool, "SELECT count(*) FROM emergency_contacts"))
	})

	t.Run("secondary contact update uses the secondary row", func(t *testing.T) {
		updated, err := repo.UpdateEmployee(ctx, created.ID, models.UpdateEmployeeInput{
			SecondaryContact: &models.ContactPatch{Relationship: strPtr("sibling")},
		})
		require.NoError(t, err)

		assert.Equal(t, created.SecondaryContact.ID, updated.SecondaryContact.ID)
		assert.Equal(t, "sibling", updated.SecondaryContact.Relationship)
		assert.Equal(t, "spouse", updated.PrimaryContact.Relationship)
	})

	t.Run("missing employee is not found", func(t *testing.T) {
		missing := created.ID + 1000

		_, err := repo.UpdateEmployee(ctx, missing, models.UpdateEmployeeInput{JobTitle: strPtr("Y")})
		require.ErrorIs(t, err, errs.ErrNotFound)

		_, err = repo.DeleteEmployee(ctx, missing)
		require.ErrorIs(t, err, errs.ErrNotFound)

		got, err := repo.GetEmployeeByID(ctx, missing)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete removes employee and both contacts", func(t *testing.T) {
		before, err := repo.GetEmployeeByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, before)

		snapshot, err := repo.DeleteEmployee(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *before, snapshot)

		got, err := repo.GetEmployeeByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		orphans := countRows(t, pool, "SELECT count(*) FROM emergency_contacts WHERE id = ANY($1)",
			[]int{snapshot.PrimaryContactID, snapshot.SecondaryContactID})
		assert.Zero(t, orphans)
	})

	t.Run("pagination follows insertion order", func(t *testing.T) {
		_, err := pool.Exec(ctx, "TRUNCATE employees, emergency_contacts RESTART IDENTITY")
		require.NoError(t, err)

		ids := make([]int, 0, 12)
		for i := 1; i <= 12; i++ {
			employee, err := repo.CreateEmployee(ctx, newCreateInput(fmt.Sprintf("Employee %02d", i)))
			require.NoError(t, err)
			ids = append(ids, employee.ID)
		}

		page, err := repo.ListEmployees(ctx, 2, 5)
		require.NoError(t, err)
		require.Len(t, page, 5)
		for i, employee := range page {
			assert.Equal(t, ids[5+i], employee.ID)
			assert.NotZero(t, employee.PrimaryContact.ID)
			assert.NotZero(t, employee.SecondaryContact.ID)
		}

		first, err := repo.ListEmployees(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, first, 10)
		assert.Equal(t, ids[0], first[0].ID)

		empty, err := repo.ListEmployees(ctx, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
