//go:build unit || e2e

package dbtest

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestCompany inserts a company open 08:00-18:00 on a 30 minute
// grid.
func CreateTestCompany(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	companyID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO companies (id, name, timezone, open_time, close_time, slot_granularity_min) VALUES ($1, $2, 'UTC', '08:00', '18:00', 30)",
		companyID, name)
	require.NoError(t, err)

	return companyID
}

func CreateTestService(t *testing.T, db DBLike, companyID uuid.UUID, name string, durationMin int) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO services (id, company_id, name, duration_min, price_cents, active) VALUES ($1, $2, $3, $4, 5000, true)",
		serviceID, companyID, name, durationMin)
	require.NoError(t, err)

	return serviceID
}

// CreateTestEmployee inserts a visible employee assigned to the service
// with a Monday-through-Sunday 09:00-18:00 schedule.
func CreateTestEmployee(t *testing.T, db DBLike, companyID, serviceID uuid.UUID, name string, priority int) uuid.UUID {
	t.Helper()

	employeeID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO employees (id, company_id, name, visible) VALUES ($1, $2, $3, true)",
		employeeID, companyID, name)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		"INSERT INTO employee_services (employee_id, service_id, priority) VALUES ($1, $2, $3)",
		employeeID, serviceID, priority)
	require.NoError(t, err)

	for weekday := 0; weekday < 7; weekday++ {
		_, err = db.Exec(ctx,
			"INSERT INTO schedule_windows (employee_id, weekday, start_time, end_time) VALUES ($1, $2, '09:00', '18:00')",
			employeeID, weekday)
		require.NoError(t, err)
	}

	return employeeID
}

func CountAppointments(t *testing.T, db DBLike, employeeID uuid.UUID, status string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM appointments WHERE employee_id = $1 AND status = $2",
		employeeID, status).Scan(&count)
	require.NoError(t, err)
	return count
}

func CountCustomers(t *testing.T, db DBLike, companyID uuid.UUID, email string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM customers WHERE company_id = $1 AND email = $2",
		companyID, email).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all tables between subtests.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if len(tables) == 0 {
			truncateSQL.Store("")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE")
	})

	sql, _ := truncateSQL.Load().(string)
	if sql == "" {
		return nil
	}

	_, err := pool.Exec(ctx, sql)
	return err
}
