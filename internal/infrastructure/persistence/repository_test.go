package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGorm opens a guarded GORM connection on top of sqlmock
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	db, err := Wrap(gormDB)
	require.NoError(t, err)
	return db.DB, mock, mockDB
}

func TestGormUserRepository_FindByUsername(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db)

	userID, tenantID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE username = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("kepala.sppg", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "username", "role", "status"}).
			AddRow(userID, tenantID, "kepala.sppg", "SPPG_KEPALA", "active"))

	user, err := repo.FindByUsername(context.Background(), "  Kepala.SPPG ")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, tenantID, user.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSchoolRepository_FindByIDForTenant_NotFound(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormSchoolRepository(db)

	tenantID, id := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "schools" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
		WithArgs(tenantID, id, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	school, err := repo.FindByIDForTenant(context.Background(), tenantID, id)
	assert.Nil(t, school)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSchoolRepository_ExistsByNPSN(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormSchoolRepository(db)

	tenantID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "schools" WHERE tenant_id = \$1 AND npsn = \$2`).
		WithArgs(tenantID, "20104567").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByNPSN(context.Background(), tenantID, " 20104567 ")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDistributionRepository_DailyCounters(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormDistributionRepository(db)

	tenantID := uuid.New()
	day := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	midnight := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "distributions" WHERE tenant_id = \$1 AND scheduled_date = \$2 AND status IN \(\$3,\$4,\$5\)`).
		WithArgs(tenantID, midnight, "scheduled", "preparing", "in_transit").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(portions\), 0\) FROM "distributions" WHERE tenant_id = \$1 AND scheduled_date = \$2 AND status = \$3`).
		WithArgs(tenantID, midnight, "delivered").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(1250))

	active, err := repo.CountActive(context.Background(), tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(4), active)

	delivered, err := repo.SumDeliveredPortions(context.Background(), tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), delivered)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAttendanceRepository_CountPresentOnDate(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormAttendanceRepository(db)

	tenantID := uuid.New()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "attendances" WHERE tenant_id = \$1 AND attendance_date = \$2 AND status IN \(\$3,\$4\)`).
		WithArgs(tenantID, day, "present", "late").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := repo.CountPresentOnDate(context.Background(), tenantID, day)
	require.NoError(t, err)
	assert.Equal(t, int64(17), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFeedbackRepository_Stats(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormFeedbackRepository(db)

	tenantID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total, COALESCE\(AVG\(rating\), 0\) AS average FROM "feedbacks" WHERE tenant_id = \$1 AND created_at >= \$2`).
		WithArgs(tenantID, from).
		WillReturnRows(sqlmock.NewRows([]string{"total", "average"}).AddRow(5, 4.2))
	mock.ExpectQuery(`SELECT category, COUNT\(\*\) AS total FROM "feedbacks" WHERE .* GROUP BY "category"`).
		WithArgs(tenantID, from).
		WillReturnRows(sqlmock.NewRows([]string{"category", "total"}).AddRow("taste", 3).AddRow("delivery", 2))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS total FROM "feedbacks" WHERE .* GROUP BY "status"`).
		WithArgs(tenantID, from).
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).AddRow("new", 4).AddRow("resolved", 1))

	stats, err := repo.Stats(context.Background(), tenantID, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.InDelta(t, 4.2, stats.AverageRating, 0.0001)
	assert.Equal(t, int64(3), stats.ByCategory[feedback.CategoryTaste])
	assert.Equal(t, int64(2), stats.ByCategory[feedback.CategoryDelivery])
	assert.Equal(t, int64(4), stats.ByStatus[feedback.StatusNew])
	assert.Equal(t, int64(1), stats.ByStatus[feedback.StatusResolved])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormFeedbackRepository_FindByIDForTenant(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormFeedbackRepository(db)

	tenantID, id := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "feedbacks" WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(tenantID, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "rating"}).AddRow(id, tenantID, 4))

	f, err := repo.FindByIDForTenant(context.Background(), tenantID, id)
	require.NoError(t, err)
	assert.Equal(t, id, f.ID)
	assert.Equal(t, 4, f.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductionRepository_SaveWithLock_Conflict(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormProductionRepository(db)

	p, err := production.NewProduction(uuid.New(), "PRD-20260302-001", time.Now(), uuid.New(), 500)
	require.NoError(t, err)
	p.Version = 3

	mock.ExpectExec(`UPDATE "productions" SET .* WHERE .*tenant_id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.SaveWithLock(context.Background(), p), shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProcurementOrderRepository_CountBySupplier(t *testing.T) {
	db, mock, mockDB := newMockGorm(t)
	defer mockDB.Close()
	repo := NewGormProcurementOrderRepository(db)

	tenantID, supplierID := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "procurement_orders" WHERE tenant_id = \$1 AND supplier_id = \$2`).
		WithArgs(tenantID, supplierID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountBySupplier(context.Background(), tenantID, supplierID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
