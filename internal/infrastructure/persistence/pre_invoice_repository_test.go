package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/billing"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/sequence"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared"
	"github.com/abbeyjpaulose-ops/shipment-app-sub000/internal/domain/shared/valueobject"
)

func newMockPreInvoiceRepository(t *testing.T) (*GormPreInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPreInvoiceRepository(gormDB), mock, mockDB
}

func preInvoiceFixture(t *testing.T, tenantID uuid.UUID, seq int) *billing.PreInvoice {
	t.Helper()
	entity := valueobject.EntityRef{Kind: valueobject.EntityKindClient, ID: uuid.New()}
	preInvoice, err := billing.NewPreInvoice(
		tenantID, sequence.FiscalYear(2025), sequence.CategoryBusiness,
		nil, "", seq, entity, uuid.New(),
		[]billing.PreInvoiceLine{{
			ShipmentID:        uuid.New(),
			ConsignmentNumber: "CN0001",
			FinalAmount:       decimal.NewFromInt(900),
		}},
	)
	require.NoError(t, err)
	return preInvoice
}

func TestGormPreInvoiceRepository_Create(t *testing.T) {
	t.Run("reports a draft serial collision for retry", func(t *testing.T) {
		repo, mock, mockDB := newMockPreInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		preInvoice := preInvoiceFixture(t, tenantID, 3)

		mock.ExpectExec(`INSERT INTO "pre_invoices"`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), preInvoice)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPreInvoiceRepository_MaxSequenceNo(t *testing.T) {
	t.Run("tenant-wide scope compares branch as NULL", func(t *testing.T) {
		repo, mock, mockDB := newMockPreInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		scope := sequence.Scope{
			TenantID:   tenantID,
			FiscalYear: sequence.FiscalYear(2025),
			Kind:       sequence.SeriesKindPreInvoice,
			Category:   sequence.CategoryBusiness,
		}

		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sequence_no\), 0\) FROM "pre_invoices" WHERE tenant_id = \$1 AND fiscal_year = \$2 AND category = \$3 AND branch_id IS NOT DISTINCT FROM \$4`).
			WithArgs(tenantID, 2025, "B", nil).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

		max, err := repo.MaxSequenceNo(context.Background(), scope)

		assert.NoError(t, err)
		assert.Equal(t, 7, max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("branch scope uses the branch id", func(t *testing.T) {
		repo, mock, mockDB := newMockPreInvoiceRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		branchID := uuid.New()
		scope := sequence.Scope{
			TenantID:   tenantID,
			FiscalYear: sequence.FiscalYear(2025),
			Kind:       sequence.SeriesKindPreInvoice,
			BranchID:   &branchID,
			Category:   sequence.CategoryConsumer,
		}

		mock.ExpectQuery(`SELECT COALESCE\(MAX\(sequence_no\), 0\) FROM "pre_invoices"`).
			WithArgs(tenantID, 2025, "C", branchID).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		max, err := repo.MaxSequenceNo(context.Background(), scope)

		assert.NoError(t, err)
		assert.Equal(t, 0, max)
	})
}
