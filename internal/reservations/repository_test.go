package reservations

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return db, mock
}

func TestUpdatePendingIsConditionalOnStatut(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET .*"statut"=.* WHERE .*id = \$\d+ AND statut = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.UpdatePending(context.Background(), id, map[string]interface{}{"statut": StatutConfirmee})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !changed {
		t.Fatal("one affected row means the transition happened")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdatePendingReportsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reservations" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	changed, err := repo.UpdatePending(context.Background(), uuid.New(), map[string]interface{}{"statut": StatutAnnulee})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if changed {
		t.Fatal("zero affected rows is a no-op")
	}
}
