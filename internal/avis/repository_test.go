package avis

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

func TestCreateAndRateUpdatesTrajetInSameTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	trajetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "avis"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG(note), 0) AS moyenne, COUNT(*) AS total FROM "avis"`)).
		WillReturnRows(sqlmock.NewRows([]string{"moyenne", "total"}).AddRow(4.333, 3))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "trajets" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rating, err := NewRepository(db).CreateAndRate(context.Background(), &Avis{Note: 4, UserID: uuid.New(), TrajetID: trajetID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rating.Note != 4.3 || rating.NbAvis != 3 {
		t.Fatalf("unexpected rating %+v", rating)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAndRateRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "avis"`)).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	if _, err := NewRepository(db).CreateAndRate(context.Background(), &Avis{Note: 4, UserID: uuid.New(), TrajetID: uuid.New()}); err == nil {
		t.Fatal("expected insert error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
