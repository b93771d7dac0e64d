package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

func newInstituteRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInstituteRepositorySaveAndLoad(t *testing.T) {
	db, mock, cleanup := newInstituteRepoMock(t)
	defer cleanup()

	repo := NewInstituteRepository(db)

	institute := &models.Institute{
		Code:    "INST001",
		Name:    "Sunrise Institute of Technology",
		Created: time.Now().UTC(),
		Timetables: map[string]*models.Timetable{
			"2-d1-A": {Year: 2, Department: "d1", Division: "A", Schedule: map[string][]models.Slot{}},
		},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO institutes")).
		WithArgs(institute.Code, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Save(context.Background(), institute))

	payload, err := json.Marshal(institute)
	require.NoError(t, err)
	rows := sqlmock.NewRows([]string{"code", "data", "updated_at"}).
		AddRow("INST001", payload, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, data, updated_at FROM institutes")).
		WithArgs("INST001").
		WillReturnRows(rows)

	found, err := repo.Load(context.Background(), "INST001")
	require.NoError(t, err)
	require.Equal(t, "INST001", found.Code)
	require.Equal(t, institute.Name, found.Name)
	require.Contains(t, found.Timetables, "2-d1-A")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstituteRepositoryLoadNotFound(t *testing.T) {
	db, mock, cleanup := newInstituteRepoMock(t)
	defer cleanup()

	repo := NewInstituteRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, data, updated_at FROM institutes")).
		WithArgs("MISSING").
		WillReturnError(sqlmock.ErrCancelled)

	// sqlmock.ErrCancelled is not ErrNoRows, so a generic error surfaces.
	_, err := repo.Load(context.Background(), "MISSING")
	require.Error(t, err)
	require.NotErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstituteRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newInstituteRepoMock(t)
	defer cleanup()

	repo := NewInstituteRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM institutes")).
		WithArgs("MISSING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "MISSING")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstituteRepositoryExists(t *testing.T) {
	db, mock, cleanup := newInstituteRepoMock(t)
	defer cleanup()

	repo := NewInstituteRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM institutes")).
		WithArgs("INST001").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "INST001")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
