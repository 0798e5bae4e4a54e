package repository

import (
	"context"
	"testing"

	"doubtdesk/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestQuestionRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "questions" WHERE id = \$1`).
		WithArgs("q-missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "q-missing")
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, err.(*models.AppError).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_ReplaceAnswers(t *testing.T) {
	t.Run("Guarded write succeeds", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "questions" SET .+ WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReplaceAnswers(context.Background(), "q-1",
			models.AnswerList{{ID: "a-1", Answer: "text"}}, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Stale version reports a conflict", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewQuestionRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "questions" SET .+ WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.ReplaceAnswers(context.Background(), "q-1", models.AnswerList{}, 3)
		assert.ErrorIs(t, err, ErrVersionConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuestionRepository_IncrementUpvotes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "questions" SET "upvotes"=upvotes \+ 1 WHERE id = \$1`).
		WithArgs("q-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.IncrementUpvotes(context.Background(), "q-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepository_DistinctCategories(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewQuestionRepository(db)

	mock.ExpectQuery(`SELECT DISTINCT "category" FROM "questions" WHERE category <> ''`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).
			AddRow("DBMS").AddRow("Operating Systems"))

	categories, err := repo.DistinctCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"DBMS", "Operating Systems"}, categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}
