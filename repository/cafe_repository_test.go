package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cafelist/config"
	"cafelist/database"
	"cafelist/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      filepath.Join(t.TempDir(), "cafe.db"),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *CafeRepo) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return mock, NewCafeRepo(db)
}

func sampleCafe(name string) model.Cafe {
	return model.Cafe{
		Name:         name,
		MapURL:       "http://x",
		ImgURL:       "http://y",
		Location:     "Town",
		Seats:        "5",
		HasToilet:    true,
		HasWifi:      false,
		HasSockets:   true,
		CanTakeCalls: true,
		CoffeePrice:  "£2.50",
	}
}

func TestCafeRepo_CreateAndList(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	first := sampleCafe("Joe's")
	second := sampleCafe("Kim's")
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	cafes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, first, cafes[0])
	assert.Equal(t, second, cafes[1])

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestCafeRepo_Create_DuplicateName(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	first := sampleCafe("Joe's")
	require.NoError(t, repo.Create(ctx, &first))

	dup := sampleCafe("Joe's")
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicateName)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCafeRepo_GetByID(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	cafe := sampleCafe("Joe's")
	require.NoError(t, repo.Create(ctx, &cafe))

	got, err := repo.GetByID(ctx, cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joe's", got.Name)

	_, err = repo.GetByID(ctx, cafe.ID+100)
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestCafeRepo_Delete_RemovesOnlyTarget(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	a, b, c := sampleCafe("A"), sampleCafe("B"), sampleCafe("C")
	for _, cafe := range []*model.Cafe{&a, &b, &c} {
		require.NoError(t, repo.Create(ctx, cafe))
	}

	require.NoError(t, repo.Delete(ctx, b.ID))

	cafes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cafes, 2)
	assert.Equal(t, a.ID, cafes[0].ID)
	assert.Equal(t, c.ID, cafes[1].ID)
}

func TestCafeRepo_Delete_Missing(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	cafe := sampleCafe("A")
	require.NoError(t, repo.Create(ctx, &cafe))

	err := repo.Delete(ctx, cafe.ID+1)
	assert.ErrorIs(t, err, ErrCafeNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCafeRepo_CreateBatch_AllOrNothing(t *testing.T) {
	repo := NewCafeRepo(setupSQLite(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateBatch(ctx, []model.Cafe{sampleCafe("A"), sampleCafe("B")}))

	err := repo.CreateBatch(ctx, []model.Cafe{sampleCafe("C"), sampleCafe("A")})
	assert.ErrorIs(t, err, ErrDuplicateName)

	cafes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, cafes, 2)

	assert.NoError(t, repo.CreateBatch(ctx, nil))
}

func TestCafeRepo_List_StoreFailure(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "cafes"`).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCafeRepo_Delete_MissingOnPostgres(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "cafes" WHERE "cafes"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCafeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCafeRepo_Create_UniqueViolationOnPostgres(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "cafes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	cafe := sampleCafe("Joe's")
	err := repo.Create(context.Background(), &cafe)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
