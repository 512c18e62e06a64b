package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"tablelog/ratings-service/internal/app/ratings/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RestaurantRepositoryTestSuite тестовый suite для PostgreSQL repository ресторанов
type RestaurantRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  RestaurantRepository
	sqlDB *sql.DB
}

func TestRestaurantRepositorySuite(t *testing.T) {
	suite.Run(t, new(RestaurantRepositoryTestSuite))
}

func (s *RestaurantRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewRestaurantRepository(s.db)
}

func (s *RestaurantRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== Create Tests =====================

func (s *RestaurantRepositoryTestSuite) TestCreate_Success() {
	ctx := context.Background()
	restaurant := &entity.Restaurant{
		ID:        uuid.New(),
		Name:      "Cafe ABC",
		CreatedBy: "user-123",
		CreatedAt: time.Now(),
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "restaurants"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	err := s.repo.Create(ctx, restaurant)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RestaurantRepositoryTestSuite) TestCreate_DuplicateName() {
	ctx := context.Background()
	restaurant := &entity.Restaurant{
		ID:        uuid.New(),
		Name:      "Cafe ABC",
		CreatedBy: "user-123",
		CreatedAt: time.Now(),
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "restaurants"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "restaurants_name_key"})
	s.mock.ExpectRollback()

	err := s.repo.Create(ctx, restaurant)

	s.ErrorIs(err, ErrDuplicateKey)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByID Tests =====================

func (s *RestaurantRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	restaurantID := uuid.New()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "name", "address", "created_by", "latitude", "longitude", "place_id", "created_at"}).
		AddRow(restaurantID, "Cafe ABC", "Main street 1", "user-123", 55.75, 37.61, nil, createdAt)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurants" WHERE id = $1`)).
		WithArgs(restaurantID).
		WillReturnRows(rows)

	restaurant, err := s.repo.GetByID(ctx, restaurantID)

	s.NoError(err)
	s.NotNil(restaurant)
	s.Equal(restaurantID, restaurant.ID)
	s.Equal("Cafe ABC", restaurant.Name)
	s.Equal("user-123", restaurant.CreatedBy)
	s.NotNil(restaurant.Latitude)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RestaurantRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	restaurantID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurants" WHERE id = $1`)).
		WithArgs(restaurantID).
		WillReturnError(gorm.ErrRecordNotFound)

	restaurant, err := s.repo.GetByID(ctx, restaurantID)

	s.ErrorIs(err, ErrRestaurantNotFound)
	s.Nil(restaurant)
}

// ===================== FindByNameFold Tests =====================

func (s *RestaurantRepositoryTestSuite) TestFindByNameFold_MatchesDifferentCase() {
	ctx := context.Background()
	restaurantID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
		AddRow(restaurantID, "Cafe ABC", "user-123", time.Now())

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurants" WHERE LOWER(name) = LOWER($1)`)).
		WithArgs("cafe abc").
		WillReturnRows(rows)

	restaurant, err := s.repo.FindByNameFold(ctx, "cafe abc")

	s.NoError(err)
	// Возвращается имя существующей строки, а не искомое
	s.Equal("Cafe ABC", restaurant.Name)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RestaurantRepositoryTestSuite) TestFindByNameFold_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurants" WHERE LOWER(name) = LOWER($1)`)).
		WithArgs("nowhere").
		WillReturnError(gorm.ErrRecordNotFound)

	restaurant, err := s.repo.FindByNameFold(ctx, "nowhere")

	s.ErrorIs(err, ErrRestaurantNotFound)
	s.Nil(restaurant)
}

// ===================== Delete Tests =====================

func (s *RestaurantRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()
	restaurantID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "restaurants" WHERE id = $1 AND created_by = $2`)).
		WithArgs(restaurantID, "user-123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	affected, err := s.repo.Delete(ctx, restaurantID, "user-123")

	s.NoError(err)
	s.Equal(int64(1), affected)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RestaurantRepositoryTestSuite) TestDelete_NotOwner() {
	ctx := context.Background()
	restaurantID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "restaurants" WHERE id = $1 AND created_by = $2`)).
		WithArgs(restaurantID, "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	affected, err := s.repo.Delete(ctx, restaurantID, "intruder")

	s.NoError(err)
	s.Equal(int64(0), affected)
}

// ===================== GetSummaries Tests =====================

func (s *RestaurantRepositoryTestSuite) TestGetSummaries() {
	ctx := context.Background()
	firstID := uuid.New()
	secondID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "created_by", "created_at", "avg_half", "review_count"}).
		AddRow(firstID, "Bistro XYZ", "user-1", time.Now(), nil, 0).
		AddRow(secondID, "Cafe ABC", "user-2", time.Now(), 8.5, 4)

	s.mock.ExpectQuery(`SELECT restaurants\.\*, AVG`).
		WillReturnRows(rows)

	summaries, err := s.repo.GetSummaries(ctx)

	s.NoError(err)
	s.Len(summaries, 2)
	s.Nil(summaries[0].AvgHalf)
	s.Equal(0, summaries[0].ReviewCount)
	s.NotNil(summaries[1].AvgHalf)
	s.Equal(8.5, *summaries[1].AvgHalf)
	s.Equal(4, summaries[1].ReviewCount)
	s.NoError(s.mock.ExpectationsWereMet())
}
