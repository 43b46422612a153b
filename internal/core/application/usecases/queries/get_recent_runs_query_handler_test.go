package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"logistics/internal/adapters/out/postgres/runrepo"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/run"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetRecentRunsQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	recorder  *runrepo.GormRunRecorder
	handler   queries.GetRecentRunsQueryHandler
}

func (suite *GetRecentRunsQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&runrepo.RunDTO{}))

	suite.recorder = runrepo.NewGormRunRecorder(db)
	suite.handler = queries.NewGetRecentRunsQueryHandler(db)
}

func (suite *GetRecentRunsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetRecentRunsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE exception_monitor_runs").Error)
}

func (suite *GetRecentRunsQueryHandlerTestSuite) TestHandle_NewestFirst() {
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := range 3 {
		stats, err := run.NewStats(base.Add(time.Duration(i)*5*time.Minute), i, 10, i, time.Second)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.recorder.Record(ctx, stats))
	}
	failed := run.NewFailedStats(base.Add(20*time.Minute), time.Millisecond, errors.New("store unreachable"))
	suite.Require().NoError(suite.recorder.Record(ctx, failed))

	query, err := queries.NewGetRecentRunsQuery(3)
	suite.Require().NoError(err)

	runs, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Require().Len(runs, 3)
	suite.Require().NotNil(runs[0].Error)
	suite.Equal("store unreachable", *runs[0].Error)
	suite.True(base.Add(10 * time.Minute).Equal(runs[1].Timestamp))
	suite.Equal(2, runs[1].ExceptionsFound)
	suite.Nil(runs[1].Error)
	suite.Equal(int64(1000), runs[2].DurationMS)
}

func (suite *GetRecentRunsQueryHandlerTestSuite) TestHandle_Empty() {
	query, err := queries.NewGetRecentRunsQuery(0)
	suite.Require().NoError(err)

	runs, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Empty(runs)
}

func (suite *GetRecentRunsQueryHandlerTestSuite) TestHandle_RejectsZeroQuery() {
	_, err := suite.handler.Handle(context.Background(), queries.GetRecentRunsQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetRecentRunsQueryIsNotConstructed)
}

func TestGetRecentRunsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetRecentRunsQueryHandlerTestSuite))
}
