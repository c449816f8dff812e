package setup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"travelmap/config"
	"travelmap/db"
	infraredis "travelmap/infrastructure/redis"
	"travelmap/pkg/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// DatabaseURLEnv names the postgres instance the integration suites run against
const DatabaseURLEnv = "TEST_DATABASE_URL"

// RedisAddrEnv optionally enables the redis session checks
const RedisAddrEnv = "TEST_REDIS_ADDR"

// Countries seeded before every test
var Countries = []db.Country{
	{CountryCode: "DE", CountryName: "Germany"},
	{CountryCode: "FR", CountryName: "France"},
	{CountryCode: "NE", CountryName: "Niger"},
	{CountryCode: "NG", CountryName: "Nigeria"},
	{CountryCode: "US", CountryName: "United States of America"},
}

type TestSuite struct {
	suite.Suite
	DB      *sql.DB
	Queries *db.Queries
	Redis   *redis.Client
	Ctx     context.Context
}

func (s *TestSuite) SetupSuite() {
	s.Ctx = context.Background()

	// Keep service logs out of the test output
	l, err := logger.NewWithConfig(logger.Config{Output: io.Discard, Level: logger.ERROR})
	s.Require().NoError(err)
	logger.SetDefault(l)

	s.setupTestDatabase()
	s.setupRedis()
}

func (s *TestSuite) TearDownSuite() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		s.Redis.Close()
	}
}

func (s *TestSuite) SetupTest() {
	s.cleanDatabase()
	s.seedCountries()
}

func (s *TestSuite) TearDownTest() {
	s.cleanDatabase()
	s.cleanRedis()
}

func (s *TestSuite) setupTestDatabase() {
	connStr := os.Getenv(DatabaseURLEnv)
	s.Require().NotEmpty(connStr, "%s must be set", DatabaseURLEnv)

	pdb, err := sql.Open("postgres", connStr)
	s.Require().NoError(err, "Failed to open database connection")
	s.Require().NoError(pdb.PingContext(s.Ctx), "Failed to ping database")

	s.Require().NoError(RunMigrations(pdb))

	s.DB = pdb
	s.Queries = db.New(pdb)
}

func (s *TestSuite) setupRedis() {
	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		return
	}

	rdb, err := infraredis.NewClient(config.RedisConfig{
		Address:  addr,
		Username: "default",
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
		DB:       1, // Use DB 1 for tests
	})
	s.Require().NoError(err, "Failed to create Redis client")

	s.Redis = rdb
}

func (s *TestSuite) cleanDatabase() {
	// Reverse dependency order
	for _, table := range []string{"visited_country", "users", "countries"} {
		if _, err := s.DB.ExecContext(s.Ctx, "DELETE FROM "+table); err != nil {
			s.T().Logf("Warning: failed to clean %s table: %v", table, err)
		}
	}
}

func (s *TestSuite) seedCountries() {
	for _, c := range Countries {
		_, err := s.DB.ExecContext(s.Ctx,
			"INSERT INTO countries (country_code, country_name) VALUES ($1, $2)",
			c.CountryCode, c.CountryName)
		s.Require().NoError(err, "Failed to seed country %s", c.CountryCode)
	}
}

func (s *TestSuite) cleanRedis() {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.FlushDB(s.Ctx).Err(); err != nil {
		s.T().Logf("Warning: failed to flush Redis: %v", err)
	}
}

// CreateTestUser inserts a user through the generated queries
func (s *TestSuite) CreateTestUser(name, color string) db.User {
	user, err := s.Queries.CreateUser(s.Ctx, db.CreateUserParams{Name: name, Color: color})
	s.Require().NoError(err, "Failed to create user")
	return user
}

// RunMigrations applies sql/schema with goose
func RunMigrations(pdb *sql.DB) error {
	migrationsDir, err := config.ResolvePath("./sql/schema")
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory not found at: %s", migrationsDir)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(pdb, migrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
