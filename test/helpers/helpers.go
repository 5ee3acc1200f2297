// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockcart-be/internal/adapters/db"
	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_stockcart",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_stockcart",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_stockcart",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			PoolSize: 10,
		},
		Security: config.SecurityConfig{
			JWTSecret:          "test-secret",
			JWTExpiration:      24 * time.Hour,
			LoginMaxFailures:   10,
			LoginLockout:       15 * time.Minute,
			RateLimitRequests:  100,
			RateLimitDuration:  time.Minute,
			AllowedOrigins:     []string{"*"},
			SecureHeaders:      false,
			CollaboratorAccess: true,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"inventory_logs",
		"inventory_collaborators",
		"transactions",
		"cart_items",
		"carts",
		"products",
		"inventories",
		"users",
		"auth_credentials",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// CreateTestProduct builds a product record for seeding fake or real stores.
func CreateTestProduct(productID, inventoryID string, overrides ...func(domain.Record)) domain.Record {
	rec := domain.Record{
		"product_id":   productID,
		"inventory_id": inventoryID,
		"name":         "Test Widget",
		"price":        decimal.NewFromFloat(9.99),
		"stock":        int64(100),
		"created_at":   time.Now(),
	}
	for _, override := range overrides {
		override(rec)
	}
	return rec
}

// CreateTestCart builds a cart record owned by the given user.
func CreateTestCart(cartID, ownerUserID string) domain.Record {
	return domain.Record{
		"id":            cartID,
		"owner_user_id": ownerUserID,
		"cart_name":     "Test Cart",
		"created_at":    time.Now(),
	}
}

// fakeTable holds the rows of one collection plus its serial counter.
type fakeTable struct {
	rows   []domain.Record
	serial int64
}

// FakeGateway is an in-memory record gateway for unit and workflow tests.
// It mirrors the store's semantics closely enough for the services built
// on it: rows keep insertion order, cart_items carries a uniqueness
// constraint on (cart_id, product_id), and serial ids are assigned to
// collections whose schema uses them.
type FakeGateway struct {
	mu     sync.Mutex
	tables map[string]*fakeTable

	// FailWith, when set, makes every call return this error. Used to
	// exercise upstream-failure paths.
	FailWith error
}

var _ ports.RecordGateway = (*FakeGateway)(nil)

// NewFakeGateway returns an empty in-memory gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{tables: make(map[string]*fakeTable)}
}

// serialCollections lists the collections whose id is store-assigned.
var serialCollections = map[string]bool{
	domain.CollectionCartItems:     true,
	domain.CollectionInventoryLogs: true,
	domain.CollectionCollaborators: true,
}

func (f *FakeGateway) table(collection string) *fakeTable {
	tbl, ok := f.tables[collection]
	if !ok {
		tbl = &fakeTable{}
		f.tables[collection] = tbl
	}
	return tbl
}

// Seed inserts a row directly, bypassing constraints. Test setup only.
func (f *FakeGateway) Seed(collection string, record domain.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tbl := f.table(collection)
	row := cloneRecord(record)
	if serialCollections[collection] {
		if _, ok := row["id"]; !ok {
			tbl.serial++
			row["id"] = tbl.serial
		}
	}
	tbl.rows = append(tbl.rows, row)
}

// Rows returns a copy of the collection's current rows.
func (f *FakeGateway) Rows(collection string) []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	tbl := f.table(collection)
	out := make([]domain.Record, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		out = append(out, cloneRecord(row))
	}
	return out
}

func (f *FakeGateway) Find(ctx context.Context, collection string, filters domain.Filters) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	var out []domain.Record
	for _, row := range f.table(collection).rows {
		if matches(row, filters) {
			out = append(out, cloneRecord(row))
		}
	}
	return out, nil
}

func (f *FakeGateway) Insert(ctx context.Context, collection string, fields map[string]any) (domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	tbl := f.table(collection)

	if collection == domain.CollectionCartItems {
		for _, row := range tbl.rows {
			if row["cart_id"] == fields["cart_id"] && row["product_id"] == fields["product_id"] {
				return nil, fmt.Errorf("duplicate cart item: %w", domain.ErrConflict)
			}
		}
	}
	if collection == domain.CollectionCollaborators {
		for _, row := range tbl.rows {
			if row["inventory_id"] == fields["inventory_id"] && row["collaborator_user_id"] == fields["collaborator_user_id"] {
				return nil, fmt.Errorf("duplicate collaborator: %w", domain.ErrConflict)
			}
		}
	}

	row := cloneRecord(domain.Record(fields))
	if serialCollections[collection] {
		tbl.serial++
		row["id"] = tbl.serial
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = time.Now()
	}
	tbl.rows = append(tbl.rows, row)
	return cloneRecord(row), nil
}

func (f *FakeGateway) UpdateWhere(ctx context.Context, collection string, filters domain.Filters, fields map[string]any) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	var out []domain.Record
	for _, row := range f.table(collection).rows {
		if matches(row, filters) {
			for k, v := range fields {
				row[k] = v
			}
			out = append(out, cloneRecord(row))
		}
	}
	return out, nil
}

func (f *FakeGateway) DeleteWhere(ctx context.Context, collection string, filters domain.Filters) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return 0, f.FailWith
	}

	tbl := f.table(collection)
	kept := tbl.rows[:0]
	var deleted int64
	for _, row := range tbl.rows {
		if matches(row, filters) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	tbl.rows = kept
	return deleted, nil
}

func (f *FakeGateway) IncrementWhere(ctx context.Context, collection string, filters domain.Filters, field string, delta int64) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailWith != nil {
		return nil, f.FailWith
	}

	var out []domain.Record
	for _, row := range f.table(collection).rows {
		if matches(row, filters) {
			row[field] = domain.Record(row).Int64(field) + delta
			out = append(out, cloneRecord(row))
		}
	}
	return out, nil
}

func cloneRecord(record domain.Record) domain.Record {
	out := make(domain.Record, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}

// matches applies exact-match filters with loose integer comparison, the
// way the store treats a Go int against a bigint column.
func matches(row domain.Record, filters domain.Filters) bool {
	for key, want := range filters {
		got := row[key]
		if got == want {
			continue
		}
		gi, gok := asInt64(got)
		wi, wok := asInt64(want)
		if gok && wok && gi == wi {
			continue
		}
		return false
	}
	return true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
