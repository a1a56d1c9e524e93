// Package testutil starts the postgres and redis containers the service
// tests run against.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/fooddelivery/internal/infra"
)

var (
	Alice = uuid.MustParse("0b8a4f3e-6a51-4a57-9d36-7c1f8f0b6a01")
	Bob   = uuid.MustParse("5d3c2b1a-9e8f-4c7d-8b6a-5f4e3d2c1b02")
)

const (
	ItemCarbonara    int64 = 1
	ItemGarlicBread  int64 = 2
	ItemTiramisu     int64 = 3
	ItemSalmonNigiri int64 = 4
	RestaurantPasta  int64 = 1
	RestaurantSushi  int64 = 2
)

// Root is the module root, resolved from this file's location so tests work
// from any package directory.
func Root() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// StartPostgres runs a migrated and seeded postgres container. The pool and
// container are released by t.Cleanup.
func StartPostgres(t *testing.T, c context.Context) *pgxpool.Pool {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pool, err := infra.NewPool(c, pgConnStr, 20, 1)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

	err = infra.Migrate(c, pool, "file://"+filepath.Join(Root(), "migrations"))
	if err != nil {
		t.Fatalf("failed migrating database with error: %s", err)
	}

	for _, seed := range []string{"users.seed.sql", "catalog.seed.sql"} {
		sql, err := os.ReadFile(filepath.Join(Root(), "seed", seed))
		if err != nil {
			t.Fatalf("failed reading %s with error: %s", seed, err)
		}
		if _, err = pool.Exec(c, string(sql)); err != nil {
			t.Fatalf("failed seeding %s with error: %s", seed, err)
		}
	}

	return pool
}

// StartRedis runs a redis container released by t.Cleanup.
func StartRedis(t *testing.T, c context.Context) *redis.Client {
	t.Helper()

	redisContainer, err := testRedis.Run(
		c,
		"redis:7.4.2-alpine3.21",
		testRedis.WithLogLevel(testRedis.LogLevelVerbose),
	)
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	t.Cleanup(func() { redisClient.Close() })
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	return redisClient
}
