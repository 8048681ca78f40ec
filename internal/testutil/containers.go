package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Alturino/storefront/internal/infra"
)

func migrationScripts(t *testing.T) []string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed locating migrations directory")
	}
	scripts, err := filepath.Glob(filepath.Join(filepath.Dir(file), "..", "..", "migrations", "*.up.sql"))
	if err != nil {
		t.Fatalf("failed listing migrations with error: %s", err)
	}
	sort.Strings(scripts)
	return scripts
}

// NewPostgres starts a postgres container with every up migration applied and
// returns a pool configured like the production one.
func NewPostgres(c context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(migrationScripts(t)...),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Errorf("failed to terminate postgres container: %s", err)
		}
	})

	pgConnStr, err := pgContainer.ConnectionString(c, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}
	pgConfig.MaxConns = 32
	pgConfig.AfterConnect = infra.RegisterTypes

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	t.Cleanup(pool.Close)

	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}
	return pool
}

func NewRedis(c context.Context, t *testing.T) *redis.Client {
	t.Helper()

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Errorf("failed to terminate redis container: %s", err)
		}
	})

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis url with error: %s", err)
	}

	client := redis.NewClient(redisOpt)
	t.Cleanup(func() { _ = client.Close() })
	if err = client.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}
	return client
}

func SeedUser(c context.Context, t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(c, `INSERT INTO users (id, email) VALUES ($1, $2)`, id, id.String()+"@example.com")
	if err != nil {
		t.Fatalf("failed seeding user with error: %s", err)
	}
	return id
}

func SeedProduct(c context.Context, t *testing.T, pool *pgxpool.Pool, price string, stock int32) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(
		c,
		`INSERT INTO products (id, name, price, stock_quantity) VALUES ($1, $2, $3::text::numeric, $4)`,
		id,
		"product-"+id.String(),
		decimal.RequireFromString(price).String(),
		stock,
	)
	if err != nil {
		t.Fatalf("failed seeding product with error: %s", err)
	}
	return id
}

func ProductStock(c context.Context, t *testing.T, pool *pgxpool.Pool, productID uuid.UUID) int32 {
	t.Helper()

	var stock int32
	err := pool.QueryRow(c, `SELECT stock_quantity FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		t.Fatalf("failed reading stock of productId=%s with error: %s", productID, err)
	}
	return stock
}

func SetProductPrice(c context.Context, t *testing.T, pool *pgxpool.Pool, productID uuid.UUID, price string) {
	t.Helper()

	_, err := pool.Exec(c, `UPDATE products SET price = $2::text::numeric WHERE id = $1`, productID, price)
	if err != nil {
		t.Fatalf("failed updating price of productId=%s with error: %s", productID, err)
	}
}

// SeedCart inserts an active cart for userID.
func SeedCart(c context.Context, t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(c, `INSERT INTO carts (user_id) VALUES ($1) RETURNING id`, userID).Scan(&id)
	if err != nil {
		t.Fatalf("failed seeding cart with error: %s", err)
	}
	return id
}

// SeedCartItem reserves quantity of the product the same way adding it to a
// cart does.
func SeedCartItem(
	c context.Context,
	t *testing.T,
	pool *pgxpool.Pool,
	cartID uuid.UUID,
	productID uuid.UUID,
	quantity int32,
) uuid.UUID {
	t.Helper()

	tag, err := pool.Exec(
		c,
		`UPDATE products SET stock_quantity = stock_quantity - $2 WHERE id = $1 AND stock_quantity >= $2`,
		productID,
		quantity,
	)
	if err != nil || tag.RowsAffected() != 1 {
		t.Fatalf("failed reserving stock of productId=%s with error: %v", productID, err)
	}

	var id uuid.UUID
	err = pool.QueryRow(
		c,
		`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
		cartID,
		productID,
		quantity,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed seeding cart item with error: %s", err)
	}
	return id
}

func CartStatus(c context.Context, t *testing.T, pool *pgxpool.Pool, cartID uuid.UUID) string {
	t.Helper()

	var status string
	if err := pool.QueryRow(c, `SELECT status::text FROM carts WHERE id = $1`, cartID).Scan(&status); err != nil {
		t.Fatalf("failed reading status of cartId=%s with error: %s", cartID, err)
	}
	return status
}
