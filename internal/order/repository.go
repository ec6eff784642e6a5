package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateID is returned when the generated order number is already taken.
	ErrDuplicateID = errors.New("duplicate order id")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	ListByPhone(ctx context.Context, phone string) ([]Order, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	pickup, err := json.Marshal(o.Pickup)
	if err != nil {
		return fmt.Errorf("marshal pickup: %w", err)
	}
	pricing, err := json.Marshal(o.Pricing)
	if err != nil {
		return fmt.Errorf("marshal pricing: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO orders (id, session_id, phone, items, customer, pickup, pricing, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, o.ID, o.SessionID, NormalizePhone(o.Customer.Phone), items, customer, pickup, pricing, o.Timestamp)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

const selectOrder = `SELECT id, session_id, items, customer, pickup, pricing, created_at FROM orders`

func (r *PostgresRepository) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, selectOrder+` WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByPhone(ctx context.Context, phone string) ([]Order, error) {
	rows, err := r.pool.Query(ctx, selectOrder+` WHERE phone=$1 ORDER BY created_at DESC`, NormalizePhone(phone))
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                                Order
		items, customer, pickup, pricing []byte
		createdAt                        time.Time
	)
	if err := row.Scan(&o.ID, &o.SessionID, &items, &customer, &pickup, &pricing, &createdAt); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return Order{}, fmt.Errorf("decode customer: %w", err)
	}
	if err := json.Unmarshal(pickup, &o.Pickup); err != nil {
		return Order{}, fmt.Errorf("decode pickup: %w", err)
	}
	if err := json.Unmarshal(pricing, &o.Pricing); err != nil {
		return Order{}, fmt.Errorf("decode pricing: %w", err)
	}
	o.Timestamp = createdAt.UTC()
	return o, nil
}
