package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"barbot/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestOrdersInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders (username, role, drink, quantity, status)")).
		WithArgs("north_bar", domain.RoleBar, "Gin Tonic", 3, domain.StatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	o := &domain.Order{
		Username: "north_bar",
		Role:     domain.RoleBar,
		Drink:    "Gin Tonic",
		Quantity: 3,
		Status:   domain.StatusOpen,
	}
	if err := repo.Insert(context.Background(), o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if o.ID != 7 {
		t.Fatalf("expected id 7, got %d", o.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOrdersDispatch(t *testing.T) {
	t.Run("flips open order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrders(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1 WHERE id = $2 AND status = $3")).
			WithArgs(domain.StatusDispatched, int64(7), domain.StatusOpen).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, role, drink, quantity, status FROM orders WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "drink", "quantity", "status"}).
				AddRow(int64(7), "north_bar", domain.RoleBar, "Gin Tonic", 3, domain.StatusDispatched))

		o, err := repo.Dispatch(context.Background(), 7)
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if o.Status != domain.StatusDispatched {
			t.Fatalf("expected dispatched status, got %q", o.Status)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("already dispatched", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrders(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1 WHERE id = $2 AND status = $3")).
			WithArgs(domain.StatusDispatched, int64(7), domain.StatusOpen).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, role, drink, quantity, status FROM orders WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "drink", "quantity", "status"}).
				AddRow(int64(7), "north_bar", domain.RoleBar, "Gin Tonic", 3, domain.StatusDispatched))

		if _, err := repo.Dispatch(context.Background(), 7); err != domain.ErrAlreadyDispatched {
			t.Fatalf("expected ErrAlreadyDispatched, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewOrders(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1 WHERE id = $2 AND status = $3")).
			WithArgs(domain.StatusDispatched, int64(99), domain.StatusOpen).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, role, drink, quantity, status FROM orders WHERE id = $1")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		if _, err := repo.Dispatch(context.Background(), 99); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestOrdersListOpen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	rows := sqlmock.NewRows([]string{"id", "username", "role", "drink", "quantity", "status"}).
		AddRow(int64(1), "north_bar", domain.RoleBar, "Beer", 2, domain.StatusOpen).
		AddRow(int64(2), "south_bar", domain.RoleBar, "Cola", 5, domain.StatusOpen)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, role, drink, quantity, status FROM orders WHERE status = $1 ORDER BY id")).
		WithArgs(domain.StatusOpen).
		WillReturnRows(rows)

	orders, err := repo.ListOpen(context.Background())
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != 1 || orders[1].Drink != "Cola" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestOrdersListOpenForBar(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrders(db)

	rows := sqlmock.NewRows([]string{"id", "username", "role", "drink", "quantity", "status"}).
		AddRow(int64(3), "north_bar", domain.RoleBar, "Beer", 1, domain.StatusOpen)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1 AND username = $2 ORDER BY id")).
		WithArgs(domain.StatusOpen, "north_bar").
		WillReturnRows(rows)

	orders, err := repo.ListOpenForBar(context.Background(), "north_bar")
	if err != nil {
		t.Fatalf("list open for bar: %v", err)
	}
	if len(orders) != 1 || orders[0].Username != "north_bar" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}
