package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"barbot/internal/domain"
)

func TestSessionsUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessions(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (chat_id, username, role)")).
		WithArgs(int64(42), "north_bar", domain.RoleBar).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := domain.Session{ChatID: 42, Username: "north_bar", Role: domain.RoleBar}
	if err := repo.Upsert(context.Background(), s); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSessionsGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessions(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT chat_id, username, role FROM sessions WHERE chat_id = $1")).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"chat_id", "username", "role"}).
				AddRow(int64(42), "north_bar", domain.RoleBar))

		s, err := repo.Get(context.Background(), 42)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if s == nil || s.Username != "north_bar" || s.Role != domain.RoleBar {
			t.Fatalf("unexpected session: %+v", s)
		}
	})

	t.Run("not logged in", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewSessions(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT chat_id, username, role FROM sessions WHERE chat_id = $1")).
			WithArgs(int64(43)).
			WillReturnRows(sqlmock.NewRows([]string{"chat_id", "username", "role"}))

		s, err := repo.Get(context.Background(), 43)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if s != nil {
			t.Fatalf("expected nil session, got %+v", s)
		}
	})
}

func TestSessionsDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessions(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE chat_id = $1")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE chat_id = $1")).
		WithArgs(int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	existed, err := repo.Delete(context.Background(), 42)
	if err != nil || !existed {
		t.Fatalf("delete existing: existed=%v err=%v", existed, err)
	}
	existed, err = repo.Delete(context.Background(), 43)
	if err != nil || existed {
		t.Fatalf("delete missing: existed=%v err=%v", existed, err)
	}
}

func TestSessionsChatIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessions(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT chat_id FROM sessions WHERE role = $1")).
		WithArgs(domain.RoleSupply).
		WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).AddRow(int64(1)).AddRow(int64(2)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT chat_id FROM sessions WHERE username = $1")).
		WithArgs("north_bar").
		WillReturnRows(sqlmock.NewRows([]string{"chat_id"}).AddRow(int64(42)))

	ids, err := repo.ChatIDsByRole(context.Background(), domain.RoleSupply)
	if err != nil || len(ids) != 2 {
		t.Fatalf("by role: ids=%v err=%v", ids, err)
	}
	ids, err = repo.ChatIDsByUsername(context.Background(), "north_bar")
	if err != nil || len(ids) != 1 || ids[0] != 42 {
		t.Fatalf("by username: ids=%v err=%v", ids, err)
	}
}
