package auth

import (
	"context"
	"testing"

	"barbot/internal/domain"
)

type fakeSessionStore struct {
	sessions map[int64]domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]domain.Session)}
}

func (f *fakeSessionStore) Upsert(_ context.Context, s domain.Session) error {
	f.sessions[s.ChatID] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, chatID int64) (*domain.Session, error) {
	s, ok := f.sessions[chatID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, chatID int64) (bool, error) {
	_, ok := f.sessions[chatID]
	delete(f.sessions, chatID)
	return ok, nil
}

func testStaff() Staff {
	return Staff{
		"north_bar": {Password: "pw1", Role: domain.RoleBar},
		"runner":    {Password: "pw2", Role: domain.RoleSupply},
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		role, err := svc.Login(ctx, 1, "north_bar", "pw1")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if role != domain.RoleBar {
			t.Fatalf("expected bar role, got %q", role)
		}
		sess, err := svc.Current(ctx, 1)
		if err != nil || sess.Username != "north_bar" {
			t.Fatalf("current after login: sess=%+v err=%v", sess, err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Login(ctx, 1, "north_bar", "nope"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Login(ctx, 1, "ghost", "pw1"); err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("double login", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Login(ctx, 1, "north_bar", "pw1"); err != nil {
			t.Fatalf("first login: %v", err)
		}
		if _, err := svc.Login(ctx, 1, "runner", "pw2"); err != domain.ErrAlreadyLoggedIn {
			t.Fatalf("expected ErrAlreadyLoggedIn, got %v", err)
		}
	})

	t.Run("same user on two chats", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Login(ctx, 1, "north_bar", "pw1"); err != nil {
			t.Fatalf("chat 1: %v", err)
		}
		if _, err := svc.Login(ctx, 2, "north_bar", "pw1"); err != nil {
			t.Fatalf("chat 2: %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("active session", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Login(ctx, 1, "runner", "pw2"); err != nil {
			t.Fatalf("login: %v", err)
		}
		sess, err := svc.Logout(ctx, 1)
		if err != nil || sess.Username != "runner" {
			t.Fatalf("logout: sess=%+v err=%v", sess, err)
		}
		if _, err := svc.Current(ctx, 1); err != domain.ErrNotLoggedIn {
			t.Fatalf("expected ErrNotLoggedIn after logout, got %v", err)
		}
	})

	t.Run("no session", func(t *testing.T) {
		svc := New(testStaff(), newFakeSessionStore())
		if _, err := svc.Logout(ctx, 1); err != domain.ErrNotLoggedIn {
			t.Fatalf("expected ErrNotLoggedIn, got %v", err)
		}
	})
}

func TestRoleLookup(t *testing.T) {
	ctx := context.Background()
	svc := New(testStaff(), newFakeSessionStore())

	if _, ok := svc.RoleLookup(ctx, 1); ok {
		t.Fatal("expected no role before login")
	}
	if _, err := svc.Login(ctx, 1, "runner", "pw2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	role, ok := svc.RoleLookup(ctx, 1)
	if !ok || role != domain.RoleSupply {
		t.Fatalf("expected supply role, got %q ok=%v", role, ok)
	}
}
