package notify

import (
	"context"
	"errors"
	"testing"

	"barbot/internal/domain"
)

type fakeRecipients struct {
	byRole map[string][]int64
	byUser map[string][]int64
}

func (f *fakeRecipients) ChatIDsByRole(_ context.Context, role string) ([]int64, error) {
	return f.byRole[role], nil
}

func (f *fakeRecipients) ChatIDsByUsername(_ context.Context, username string) ([]int64, error) {
	return f.byUser[username], nil
}

type fakeSender struct {
	sent    map[int64][]string
	failFor map[int64]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64][]string), failFor: make(map[int64]bool)}
}

func (f *fakeSender) Send(chatID int64, text string) error {
	if f.failFor[chatID] {
		return errors.New("telegram: forbidden")
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func TestNotifyRole(t *testing.T) {
	ctx := context.Background()
	recipients := &fakeRecipients{byRole: map[string][]int64{domain.RoleSupply: {10, 20}}}
	sender := newFakeSender()

	var refreshed []int64
	refresh := func(_ context.Context, chatID int64) error {
		refreshed = append(refreshed, chatID)
		return nil
	}

	svc := New(recipients, sender, refresh)
	if err := svc.NotifyRole(ctx, domain.RoleSupply, "new order"); err != nil {
		t.Fatalf("notify role: %v", err)
	}
	if len(sender.sent[10]) != 1 || len(sender.sent[20]) != 1 {
		t.Fatalf("expected delivery to both chats, got %+v", sender.sent)
	}
	if len(refreshed) != 2 {
		t.Fatalf("expected both views refreshed, got %v", refreshed)
	}
}

func TestNotifyRoleContinuesOnFailure(t *testing.T) {
	ctx := context.Background()
	recipients := &fakeRecipients{byRole: map[string][]int64{domain.RoleSupply: {10, 20, 30}}}
	sender := newFakeSender()
	sender.failFor[20] = true

	svc := New(recipients, sender, nil)
	if err := svc.NotifyRole(ctx, domain.RoleSupply, "new order"); err != nil {
		t.Fatalf("notify role: %v", err)
	}
	if len(sender.sent[10]) != 1 || len(sender.sent[30]) != 1 {
		t.Fatalf("expected remaining chats delivered, got %+v", sender.sent)
	}
	if len(sender.sent[20]) != 0 {
		t.Fatal("failed chat should have no delivery")
	}
}

func TestNotifyUser(t *testing.T) {
	ctx := context.Background()
	recipients := &fakeRecipients{byUser: map[string][]int64{"north_bar": {42, 43}}}
	sender := newFakeSender()

	svc := New(recipients, sender, nil)
	if err := svc.NotifyUser(ctx, "north_bar", "order dispatched"); err != nil {
		t.Fatalf("notify user: %v", err)
	}
	if len(sender.sent[42]) != 1 || len(sender.sent[43]) != 1 {
		t.Fatalf("expected delivery to every chat of the user, got %+v", sender.sent)
	}
}

func TestNotifyUserNoSessions(t *testing.T) {
	ctx := context.Background()
	recipients := &fakeRecipients{byUser: map[string][]int64{}}
	sender := newFakeSender()

	svc := New(recipients, sender, nil)
	if err := svc.NotifyUser(ctx, "ghost", "hello"); err != nil {
		t.Fatalf("notify user: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no deliveries, got %+v", sender.sent)
	}
}
