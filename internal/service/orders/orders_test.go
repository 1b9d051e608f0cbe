package orders

import (
	"context"
	"testing"

	"barbot/internal/domain"
)

type fakeOrderStore struct {
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[int64]*domain.Order), nextID: 1}
}

func (f *fakeOrderStore) Insert(_ context.Context, o *domain.Order) error {
	o.ID = f.nextID
	f.nextID++
	stored := *o
	f.orders[o.ID] = &stored
	return nil
}

func (f *fakeOrderStore) Dispatch(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusOpen {
		return nil, domain.ErrAlreadyDispatched
	}
	o.Status = domain.StatusDispatched
	copied := *o
	return &copied, nil
}

func (f *fakeOrderStore) ListOpen(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for id := int64(1); id < f.nextID; id++ {
		if o, ok := f.orders[id]; ok && o.Status == domain.StatusOpen {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) ListOpenForBar(_ context.Context, username string) ([]domain.Order, error) {
	var out []domain.Order
	for id := int64(1); id < f.nextID; id++ {
		if o, ok := f.orders[id]; ok && o.Status == domain.StatusOpen && o.Username == username {
			out = append(out, *o)
		}
	}
	return out, nil
}

func TestPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("valid order", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		id, err := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 3)
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if id != 1 {
			t.Fatalf("expected id 1, got %d", id)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		if _, err := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 0); err != domain.ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		if _, err := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", -2); err != domain.ErrInvalidQuantity {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("no dedup for repeated orders", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		first, _ := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 3)
		second, err := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 3)
		if err != nil {
			t.Fatalf("second place: %v", err)
		}
		if first == second {
			t.Fatal("expected distinct order ids")
		}
	})
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("open order", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		id, _ := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 3)
		o, err := svc.Dispatch(ctx, id)
		if err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if o.Status != domain.StatusDispatched || o.Username != "north_bar" {
			t.Fatalf("unexpected order: %+v", o)
		}
	})

	t.Run("double dispatch", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		id, _ := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 3)
		if _, err := svc.Dispatch(ctx, id); err != nil {
			t.Fatalf("first dispatch: %v", err)
		}
		if _, err := svc.Dispatch(ctx, id); err != domain.ErrAlreadyDispatched {
			t.Fatalf("expected ErrAlreadyDispatched, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		if _, err := svc.Dispatch(ctx, 99); err != domain.ErrOrderNotFound {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestListOpen(t *testing.T) {
	ctx := context.Background()
	svc := New(newFakeOrderStore(), nil)

	a, _ := svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 2)
	b, _ := svc.Place(ctx, "south_bar", domain.RoleBar, "Cola", 5)
	if _, err := svc.Dispatch(ctx, a); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	open, err := svc.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].ID != b {
		t.Fatalf("unexpected open orders: %+v", open)
	}
}

func TestListOpenForBar(t *testing.T) {
	ctx := context.Background()

	t.Run("own orders only", func(t *testing.T) {
		svc := New(newFakeOrderStore(), nil)
		svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 2)
		svc.Place(ctx, "south_bar", domain.RoleBar, "Cola", 5)

		open, err := svc.ListOpenForBar(ctx, "north_bar")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(open) != 1 || open[0].Username != "north_bar" {
			t.Fatalf("unexpected orders: %+v", open)
		}
	})

	t.Run("narrowed to assigned drinks", func(t *testing.T) {
		bars := map[string][]string{"north_bar": {"Beer"}}
		svc := New(newFakeOrderStore(), bars)
		svc.Place(ctx, "north_bar", domain.RoleBar, "Beer", 2)
		svc.Place(ctx, "north_bar", domain.RoleBar, "Cola", 1)

		open, err := svc.ListOpenForBar(ctx, "north_bar")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(open) != 1 || open[0].Drink != "Beer" {
			t.Fatalf("unexpected orders: %+v", open)
		}
	})
}
