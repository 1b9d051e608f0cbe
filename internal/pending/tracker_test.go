package pending

import (
	"testing"

	"barbot/internal/domain"
)

func TestTrackerBeginTake(t *testing.T) {
	tr := NewTracker()

	if tr.InProgress(1) {
		t.Fatal("fresh tracker should have no pending selection")
	}

	tr.Begin(1, Selection{Drink: "Beer", PromptMessageID: 10})
	if !tr.InProgress(1) {
		t.Fatal("expected pending selection after Begin")
	}

	sel, ok := tr.Take(1)
	if !ok || sel.Drink != "Beer" || sel.PromptMessageID != 10 {
		t.Fatalf("unexpected selection: %+v ok=%v", sel, ok)
	}

	if _, ok := tr.Take(1); ok {
		t.Fatal("Take must consume the selection")
	}
	if tr.InProgress(1) {
		t.Fatal("selection should be gone after Take")
	}
}

func TestTrackerLastWriteWins(t *testing.T) {
	tr := NewTracker()
	tr.Begin(1, Selection{Drink: "Beer"})
	tr.Begin(1, Selection{Drink: "Cola"})

	sel, ok := tr.Take(1)
	if !ok || sel.Drink != "Cola" {
		t.Fatalf("expected latest selection, got %+v ok=%v", sel, ok)
	}
}

func TestTrackerClear(t *testing.T) {
	tr := NewTracker()
	tr.Begin(2, Selection{Drink: "Water"})
	tr.Clear(2)
	if tr.InProgress(2) {
		t.Fatal("Clear should drop the selection")
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 12 ", 12, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"2.5", 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			n, err := ParseQuantity(tc.in)
			if tc.wantErr {
				if err != domain.ErrInvalidQuantity {
					t.Fatalf("expected ErrInvalidQuantity, got %v", err)
				}
				return
			}
			if err != nil || n != tc.want {
				t.Fatalf("got n=%d err=%v, want %d", n, err, tc.want)
			}
		})
	}
}
