package weavetest

import (
	"context"
	"reflect"
	"testing"

	weave "github.com/iov-one/stakeweave"
	"github.com/iov-one/stakeweave/errors"
	"github.com/iov-one/stakeweave/store"
)

type callCounter interface {
	CheckCallCount() int
	DeliverCallCount() int
	CallCount() int
}

func assertCounts(t *testing.T, c callCounter, wantCheck, wantDeliver int) {
	t.Helper()
	if got := c.CheckCallCount(); got != wantCheck {
		t.Errorf("want %d checks, got %d", wantCheck, got)
	}
	if got := c.DeliverCallCount(); got != wantDeliver {
		t.Errorf("want %d delivers, got %d", wantDeliver, got)
	}
	if got := c.CallCount(); got != wantCheck+wantDeliver {
		t.Errorf("want %d calls, got %d", wantCheck+wantDeliver, got)
	}
}

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   weave.CheckResult{Data: []byte("check"), GasAllocated: 5},
		DeliverResult: weave.DeliverResult{Data: []byte("deliver"), GasUsed: 7},
	}
	cres, err := h.Check(nil, nil, nil)
	if err != nil || !reflect.DeepEqual(&h.CheckResult, cres) {
		t.Fatalf("unexpected check: %+v, %v", cres, err)
	}
	dres, err := h.Deliver(nil, nil, nil)
	if err != nil || !reflect.DeepEqual(&h.DeliverResult, dres) {
		t.Fatalf("unexpected deliver: %+v, %v", dres, err)
	}
	assertCounts(t, &h, 1, 1)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrState
	if _, err := h.Check(nil, nil, nil); !errors.ErrUnauthorized.Is(err) {
		t.Errorf("want unauthorized, got %v", err)
	}
	if _, err := h.Deliver(nil, nil, nil); !errors.ErrState.Is(err) {
		t.Errorf("want state error, got %v", err)
	}
	assertCounts(t, &h, 2, 2)
}

func TestDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	stack := Decorate(&h, &d)
	_, _ = stack.Check(nil, nil, nil)
	_, _ = stack.Deliver(nil, nil, nil)
	_, _ = stack.Deliver(nil, nil, nil)
	assertCounts(t, &d, 1, 2)
	assertCounts(t, &h, 1, 2)

	// A failing decorator never reaches the handler.
	d.CheckErr = errors.ErrUnauthorized
	d.DeliverErr = errors.ErrNotFound
	if _, err := stack.Check(nil, nil, nil); !errors.ErrUnauthorized.Is(err) {
		t.Errorf("want unauthorized, got %v", err)
	}
	if _, err := stack.Deliver(nil, nil, nil); !errors.ErrNotFound.Is(err) {
		t.Errorf("want not found, got %v", err)
	}
	assertCounts(t, &d, 2, 3)
	assertCounts(t, &h, 1, 2)
}

func TestWriteHandler(t *testing.T) {
	db := store.MemStore()
	h := WriteHandler{Key: []byte("k"), Value: []byte("v"), Err: errors.ErrAmount}
	if _, err := h.Deliver(context.Background(), db, nil); !errors.ErrAmount.Is(err) {
		t.Fatalf("want amount error, got %v", err)
	}
	if got := db.Get([]byte("k")); string(got) != "v" {
		t.Fatalf("want value written, got %q", got)
	}
}
