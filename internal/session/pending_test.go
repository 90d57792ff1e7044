package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"BrokerBridge/internal/observability"
)

func newTestTable() *pendingTable {
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	return newPendingTable(zerolog.Nop(), metrics)
}

func TestPendingTableRegisterAndDeliver(t *testing.T) {
	table := newTestTable()
	rec := newPending[int]("test")

	if err := table.register(7, rec); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := table.size(); got != 1 {
		t.Fatalf("size = %d, want 1", got)
	}

	if !table.deliver(7, 42) {
		t.Fatal("deliver returned false")
	}
	if got := <-rec.ch; got != 42 {
		t.Errorf("delivered %d, want 42", got)
	}
	if got := table.size(); got != 0 {
		t.Errorf("size after delivery = %d, want 0", got)
	}
}

func TestPendingTableDuplicateRegistrationRejected(t *testing.T) {
	table := newTestTable()

	if err := table.register(3, newPending[int]("test")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := table.register(3, newPending[int]("test"))
	if err == nil {
		t.Fatal("second register succeeded, want rejection")
	}

	// The original record must survive the rejected attempt.
	if !table.deliver(3, 9) {
		t.Error("original record was lost by the duplicate attempt")
	}
}

func TestPendingTableDeliverUnknownID(t *testing.T) {
	table := newTestTable()
	if table.deliver(99, "anything") {
		t.Error("delivery to unknown id reported success")
	}
}

func TestPendingTableTypeMismatch(t *testing.T) {
	table := newTestTable()
	rec := newPending[string]("test")
	if err := table.register(1, rec); err != nil {
		t.Fatalf("register: %v", err)
	}

	if table.deliver(1, 123) {
		t.Error("int delivered into a string record")
	}
	// The id is consumed either way; a retry would use a fresh id.
	if got := table.size(); got != 0 {
		t.Errorf("size = %d, want 0", got)
	}
	// The waiting record must learn about the mismatch instead of running
	// out its timeout.
	select {
	case err := <-rec.errc:
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("err = %v, want ErrTypeMismatch", err)
		}
	default:
		t.Error("mismatch did not fail the waiting record")
	}
}

func TestPendingDeliverBuffersBeforeRemoval(t *testing.T) {
	table := newTestTable()

	// Once an id is gone from the table, its value must already be sitting
	// in the record's channel: a caller that loses the remove race relies
	// on a non-blocking drain finding the result.
	for i := 0; i < 200; i++ {
		rec := newPending[int]("test")
		if err := table.register(i, rec); err != nil {
			t.Fatalf("register: %v", err)
		}
		done := make(chan struct{})
		go func(id int) {
			table.deliver(id, id)
			close(done)
		}(i)
		if !table.remove(i) {
			select {
			case got := <-rec.ch:
				if got != i {
					t.Fatalf("delivered %d, want %d", got, i)
				}
			default:
				t.Fatal("id gone from table but no value buffered")
			}
		}
		<-done
	}
}

func TestPendingTableMultipleCandidates(t *testing.T) {
	table := newTestTable()
	rec := newPending[string]("test")
	if err := table.register(5, rec); err != nil {
		t.Fatalf("register: %v", err)
	}

	if !table.deliver(5, 123, "fallback") {
		t.Fatal("no candidate matched")
	}
	if got := <-rec.ch; got != "fallback" {
		t.Errorf("delivered %q, want fallback", got)
	}
}

func TestPendingRemoveIdempotent(t *testing.T) {
	table := newTestTable()
	if err := table.register(2, newPending[int]("test")); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !table.remove(2) {
		t.Error("first remove = false, want true")
	}
	if table.remove(2) {
		t.Error("second remove = true, want false")
	}
}

func TestPendingAtMostOnceUnderRace(t *testing.T) {
	rec := newPending[int]("test")

	var wg sync.WaitGroup
	delivered := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			ok, _ := rec.tryDeliver(v)
			delivered <- ok
		}(i)
	}
	wg.Wait()
	close(delivered)

	wins := 0
	for ok := range delivered {
		if ok {
			wins++
		}
	}
	if wins != 1 {
		t.Errorf("deliveries = %d, want exactly 1", wins)
	}
	<-rec.ch // must hold exactly the winning value
	select {
	case v := <-rec.ch:
		t.Errorf("second value %d in channel", v)
	default:
	}
}

func TestPendingConcurrentRegisterDistinctIDs(t *testing.T) {
	table := newTestTable()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := table.register(id, newPending[int]("test")); err != nil {
				t.Errorf("register %d: %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	if got := table.size(); got != 64 {
		t.Errorf("size = %d, want 64", got)
	}
}
