package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Renzzio/bulsu-gate-system/internal/model"
	"github.com/Renzzio/bulsu-gate-system/internal/repository"
	"github.com/Renzzio/bulsu-gate-system/internal/service"
	"github.com/Renzzio/bulsu-gate-system/internal/service/memory"
)

func testVisitor(maxUses uint32) model.Visitor {
	issued := mondayAt(8, 0)
	return model.Visitor{
		ID:          1,
		VisitorID:   "VIS-test-pass",
		FullName:    "Test Visitor",
		CampusID:    "MAIN",
		MaxUses:     maxUses,
		UsageCount:  0,
		Status:      model.VisitorStatusActive,
		CreatedDate: issued,
		CreatedAt:   issued,
	}
}

func TestConsume_FirstAndSecondUse(t *testing.T) {
	store := memory.NewVisitorStore(testVisitor(2))
	tracker := service.NewPassTracker(store)
	ctx := context.Background()

	res, err := tracker.Consume(ctx, "VIS-test-pass", mondayAt(9, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !res.Consumed || res.NewUsageCount != 1 {
		t.Fatalf("first consume: got consumed=%v count=%d", res.Consumed, res.NewUsageCount)
	}

	res, err = tracker.Consume(ctx, "VIS-test-pass", mondayAt(17, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !res.Consumed || res.NewUsageCount != 2 {
		t.Fatalf("second consume: got consumed=%v count=%d", res.Consumed, res.NewUsageCount)
	}
}

func TestConsume_QuotaExhausted(t *testing.T) {
	v := testVisitor(2)
	v.UsageCount = 2
	store := memory.NewVisitorStore(v)
	tracker := service.NewPassTracker(store)

	res, err := tracker.Consume(context.Background(), v.VisitorID, mondayAt(12, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if res.Consumed {
		t.Fatal("expected third scan to be rejected")
	}
	if res.Reason != service.ReasonUsageLimit {
		t.Errorf("expected reason %q, got %q", service.ReasonUsageLimit, res.Reason)
	}
}

func TestConsume_UnknownPass(t *testing.T) {
	tracker := service.NewPassTracker(memory.NewVisitorStore())

	res, err := tracker.Consume(context.Background(), "VIS-nope", mondayAt(9, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if res.Consumed || res.Reason != service.ReasonPassNotFound {
		t.Errorf("expected reason %q, got consumed=%v reason=%q", service.ReasonPassNotFound, res.Consumed, res.Reason)
	}
}

func TestConsume_NextDayExpiresPass(t *testing.T) {
	store := memory.NewVisitorStore(testVisitor(2))
	tracker := service.NewPassTracker(store)

	nextDay := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	res, err := tracker.Consume(context.Background(), "VIS-test-pass", nextDay)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if res.Consumed {
		t.Fatal("expected next-day scan to be rejected")
	}
	if res.Reason != service.ReasonPassExpired {
		t.Errorf("expected reason %q, got %q", service.ReasonPassExpired, res.Reason)
	}

	// The rejection also transitions the stored status.
	v, ok := store.Get("VIS-test-pass")
	if !ok {
		t.Fatal("pass disappeared from store")
	}
	if v.Status != model.VisitorStatusExpired {
		t.Errorf("expected stored status %q, got %q", model.VisitorStatusExpired, v.Status)
	}
}

func TestConsume_ExpiredStatusRejected(t *testing.T) {
	v := testVisitor(2)
	v.Status = model.VisitorStatusExpired
	tracker := service.NewPassTracker(memory.NewVisitorStore(v))

	res, err := tracker.Consume(context.Background(), v.VisitorID, mondayAt(9, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if res.Consumed || res.Reason != service.ReasonPassNotFound {
		t.Errorf("expected reason %q, got consumed=%v reason=%q", service.ReasonPassNotFound, res.Consumed, res.Reason)
	}
}

// TestConsume_ConcurrentScansNeverExceedQuota hammers one pass from
// many goroutines and asserts the core invariant: the number of grants
// equals the quota and the stored counter never passes max_uses.
func TestConsume_ConcurrentScansNeverExceedQuota(t *testing.T) {
	for _, workers := range []int{2, 5, 20} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			store := memory.NewVisitorStore(testVisitor(2))
			tracker := service.NewPassTracker(store)
			now := mondayAt(9, 0)

			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				granted int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					res, err := tracker.Consume(context.Background(), "VIS-test-pass", now)
					if err != nil {
						t.Errorf("Consume: %v", err)
						return
					}
					if res.Consumed {
						mu.Lock()
						granted++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if granted > 2 {
				t.Errorf("granted %d scans for a quota of 2", granted)
			}
			v, _ := store.Get("VIS-test-pass")
			if v.UsageCount > v.MaxUses {
				t.Errorf("usage_count %d exceeds max_uses %d", v.UsageCount, v.MaxUses)
			}
		})
	}
}

// conflictingVisitorStore reports a usage conflict on every increment,
// simulating a pass that keeps losing the counter race.
type conflictingVisitorStore struct {
	*memory.VisitorStore
}

func (s conflictingVisitorStore) ConsumeUse(context.Context, string, uint32) error {
	return repository.ErrUsageConflict
}

func TestConsume_RetryBudgetExhausted(t *testing.T) {
	store := conflictingVisitorStore{memory.NewVisitorStore(testVisitor(2))}
	tracker := service.NewPassTracker(store)

	res, err := tracker.Consume(context.Background(), "VIS-test-pass", mondayAt(9, 0))
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if res.Consumed {
		t.Fatal("expected rejection after exhausting the retry budget")
	}
	if res.Reason != service.ReasonScanConflict {
		t.Errorf("expected reason %q, got %q", service.ReasonScanConflict, res.Reason)
	}
}

// failingVisitorStore fails every lookup with a database error.
type failingVisitorStore struct {
	*memory.VisitorStore
}

func (s failingVisitorStore) Find(context.Context, string) (model.Visitor, error) {
	return model.Visitor{}, errors.New("connection refused")
}

func TestConsume_StorageFailureIsAnError(t *testing.T) {
	store := failingVisitorStore{memory.NewVisitorStore()}
	tracker := service.NewPassTracker(store)

	_, err := tracker.Consume(context.Background(), "VIS-test-pass", mondayAt(9, 0))
	if err == nil {
		t.Fatal("expected an error from a failing store")
	}
	var se *service.StorageError
	if !errors.As(err, &se) {
		t.Errorf("expected a *service.StorageError, got %T", err)
	}
}
