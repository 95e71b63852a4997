package clara

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// TestConcurrentSessionsShareRulebaseSafely runs many sessions minted
// from one shared *Rulebase concurrently (spec §5: "multiple sessions may
// run on different threads in parallel"), the scenario cmd/clara's bench
// subcommand exercises. Network.routeFact memoizes its alpha-routing
// cache lazily on first use per fact type; this test's job is to make
// sure that cache is safe to populate from many goroutines racing to
// insert the same fact types at once (run with -race to catch a
// regression).
func TestConcurrentSessionsShareRulebaseSafely(t *testing.T) {
	defer goleak.VerifyNone(t)

	rule := Production{
		Name: "mark-cold",
		LHS:  Type("Temperature", lt(func(f Fact) int { return f.(Temperature).Value }, 20), bindVar("?t", func(f Fact) interface{} { return f.(Temperature).Value })),
		RHS: func(ctx *RHSContext) error {
			ctx.Insert(Cold{ctx.Bindings()["?t"].(int)})
			return nil
		},
	}
	query := QueryDef{Name: "cold-readings", LHS: Type("Cold")}
	rb, err := NewRulebase([]Production{rule}, []QueryDef{query}, Options{})
	if err != nil {
		t.Fatalf("build rulebase: %v", err)
	}

	const sessions = 32
	var wg sync.WaitGroup
	errs := make(chan error, sessions)
	for i := 0; i < sessions; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess := rb.NewSession(Options{})
			sess = sess.Insert(Temperature{Value: 5 + i%3, Location: "MCI"}, WindSpeed{Value: 40, Location: "MCI"})
			sess, err := sess.FireRules()
			if err != nil {
				errs <- err
				return
			}
			results, err := sess.Query("cold-readings", nil)
			if err != nil {
				errs <- err
				return
			}
			if len(results) != 1 {
				errs <- fmt.Errorf("session %d: expected 1 cold reading, got %d", i, len(results))
				return
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent session failed: %v", err)
		}
	}
}
