package pulse

import "testing"

func TestScopePersistentUpdates(t *testing.T) {
	base, _ := New()
	child := base.Labeled("service", "api")
	grandchild := child.Labeled("service", "web").Prefixed("server")

	if want, have := 0, len(base.CounterKey("x").Labels()); want != have {
		t.Errorf("base scope gained labels: %v", base.CounterKey("x"))
	}
	if want, have := `x{service="api"}`, child.CounterKey("x").String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
	if want, have := `server:x{service="web"}`, grandchild.CounterKey("x").String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
	// Deriving grandchild must not have disturbed child.
	if want, have := `x{service="api"}`, child.CounterKey("x").String(); want != have {
		t.Errorf("child scope mutated: want %q, have %q", want, have)
	}
}

func TestLabeledOverwrites(t *testing.T) {
	scope, _ := New()
	k := scope.Labeled("code", "200").Labeled("code", "500").CounterKey("requests")
	if want, have := `requests{code="500"}`, k.String(); want != have {
		t.Errorf("want %q, have %q", want, have)
	}
}

func TestStatKeyBoundsValidation(t *testing.T) {
	scope, _ := New()
	for _, tc := range []struct {
		low, high uint64
	}{
		{0, 10},
		{5, 9},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("bounds [%d, %d]: expected panic", tc.low, tc.high)
				}
			}()
			scope.StatKeyWithBounds("latency", tc.low, tc.high)
		}()
	}

	// Valid bounds must not panic.
	k := scope.StatKeyWithBounds("latency", 1, 10000)
	if want, have := uint64(10000), k.High; want != have {
		t.Errorf("want %d, have %d", want, have)
	}
}
