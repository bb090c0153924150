package detour

import "testing"

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry().
		Register("A", nil).
		Register("B", nil).
		Register("C", nil)
	hooks := r.Hooks()
	if len(hooks) != 3 {
		t.Fatalf("want 3 hooks, got %d", len(hooks))
	}
	for i, want := range []string{"A", "B", "C"} {
		if hooks[i].Target != want {
			t.Errorf("hook %d: want %s, got %s", i, want, hooks[i].Target)
		}
	}
}

func TestEmptyRegistry(t *testing.T) {
	if hooks := NewRegistry().Hooks(); len(hooks) != 0 {
		t.Fatalf("want no hooks, got %d", len(hooks))
	}
}
