package services

import "testing"

func TestStateValidatesExactlyOnce(t *testing.T) {
	svc := NewOAuthStateService()

	state := svc.GenerateState()
	if state == "" {
		t.Fatal("empty state token")
	}

	if !svc.ValidateState(state) {
		t.Error("fresh state rejected")
	}
	if svc.ValidateState(state) {
		t.Error("state validated twice")
	}
}

func TestUnknownStateRejected(t *testing.T) {
	svc := NewOAuthStateService()
	if svc.ValidateState("never-issued") {
		t.Error("unknown state accepted")
	}
}

func TestStatesAreUnique(t *testing.T) {
	svc := NewOAuthStateService()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		s := svc.GenerateState()
		if seen[s] {
			t.Fatalf("duplicate state issued: %s", s)
		}
		seen[s] = true
	}
}
