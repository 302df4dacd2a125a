package models

import "testing"

func TestOrderStatusValid(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   bool
	}{
		{name: "pending", status: StatusPending, want: true},
		{name: "in_progress", status: StatusInProgress, want: true},
		{name: "completed", status: StatusCompleted, want: true},
		{name: "canceled", status: StatusCanceled, want: true},
		{name: "empty", status: "", want: false},
		{name: "unknown", status: "shipped", want: false},
		{name: "case sensitive", status: "Pending", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.want {
				t.Errorf("%q.Valid() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPermissiveTransitions(t *testing.T) {
	policy := PermissiveTransitions{}

	// Tout statut valide peut succéder à tout autre, y compris les retours
	// en arrière depuis completed/canceled.
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			if !policy.CanTransition(from, to) {
				t.Errorf("CanTransition(%q, %q) = false, want true", from, to)
			}
		}
	}

	if policy.CanTransition(StatusPending, "shipped") {
		t.Error("CanTransition to unknown status = true, want false")
	}
	if policy.CanTransition("shipped", StatusPending) {
		t.Error("CanTransition from unknown status = true, want false")
	}
}

func TestForwardOnlyTransitions(t *testing.T) {
	policy := ForwardOnlyTransitions{}

	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCanceled, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCanceled, StatusPending, false},
	}

	for _, tt := range tests {
		if got := policy.CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
