package model

import "testing"

func TestEquipmentStatusBoundaries(t *testing.T) {
	const min, max = 5, 20
	cases := map[int]string{
		0:       StatusOutOfStock,
		min - 1: StatusLowStock,
		min:     StatusLowStock,
		min + 1: StatusAvailable,
		max:     StatusAvailable,
	}
	for q, expect := range cases {
		if got := EquipmentStatus(q, min, max); got != expect {
			t.Fatalf("status(%d, %d, %d): expected %s, got %s", q, min, max, expect, got)
		}
	}
}

func TestEquipmentStatusZeroMinimum(t *testing.T) {
	if got := EquipmentStatus(0, 0, 10); got != StatusOutOfStock {
		t.Fatalf("expected out_of_stock for empty shelf, got %s", got)
	}
	if got := EquipmentStatus(1, 0, 10); got != StatusAvailable {
		t.Fatalf("expected available, got %s", got)
	}
}

func TestEquipmentNormalizeOverridesWireStatus(t *testing.T) {
	e := Equipment{CurrentQuantity: 0, MinQuantity: 5, MaxQuantity: 10, Status: StatusLowStock}
	e.Normalize()
	if e.Status != StatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", e.Status)
	}
}

func TestCheckoutRemaining(t *testing.T) {
	c := Checkout{Quantity: 3, ReturnedQuantity: 1, Status: CheckoutCheckedOut}
	if c.Remaining() != 2 {
		t.Fatalf("expected 2 remaining, got %d", c.Remaining())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.ApplyReturn(3); err != ErrOverReturned {
		t.Fatalf("expected over-return to be rejected, got %v", err)
	}
	returned, err := c.ApplyReturn(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if returned.Remaining() != 0 || returned.Status != CheckoutReturned {
		t.Fatalf("expected fully returned checkout, got %+v", returned)
	}

	bad := Checkout{Quantity: 1, ReturnedQuantity: 2}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invariant violation to be flagged")
	}
}

func TestCampaignTransitions(t *testing.T) {
	allowed := [][2]string{
		{CampaignDraft, CampaignScheduled},
		{CampaignScheduled, CampaignSending},
		{CampaignSending, CampaignSent},
		{CampaignScheduled, CampaignCancelled},
	}
	for _, pair := range allowed {
		if !(Campaign{Status: pair[0]}).CanTransition(pair[1]) {
			t.Fatalf("expected %s -> %s to be allowed", pair[0], pair[1])
		}
	}
	denied := [][2]string{
		{CampaignDraft, CampaignCancelled},
		{CampaignSent, CampaignDraft},
		{CampaignCancelled, CampaignScheduled},
		{CampaignSending, CampaignCancelled},
	}
	for _, pair := range denied {
		if (Campaign{Status: pair[0]}).CanTransition(pair[1]) {
			t.Fatalf("expected %s -> %s to be rejected", pair[0], pair[1])
		}
	}
}

func TestEventSpots(t *testing.T) {
	e := Event{Capacity: 10, CurrentRegistrations: 12}
	if e.SpotsLeft() != 0 || !e.IsFull() {
		t.Fatalf("expected full event, got spots=%d", e.SpotsLeft())
	}
	if (Event{}).SpotsLeft() != -1 {
		t.Fatalf("expected unlimited capacity marker")
	}
}
