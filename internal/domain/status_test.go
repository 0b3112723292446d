package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusCancelled},
		{StatusShipped, StatusDelivered},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusCancelled},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusPending},
		{StatusProcessing, StatusPending},
	}
	for _, tc := range denied {
		if tc.from.CanTransition(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("Shipped"); err != nil {
		t.Fatal(err)
	}
	for _, raw := range []string{"", "shipped", "Shipped-ish", "SHIPPED"} {
		if _, err := ParseStatus(raw); err == nil {
			t.Errorf("ParseStatus(%q) should fail", raw)
		}
	}
}

func TestTerminal(t *testing.T) {
	for s, terminal := range map[Status]bool{
		StatusPending:    false,
		StatusProcessing: false,
		StatusShipped:    false,
		StatusDelivered:  true,
		StatusCancelled:  true,
	} {
		if s.Terminal() != terminal {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
	}
}
