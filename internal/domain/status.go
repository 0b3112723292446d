package domain

// Status is the closed order-state enumeration. Values outside this set are
// rejected at the boundary; see ParseStatus.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// transitions is the full lifecycle table. Delivered and Cancelled are
// terminal: they map to an empty target set.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseStatus validates a raw status string against the enumeration.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := transitions[s]; !ok {
		return "", &InvalidStatusError{Status: raw}
	}
	return s, nil
}

// CanTransition reports whether to is a legal next state. A same-state
// "transition" is not in the table; callers treat it as a no-op.
func (s Status) CanTransition(to Status) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
