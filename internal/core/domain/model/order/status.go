package order

import "fmt"

// Status is the position of an order in its lifecycle.
//
// Lifecycle (union of every role's transitions):
//
//	PE ──> AP ──> RE ──> OW ──> DN ──> DY
//	 │      │      │      │      │
//	 └──────┴──────┴──────┴──────┴───> CA
//
// Admin may also skip forward along the chain. DY and CA are terminal.
//
// On the wire and in storage a Status is its two-letter code.
type Status int

const (
	// Unknown is the zero value and never valid.
	Unknown Status = iota

	// Pending: placed by a client or staff member, not yet seen by the kitchen.
	Pending

	// Accepted: the kitchen is preparing the order.
	Accepted

	// Ready: prepared and waiting for pick-up or a courier.
	Ready

	// OnTheWay: a courier has the order.
	OnTheWay

	// DeliveredUnpaid: handed over, payment still outstanding.
	DeliveredUnpaid

	// DeliveredPaid: handed over and paid. Terminal.
	DeliveredPaid

	// Cancelled: terminal.
	Cancelled
)

type statusInfo struct {
	code  string
	label string
}

var catalog = map[Status]statusInfo{
	Pending:         {code: "PE", label: "Pending"},
	Accepted:        {code: "AP", label: "Accepted - Preparing"},
	Ready:           {code: "RE", label: "Ready"},
	OnTheWay:        {code: "OW", label: "On the Way"},
	DeliveredUnpaid: {code: "DN", label: "Delivered - Not Paid"},
	DeliveredPaid:   {code: "DY", label: "Delivered - Paid"},
	Cancelled:       {code: "CA", label: "Cancelled"},
}

var lifecycle = []Status{Pending, Accepted, Ready, OnTheWay, DeliveredUnpaid, DeliveredPaid, Cancelled}

// Statuses lists every valid status in lifecycle order. The slice is a copy.
func Statuses() []Status {
	out := make([]Status, len(lifecycle))
	copy(out, lifecycle)
	return out
}

// ParseStatus maps a two-letter code to its Status.
//
// Returns ErrUnknownStatus (wrapped) for anything outside the catalog,
// including lower-case codes.
func ParseStatus(code string) (Status, error) {
	for _, s := range lifecycle {
		if catalog[s].code == code {
			return s, nil
		}
	}
	return Unknown, unknownStatusError(code)
}

// Validate returns ErrUnknownStatus for values outside the catalog.
func (s Status) Validate() error {
	if _, ok := catalog[s]; !ok {
		return unknownStatusError(s.String())
	}
	return nil
}

// String returns the two-letter code, or a diagnostic form for invalid values.
func (s Status) String() string {
	if info, ok := catalog[s]; ok {
		return info.code
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Label returns the human-readable name shown on dashboards.
//
// Example:
//
//	label, _ := order.Accepted.Label() // "Accepted - Preparing"
func (s Status) Label() (string, error) {
	info, ok := catalog[s]
	if !ok {
		return "", unknownStatusError(s.String())
	}
	return info.label, nil
}

// IsTerminal reports whether no role may move an order out of s.
// Only DeliveredPaid and Cancelled are terminal.
func (s Status) IsTerminal() bool {
	return s == DeliveredPaid || s == Cancelled
}

// MarshalText encodes the status as its code.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status code.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
