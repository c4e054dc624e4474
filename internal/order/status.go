package order

// Status is the closed set of order states. An order starts pending and
// its line items stay mutable only while the status is editable.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid status, in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Editable reports whether line items may still be mutated. Shipped,
// delivered and cancelled orders are locked.
func (s Status) Editable() bool {
	switch s {
	case StatusPending, StatusProcessing:
		return true
	case StatusShipped, StatusDelivered, StatusCancelled:
		return false
	}
	return false
}
