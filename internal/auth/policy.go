package auth

// Policy decides visibility rules for a caller. It is injected into
// services so authorization can be tested apart from the transport.
type Policy interface {
	// SeesAllOrders reports whether the caller may read orders it does
	// not own and list without a forced owner filter.
	SeesAllOrders(caller Identity) bool
}

// RolePolicy grants full visibility to admins only.
type RolePolicy struct{}

func (RolePolicy) SeesAllOrders(caller Identity) bool { return caller.Role == RoleAdmin }
