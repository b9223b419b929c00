package domain

// Identity is the authenticated caller attached to a request by the access guard.
type Identity struct {
	UserID   string
	UserName string
	// Demo marks the read-only demo account; all writes are rejected for it.
	Demo bool
}
