package types

// Actor identifies who performed a request, for audit records.
type Actor struct {
	UserID    uint
	IPAddress string
	UserAgent string
}
