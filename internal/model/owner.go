package model

// Owner identifies the authenticated user an operation acts for. It only
// ever comes from the session layer, never from a request body.
type Owner struct {
	userID string
}

// NewOwner wraps an authenticated user id.
func NewOwner(userID string) Owner {
	return Owner{userID: userID}
}

// UserID returns the owning user's id.
func (o Owner) UserID() string {
	return o.userID
}

// Valid reports whether the owner carries a user id.
func (o Owner) Valid() bool {
	return o.userID != ""
}
