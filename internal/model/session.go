package model

import "time"

// SessionData is stored with a session token.
type SessionData struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Product is what a barcode lookup knows about a scanned code.
type Product struct {
	Barcode  string  `json:"barcode"`
	Found    bool    `json:"found"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}
