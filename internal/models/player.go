package models

import "time"

// Player is someone who redeemed an access code. Players have no accounts, the id lives in their session.
type Player struct {
	ID              string
	ProductSlug     string
	CheckoutSession string
	Created         time.Time
	LastSeen        time.Time
}
