package entity

import (
	"time"
)

// Default images applied when a profile leaves the fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash, never plaintext.
type User struct {
	ID             string
	Username       string
	Email          string
	Password       string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
