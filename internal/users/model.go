package users

import (
	"strings"
	"time"
)

// User is an authenticated account. Submissions and quota allowances are
// keyed by its ID; guests never get a row here.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// GoogleID builds the account ID for a Google subject claim.
func GoogleID(sub string) string {
	return "google:" + sub
}

// IsGuestID reports whether an identity came from the guest header rather
// than a login.
func IsGuestID(id string) bool {
	return strings.HasPrefix(id, "guest:")
}
