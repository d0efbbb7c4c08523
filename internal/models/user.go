package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Access levels, lowest to highest. Each level includes those below it.
const (
	AccessAuthor        = "Author"
	AccessEditor        = "Editor"
	AccessWebLogAdmin   = "WebLogAdmin"
	AccessAdministrator = "Administrator"
)

var accessRank = map[string]int{
	AccessAuthor:        0,
	AccessEditor:        1,
	AccessWebLogAdmin:   2,
	AccessAdministrator: 3,
}

// WebLogUser is an author or administrator of a web log. Email is unique
// within the web log.
type WebLogUser struct {
	ID            WebLogUserID `json:"id"`
	WebLogID      WebLogID     `json:"webLogId"`
	Email         string       `json:"email"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	PreferredName string       `json:"preferredName"`
	PasswordHash  string       `json:"passwordHash"`
	// Salt is retained from the v1 password scheme; bcrypt hashes embed
	// their own salt, so it is empty for users created since.
	Salt        *string    `json:"salt,omitempty"`
	URL         *string    `json:"url,omitempty"`
	AccessLevel string     `json:"accessLevel"`
	CreatedOn   time.Time  `json:"createdOn"`
	LastSeenOn  *time.Time `json:"lastSeenOn,omitempty"`
}

// DisplayName is the name shown in bylines: the preferred name when one is
// set, otherwise first and last.
func (u *WebLogUser) DisplayName() string {
	if u.PreferredName != "" {
		return u.PreferredName
	}
	return u.FirstName + " " + u.LastName
}

// HasAccess reports whether the user's access level is at or above the
// required one.
func (u *WebLogUser) HasAccess(level string) bool {
	have, ok := accessRank[u.AccessLevel]
	if !ok {
		return false
	}
	want, ok := accessRank[level]
	if !ok {
		return false
	}
	return have >= want
}

// SetPassword replaces the user's password hash with a bcrypt hash of the
// given clear-text password.
func (u *WebLogUser) SetPassword(clear string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(clear), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword reports whether the clear-text password matches the stored
// hash.
func (u *WebLogUser) VerifyPassword(clear string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(clear)) == nil
}

// UserName is the result of a batch display-name lookup.
type UserName struct {
	ID   WebLogUserID `json:"id"`
	Name string       `json:"name"`
}
