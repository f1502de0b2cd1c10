// Package crate decides whether a crate may be read and streams it when it may.
package crate

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AnonymousOwner is the owner id of crates uploaded without an account.
const AnonymousOwner = "anonymous"

var (
	// ErrNotFound is returned when the metadata store has no such crate.
	ErrNotFound = errors.New("crate not found")
	// ErrExpired is returned when the crate outlived its TTL.
	ErrExpired = errors.New("crate has expired")
	// ErrPasswordRequired is returned when a non-owner must present the crate password.
	ErrPasswordRequired = errors.New("password required")
	// ErrWrongPassword is returned when a presented password does not match.
	ErrWrongPassword = errors.New("invalid password")
	// ErrForbidden is returned when the requester has no access.
	ErrForbidden = errors.New("no permission to access this crate")
	// ErrUpstream wraps metadata or blob failures after access was granted.
	ErrUpstream = errors.New("upstream failure")
)

// Sharing is the visibility configuration of a crate.
type Sharing struct {
	Public            bool     `json:"public"`
	PasswordProtected bool     `json:"passwordProtected"`
	SharedWith        []string `json:"sharedWith"`
}

// Crate is the metadata record of an uploaded crate. The read path never mutates it.
type Crate struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	CreatedAt     time.Time `json:"createdAt"`
	TTLDays       int       `json:"ttlDays"`
	MimeType      string    `json:"mimeType"`
	Title         string    `json:"title"`
	BlobKey       string    `json:"-"`
	SizeBytes     int64     `json:"size"`
	Shared        Sharing   `json:"shared"`
	PasswordHash  string    `json:"-"`
	DownloadCount int64     `json:"downloadCount"`
}

// ExpiresAt is CreatedAt plus TTLDays calendar days.
func (c *Crate) ExpiresAt() time.Time {
	return c.CreatedAt.AddDate(0, 0, c.TTLDays)
}

// IsExpired reports whether now is strictly after the crate's expiry instant.
func (c *Crate) IsExpired(now time.Time) bool {
	return IsExpired(c.CreatedAt, c.TTLDays, now)
}

// IsExpired reports whether now is strictly after createdAt + ttlDays.
// Days are calendar days in createdAt's location, not 24h multiples.
func IsExpired(createdAt time.Time, ttlDays int, now time.Time) bool {
	return now.After(createdAt.AddDate(0, 0, ttlDays))
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (c *Crate) CheckPassword(password string) bool {
	if c.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}
