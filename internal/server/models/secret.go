package models

import "time"

// RawNoteSite is the sentinel stored in the site column marking a record as a
// free-text note: the encrypted note body lives in the password column and the
// account column stays empty.
const RawNoteSite = "raw"

// Secret is a stored credential or raw note. Account, Password and Extra hold
// ciphertext blobs as produced by cryptox; they never contain plaintext.
type Secret struct {
	ID        int64
	Name      string
	Site      string
	Account   string
	Password  string
	Extra     *string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// IsRawNote reports whether the record is a free-text note.
func (s *Secret) IsRawNote() bool {
	return s.Site == RawNoteSite
}

// SecretOverview is the listing/search projection: no encrypted columns.
type SecretOverview struct {
	ID        int64
	Name      string
	Site      string
	ExpiresAt *time.Time
}
