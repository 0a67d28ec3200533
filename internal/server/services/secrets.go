// Package services contains the application services sitting between the bot
// layer and the repositories. All encryption and decryption of secret fields
// happens here, at the read/write boundary.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tgvault/internal/common"
	"tgvault/internal/cryptox"
	"tgvault/internal/datex"
	"tgvault/internal/server/models"
	"tgvault/internal/server/repositories/repomanager"
)

// SearchLimit caps the number of search hits shown to the user.
const SearchLimit = 5

// SecretService owns the encrypted-record lifecycle.
type SecretService struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	cipher     *cryptox.Cipher
	passphrase string
}

func NewSecretService(db *sql.DB, repos repomanager.RepositoryManager, cipher *cryptox.Cipher, passphrase string) *SecretService {
	return &SecretService{db: db, repos: repos, cipher: cipher, passphrase: passphrase}
}

// SecretDetail is the decrypted view of a record, produced only at authorized
// display time. For raw notes Password carries the note body.
type SecretDetail struct {
	ID        int64
	Name      string
	Site      string
	Account   string
	Password  string
	Extra     *string
	ExpiresAt *time.Time
	RawNote   bool
}

// Create encrypts the collected wizard fields and persists a credential
// record. The three field encryptions are independent pure operations and run
// concurrently; results are gathered before the single insert.
func (s *SecretService) Create(ctx context.Context, name, site, account, password string, extra *string, expiresAt *time.Time) (int64, error) {
	var encAccount, encPassword string
	var encExtra *string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		encAccount, err = s.cipher.Encrypt(account, s.passphrase)
		return err
	})
	g.Go(func() error {
		var err error
		encPassword, err = s.cipher.Encrypt(password, s.passphrase)
		return err
	})
	if extra != nil {
		g.Go(func() error {
			enc, err := s.cipher.Encrypt(*extra, s.passphrase)
			if err != nil {
				return err
			}
			encExtra = &enc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("encrypt error: %w", err)
	}

	return s.repos.Secrets(s.db).Create(ctx, &models.Secret{
		Name:      name,
		Site:      site,
		Account:   encAccount,
		Password:  encPassword,
		Extra:     encExtra,
		ExpiresAt: expiresAt,
	})
}

// CreateRawNote persists a free-text note: the body is encrypted into the
// password column and the site column carries the raw sentinel. Name and
// content must be non-empty after normalization.
func (s *SecretService) CreateRawNote(ctx context.Context, name, content string, expiresAt *time.Time) (int64, error) {
	if strings.TrimSpace(name) == "" || content == "" {
		return 0, fmt.Errorf("%w: empty name or content", common.ErrValidation)
	}

	enc, err := s.cipher.Encrypt(content, s.passphrase)
	if err != nil {
		return 0, fmt.Errorf("encrypt error: %w", err)
	}

	return s.repos.Secrets(s.db).Create(ctx, &models.Secret{
		Name:      name,
		Site:      models.RawNoteSite,
		Password:  enc,
		ExpiresAt: expiresAt,
	})
}

// Detail loads one record and decrypts its protected fields.
func (s *SecretService) Detail(ctx context.Context, id int64) (*SecretDetail, error) {
	rec, err := s.repos.Secrets(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(rec)
}

func (s *SecretService) decrypt(rec *models.Secret) (*SecretDetail, error) {
	d := &SecretDetail{
		ID:        rec.ID,
		Name:      rec.Name,
		Site:      rec.Site,
		ExpiresAt: rec.ExpiresAt,
		RawNote:   rec.IsRawNote(),
	}

	if d.RawNote {
		content, err := s.cipher.Decrypt(rec.Password, s.passphrase)
		if err != nil {
			return nil, err
		}
		d.Password = content
		return d, nil
	}

	account, err := s.cipher.Decrypt(rec.Account, s.passphrase)
	if err != nil {
		return nil, err
	}
	password, err := s.cipher.Decrypt(rec.Password, s.passphrase)
	if err != nil {
		return nil, err
	}
	d.Account = account
	d.Password = password

	if rec.Extra != nil {
		extra, err := s.cipher.Decrypt(*rec.Extra, s.passphrase)
		if err != nil {
			return nil, err
		}
		d.Extra = &extra
	}
	return d, nil
}

// Search returns at most SearchLimit overviews matching the substring against
// name or site.
func (s *SecretService) Search(ctx context.Context, substr string) ([]*models.SecretOverview, error) {
	return s.repos.Secrets(s.db).Search(ctx, substr, SearchLimit)
}

// ListAll returns overviews of every record, newest first.
func (s *SecretService) ListAll(ctx context.Context) ([]*models.SecretOverview, error) {
	return s.repos.Secrets(s.db).ListAll(ctx)
}

// ListExpiringWithin returns records whose expiry is set and at most the given
// number of days ahead (past dates included), soonest first.
func (s *SecretService) ListExpiringWithin(ctx context.Context, now time.Time, days int) ([]*models.SecretOverview, error) {
	cutoff := datex.Midnight(now).AddDate(0, 0, days)
	return s.repos.Secrets(s.db).ListExpiringBefore(ctx, cutoff)
}

// UpdateExpiry sets or clears a record's expiry date.
func (s *SecretService) UpdateExpiry(ctx context.Context, id int64, expiresAt *time.Time) error {
	return s.repos.Secrets(s.db).UpdateExpiry(ctx, id, expiresAt)
}

// Delete removes a record and returns its name for the confirmation message.
func (s *SecretService) Delete(ctx context.Context, id int64) (string, error) {
	rec, err := s.repos.Secrets(s.db).GetByID(ctx, id)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return "", err
	}

	name := fmt.Sprintf("%d", id)
	if rec != nil {
		name = rec.Name
	}

	if err := s.repos.Secrets(s.db).Delete(ctx, id); err != nil {
		return "", err
	}
	return name, nil
}

// BackupEntry is one decrypted record in the backup export. Raw notes keep the
// compact {id, name, type, content} shape; credentials carry the full field set.
type BackupEntry struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type,omitempty"`
	Content   string  `json:"content,omitempty"`
	Site      string  `json:"site,omitempty"`
	Account   string  `json:"account,omitempty"`
	Password  string  `json:"password,omitempty"`
	Extra     *string `json:"extra,omitempty"`
	ExpiresAt *string `json:"expires_at"`
}

// Backup decrypts every record into an exportable slice, newest first.
// Returns an empty slice when the store is empty.
func (s *SecretService) Backup(ctx context.Context) ([]BackupEntry, error) {
	records, err := s.repos.Secrets(s.db).ListRecords(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]BackupEntry, 0, len(records))
	for _, rec := range records {
		d, err := s.decrypt(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}

		entry := BackupEntry{ID: d.ID, Name: d.Name}
		if exp := d.ExpiresAt; exp != nil {
			formatted := exp.Format(datex.DateLayout)
			entry.ExpiresAt = &formatted
		}
		if d.RawNote {
			entry.Type = models.RawNoteSite
			entry.Content = d.Password
		} else {
			entry.Site = d.Site
			entry.Account = d.Account
			entry.Password = d.Password
			entry.Extra = d.Extra
		}
		result = append(result, entry)
	}
	return result, nil
}
