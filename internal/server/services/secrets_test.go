package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tgvault/internal/common"
	"tgvault/internal/cryptox"
	"tgvault/internal/server/models"
	"tgvault/internal/server/repositories/secrets"
)

type fakeSecretsRepo struct {
	secrets.Repository

	created []*models.Secret
	nextID  int64

	byID map[int64]*models.Secret

	records []*models.Secret

	deleted []int64
}

func (f *fakeSecretsRepo) Create(ctx context.Context, s *models.Secret) (int64, error) {
	f.nextID++
	f.created = append(f.created, s)
	return f.nextID, nil
}

func (f *fakeSecretsRepo) GetByID(ctx context.Context, id int64) (*models.Secret, error) {
	if rec, ok := f.byID[id]; ok {
		return rec, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeSecretsRepo) ListRecords(ctx context.Context) ([]*models.Secret, error) {
	return f.records, nil
}

func (f *fakeSecretsRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

const testPassphrase = "operator-secret"

func newSecretService(repo *fakeSecretsRepo) (*SecretService, *cryptox.Cipher) {
	cipher := cryptox.NewCipher()
	return NewSecretService(nil, &fakeRepoManager{secrets: repo}, cipher, testPassphrase), cipher
}

func TestCreate_EncryptsAllProtectedFields(t *testing.T) {
	repo := &fakeSecretsRepo{}
	svc, cipher := newSecretService(repo)

	extra := "note"
	expires := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	id, err := svc.Create(context.Background(), "GitHub", "github.com", "alice", "p@ss1", &extra, &expires)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, repo.created, 1)
	rec := repo.created[0]

	// Plaintext never reaches the repository.
	assert.NotEqual(t, "alice", rec.Account)
	assert.NotEqual(t, "p@ss1", rec.Password)
	require.NotNil(t, rec.Extra)
	assert.NotEqual(t, "note", *rec.Extra)

	account, err := cipher.Decrypt(rec.Account, testPassphrase)
	require.NoError(t, err)
	password, err := cipher.Decrypt(rec.Password, testPassphrase)
	require.NoError(t, err)
	extraDec, err := cipher.Decrypt(*rec.Extra, testPassphrase)
	require.NoError(t, err)

	assert.Equal(t, "alice", account)
	assert.Equal(t, "p@ss1", password)
	assert.Equal(t, "note", extraDec)
	assert.Equal(t, &expires, rec.ExpiresAt)
}

func TestCreate_NoExtraStaysNil(t *testing.T) {
	repo := &fakeSecretsRepo{}
	svc, _ := newSecretService(repo)

	_, err := svc.Create(context.Background(), "GitHub", "github.com", "alice", "p@ss1", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, repo.created[0].Extra)
	assert.Nil(t, repo.created[0].ExpiresAt)
}

func TestCreateRawNote(t *testing.T) {
	repo := &fakeSecretsRepo{}
	svc, cipher := newSecretService(repo)

	_, err := svc.CreateRawNote(context.Background(), "ReleaseNotes", "Some **content**\nline2", nil)
	require.NoError(t, err)

	rec := repo.created[0]
	assert.Equal(t, models.RawNoteSite, rec.Site)
	assert.Empty(t, rec.Account)

	content, err := cipher.Decrypt(rec.Password, testPassphrase)
	require.NoError(t, err)
	assert.Equal(t, "Some **content**\nline2", content)
}

func TestCreateRawNote_Validation(t *testing.T) {
	svc, _ := newSecretService(&fakeSecretsRepo{})

	_, err := svc.CreateRawNote(context.Background(), "", "content", nil)
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.CreateRawNote(context.Background(), "name", "", nil)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestDetail_Credential(t *testing.T) {
	repo := &fakeSecretsRepo{byID: map[int64]*models.Secret{}}
	svc, cipher := newSecretService(repo)

	encA, _ := cipher.Encrypt("alice", testPassphrase)
	encP, _ := cipher.Encrypt("p@ss1", testPassphrase)
	encX, _ := cipher.Encrypt("hint", testPassphrase)
	repo.byID[3] = &models.Secret{ID: 3, Name: "GitHub", Site: "github.com", Account: encA, Password: encP, Extra: &encX}

	d, err := svc.Detail(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, d.RawNote)
	assert.Equal(t, "alice", d.Account)
	assert.Equal(t, "p@ss1", d.Password)
	require.NotNil(t, d.Extra)
	assert.Equal(t, "hint", *d.Extra)
}

func TestDetail_RawNote(t *testing.T) {
	repo := &fakeSecretsRepo{byID: map[int64]*models.Secret{}}
	svc, cipher := newSecretService(repo)

	enc, _ := cipher.Encrypt("body", testPassphrase)
	repo.byID[4] = &models.Secret{ID: 4, Name: "Note", Site: models.RawNoteSite, Password: enc}

	d, err := svc.Detail(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, d.RawNote)
	assert.Equal(t, "body", d.Password)
}

func TestDetail_CorruptCiphertext(t *testing.T) {
	repo := &fakeSecretsRepo{byID: map[int64]*models.Secret{}}
	svc, _ := newSecretService(repo)

	repo.byID[5] = &models.Secret{ID: 5, Name: "Broken", Site: models.RawNoteSite, Password: "garbage"}

	_, err := svc.Detail(context.Background(), 5)
	assert.True(t, errors.Is(err, common.ErrDecryption))
}

func TestDetail_NotFound(t *testing.T) {
	svc, _ := newSecretService(&fakeSecretsRepo{byID: map[int64]*models.Secret{}})

	_, err := svc.Detail(context.Background(), 99)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestDelete_ReturnsName(t *testing.T) {
	repo := &fakeSecretsRepo{byID: map[int64]*models.Secret{
		7: {ID: 7, Name: "OldVPN"},
	}}
	svc, _ := newSecretService(repo)

	name, err := svc.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "OldVPN", name)
	assert.Equal(t, []int64{7}, repo.deleted)
}

func TestBackup_Shapes(t *testing.T) {
	repo := &fakeSecretsRepo{byID: map[int64]*models.Secret{}}
	svc, cipher := newSecretService(repo)

	encA, _ := cipher.Encrypt("alice", testPassphrase)
	encP, _ := cipher.Encrypt("p@ss1", testPassphrase)
	encBody, _ := cipher.Encrypt("note body", testPassphrase)
	expires := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)

	repo.records = []*models.Secret{
		{ID: 2, Name: "Note", Site: models.RawNoteSite, Password: encBody, ExpiresAt: &expires},
		{ID: 1, Name: "GitHub", Site: "github.com", Account: encA, Password: encP},
	}

	entries, err := svc.Backup(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	raw := entries[0]
	assert.Equal(t, "raw", raw.Type)
	assert.Equal(t, "note body", raw.Content)
	assert.Empty(t, raw.Site)
	require.NotNil(t, raw.ExpiresAt)
	assert.Equal(t, "2026-12-25", *raw.ExpiresAt)

	cred := entries[1]
	assert.Empty(t, cred.Type)
	assert.Equal(t, "github.com", cred.Site)
	assert.Equal(t, "alice", cred.Account)
	assert.Equal(t, "p@ss1", cred.Password)
	assert.Nil(t, cred.ExpiresAt)
}

func TestBackup_EmptyStore(t *testing.T) {
	svc, _ := newSecretService(&fakeSecretsRepo{})

	entries, err := svc.Backup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
