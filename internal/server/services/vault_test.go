package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/vaultitems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = auth.Identity{UserID: "user-a", Email: "alice@example.com"}
	bob   = auth.Identity{UserID: "user-b", Email: "bob@example.com"}
)

// recordingLogger keeps Warn calls so tests can inspect them.
type recordingLogger struct {
	logging.Nop
	mu    sync.Mutex
	warns [][]any
}

func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, append([]any{msg}, args...))
}

func (l *recordingLogger) With(...any) logging.Logger { return l }

// countingRepo counts writes reaching the underlying repository.
type countingRepo struct {
	vaultitems.Repository
	writes int
}

func (r *countingRepo) Create(ctx context.Context, item *models.VaultItem) error {
	r.writes++
	return r.Repository.Create(ctx, item)
}

func (r *countingRepo) UpdateOwned(ctx context.Context, id, userID string, mutate vaultitems.MutateFunc) error {
	r.writes++
	return r.Repository.UpdateOwned(ctx, id, userID, mutate)
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newVaultService(t *testing.T) (*VaultService, *vaultitems.MemoryRepository, *recordingLogger, *clock) {
	t.Helper()
	repo := vaultitems.NewMemoryRepository()
	log := &recordingLogger{}
	svc := NewVaultService(repo, NewKeyDeriver("test-secret"), log)
	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = c.now
	return svc, repo, log, c
}

func fields(title string) models.VaultFields {
	return models.VaultFields{Title: title, Username: "u", URL: "https://example.com", Password: "p", Notes: "n"}
}

func TestVaultService_CreateThenGet(t *testing.T) {
	svc, repo, _, _ := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("mail"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored, err := repo.Get(ctx, id, alice.UserID)
	require.NoError(t, err)
	assert.NotContains(t, stored.EncryptedData, "mail")
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)

	got, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, fields("mail"), got.VaultFields)
	assert.Equal(t, id, got.ID)
}

func TestVaultService_ListNewestFirstAndFilter(t *testing.T) {
	svc, _, _, c := newVaultService(t)
	ctx := context.Background()

	for i, title := range []string{"GitHub", "Bank", "Gitlab"} {
		c.t = c.t.Add(time.Duration(i+1) * time.Minute)
		_, err := svc.Create(ctx, alice, fields(title))
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Gitlab", all[0].Title)
	assert.Equal(t, "GitHub", all[2].Title)

	git, err := svc.List(ctx, alice, "GIT")
	require.NoError(t, err)
	assert.Len(t, git, 2)

	none, err := svc.List(ctx, bob, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestVaultService_OwnershipEnforced(t *testing.T) {
	svc, _, _, _ := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("mine"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, svc.Update(ctx, bob, id, fields("stolen")), common.ErrorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, bob, id), common.ErrorNotFound)

	got, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)
}

func TestVaultService_CorruptItemsAreSkipped(t *testing.T) {
	svc, repo, log, c := newVaultService(t)
	ctx := context.Background()

	var ids []string
	for i := range 3 {
		c.t = c.t.Add(time.Minute)
		id, err := svc.Create(ctx, alice, fields(fmt.Sprintf("item-%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	err := repo.UpdateOwned(ctx, ids[1], alice.UserID, func(it *models.VaultItem) error {
		it.EncryptedData = "garbage!!"
		return nil
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, alice, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "item-2", list[0].Title)
	assert.Equal(t, "item-0", list[1].Title)

	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], ids[1])

	_, err = svc.Get(ctx, alice, ids[1])
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestVaultService_ItemsOfOneUserUnreadableWithAnotherKey(t *testing.T) {
	svc, repo, log, _ := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("x"))
	require.NoError(t, err)

	// move the ciphertext under bob's ownership
	stored, err := repo.Get(ctx, id, alice.UserID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &models.VaultItem{
		ID: "11111111-1111-1111-1111-111111111111", UserID: bob.UserID, EncryptedData: stored.EncryptedData,
	}))

	list, err := svc.List(ctx, bob, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, log.warns, 1)
}

func TestVaultService_ValidationBeforePersistence(t *testing.T) {
	repo := &countingRepo{Repository: vaultitems.NewMemoryRepository()}
	svc := NewVaultService(repo, NewKeyDeriver("s"), logging.Nop{})
	ctx := context.Background()

	invalid := []models.VaultFields{
		{Title: "", Password: "p"},
		{Title: "t", Password: ""},
		{},
	}
	for _, f := range invalid {
		_, err := svc.Create(ctx, alice, f)
		assert.ErrorIs(t, err, common.ErrorValidation)
		assert.ErrorIs(t, svc.Update(ctx, alice, "not-even-a-uuid", f), common.ErrorValidation)
	}
	assert.Zero(t, repo.writes)
}

func TestVaultService_UpdateKeepsCreatedAt(t *testing.T) {
	svc, _, _, c := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("old"))
	require.NoError(t, err)
	created := c.t

	c.t = c.t.Add(time.Hour)
	require.NoError(t, svc.Update(ctx, alice, id, fields("new")))

	got, err := svc.Get(ctx, alice, id)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(c.t))
}

func TestVaultService_MalformedIDIsNotFound(t *testing.T) {
	svc, _, _, _ := newVaultService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, alice, "../etc/passwd")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, svc.Update(ctx, alice, "nope", fields("x")), common.ErrorNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, alice, "nope"), common.ErrorNotFound)
}

func TestVaultService_AlternateIDFormsResolveToSameItem(t *testing.T) {
	svc, _, _, _ := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("mail"))
	require.NoError(t, err)

	forms := []string{strings.ToUpper(id), "{" + id + "}", "urn:uuid:" + id}
	for _, form := range forms {
		t.Run(form, func(t *testing.T) {
			got, err := svc.Get(ctx, alice, form)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			require.NoError(t, svc.Update(ctx, alice, form, fields("mail")))
		})
	}

	require.NoError(t, svc.Delete(ctx, alice, "urn:uuid:"+id))
	_, err = svc.Get(ctx, alice, id)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVaultService_Delete(t *testing.T) {
	svc, _, _, _ := newVaultService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, alice, fields("x"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice, id))

	list, err := svc.List(ctx, alice, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, svc.Delete(ctx, alice, id), common.ErrorNotFound)
}

type failingRepo struct {
	vaultitems.Repository
}

func (failingRepo) ListByUser(context.Context, string) ([]*models.VaultItem, error) {
	return nil, errors.New("store down")
}

func (failingRepo) Create(context.Context, *models.VaultItem) error {
	return errors.New("store down")
}

func TestVaultService_StoreErrorsPropagate(t *testing.T) {
	svc := NewVaultService(failingRepo{}, NewKeyDeriver("s"), logging.Nop{})
	ctx := context.Background()

	_, err := svc.List(ctx, alice, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)

	_, err = svc.Create(ctx, alice, fields("x"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorValidation)
}

func TestKeyDeriver_Deterministic(t *testing.T) {
	d := NewKeyDeriver("secret")
	k1 := d.Derive("u1")
	k2 := d.Derive("u1")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)
	assert.NotEqual(t, k1, d.Derive("u2"))
	assert.NotEqual(t, k1, NewKeyDeriver("other").Derive("u1"))
}
