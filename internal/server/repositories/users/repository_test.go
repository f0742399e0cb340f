package users

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/s3x/s3xtest"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

var backends = map[string]func(t *testing.T) Repository{
	"bolt": func(t *testing.T) Repository {
		db, err := bolt.Open(filepath.Join(t.TempDir(), "users.db"), 0600, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return NewBoltRepository(db)
	},
	"s3":     func(t *testing.T) Repository { return NewS3Repository(s3xtest.New(), "passvault") },
	"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
}

func TestRepository_CreateAndGet(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			u := &models.User{ID: "u1", Email: "alice@example.com", PasswordHash: []byte("h"), CreatedAt: created}
			require.NoError(t, repo.Create(ctx, u))

			got, err := repo.GetByEmail(ctx, "alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.ID)
			assert.Equal(t, []byte("h"), got.PasswordHash)
			assert.True(t, got.CreatedAt.Equal(created))

			_, err = repo.GetByEmail(ctx, "bob@example.com")
			assert.ErrorIs(t, err, common.ErrorNotFound)
		})
	}
}

func TestRepository_DuplicateEmail(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Email: "a@b.c"}))
			err := repo.Create(ctx, &models.User{ID: "u2", Email: "a@b.c"})
			assert.ErrorIs(t, err, common.ErrorAlreadyExists)

			got, err := repo.GetByEmail(ctx, "a@b.c")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.ID)
		})
	}
}

func TestS3Repository_KeyEscapesEmail(t *testing.T) {
	assert.Equal(t, "users/a%2Fb@c.d.json", userKey("a/b@c.d"))
}
