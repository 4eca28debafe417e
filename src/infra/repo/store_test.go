package repo

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
	"contactsapi/src/infra/config"
	"contactsapi/src/infra/db"
	"contactsapi/src/infra/logger"
)

type testStore interface {
	ports.ContactStore
	ports.AreaCodeSeeder
}

var testAreaCodes = []domain.AreaCode{
	{Code: 11, Region: "São Paulo", State: "SP"},
	{Code: 21, Region: "Rio de Janeiro", State: "RJ"},
	{Code: 61, Region: "Brasília", State: "DF"},
}

func newMemoryTestStore(t *testing.T) testStore {
	t.Helper()
	return NewMemoryStore(logger.Discard())
}

func newSQLiteTestStore(t *testing.T) testStore {
	t.Helper()
	ctx := context.Background()

	sq, err := db.NewSQLite(ctx, ":memory:", false, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(sq.Close)

	store := NewSQLiteStore(sq, logger.Discard())
	require.NoError(t, store.Migrate(ctx, db.MigrateUp))
	return store
}

// forEachStore runs fn against every backend that works without external services.
func forEachStore(t *testing.T, fn func(t *testing.T, store testStore)) {
	backends := map[string]func(*testing.T) testStore{
		"memory": newMemoryTestStore,
		"sqlite": newSQLiteTestStore,
	}
	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			store := build(t)
			require.NoError(t, store.SeedAreaCodes(context.Background(), testAreaCodes))
			fn(t, store)
		})
	}
}

func mustContact(t *testing.T, name, phone string) *domain.Contact {
	t.Helper()
	c := domain.NewContact(domain.ContactInput{Name: name, Phone: phone, Email: "someone@example.com"})
	require.True(t, c.ValidationResult.IsValid(), c.ValidationResult.Errors)
	return c
}

func commitNew(t *testing.T, store ports.ContactStore, contacts ...*domain.Contact) {
	t.Helper()
	ctx := context.Background()
	s := store.Session()
	for _, c := range contacts {
		require.NoError(t, s.Create(c))
	}
	require.NoError(t, s.Commit(ctx))
}

func TestStore_CreateIsStagedUntilCommit(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")

		s := store.Session()
		require.NoError(t, s.Create(c))

		other, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, other, "staged contact must not be durable")

		require.NoError(t, s.Commit(ctx))
		assert.False(t, c.CreatedAt.IsZero())

		got, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "987654321", got.Phone)
		assert.Equal(t, 11, got.AreaCodeID)
		assert.Equal(t, "someone@example.com", got.Email)
	})
}

func TestStore_CreateTwiceFails(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		c := mustContact(t, "Ana", "11987654321")
		s := store.Session()

		require.NoError(t, s.Create(c))
		err := s.Create(c)
		assert.True(t, domain.IsPersistence(err))
		assert.True(t, domain.IsPersistence(s.Create(nil)))
	})
}

func TestStore_FindContactMissing(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		got, err := store.Session().FindContact(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_TrackedChangesCommitAsUpdate(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")
		commitNew(t, store, c)

		s := store.Session()
		loaded, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		again, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Same(t, loaded, again)

		loaded.Update(domain.ContactInput{Name: "Ana Souza", Phone: "2133334444", Email: "ana@example.org"})

		before, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", before.Name)

		require.NoError(t, s.Commit(ctx))

		after, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", after.Name)
		assert.Equal(t, "33334444", after.Phone)
		assert.Equal(t, 21, after.AreaCodeID)
		assert.Equal(t, "ana@example.org", after.Email)
	})
}

func TestStore_UncommittedSessionIsDiscarded(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")
		commitNew(t, store, c)

		s := store.Session()
		loaded, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		loaded.Update(domain.ContactInput{Name: "Changed", Phone: "11987654321", Email: "x@example.com"})

		got, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.Name)
	})
}

func TestStore_Delete(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")
		commitNew(t, store, c)

		s := store.Session()
		loaded, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		require.NoError(t, s.Delete(loaded))

		hidden, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, hidden)

		stillThere, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.NotNil(t, stillThere)

		require.NoError(t, s.Commit(ctx))

		gone, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestStore_DeleteFailures(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		c := mustContact(t, "Ana", "11987654321")
		s := store.Session()

		assert.True(t, domain.IsPersistence(s.Delete(nil)))

		require.NoError(t, s.Delete(c))
		err := s.Delete(c)
		require.Error(t, err)
		assert.True(t, domain.IsPersistence(err))
	})
}

func TestStore_DeleteCancelsStagedCreate(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")

		s := store.Session()
		require.NoError(t, s.Create(c))
		require.NoError(t, s.Delete(c))
		require.NoError(t, s.Commit(ctx))

		all, err := store.Session().FindAllContacts(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestStore_CommitConflict(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")
		commitNew(t, store, c)

		editor := store.Session()
		loaded, err := editor.FindContact(ctx, c.ID)
		require.NoError(t, err)

		remover := store.Session()
		victim, err := remover.FindContact(ctx, c.ID)
		require.NoError(t, err)
		require.NoError(t, remover.Delete(victim))
		require.NoError(t, remover.Commit(ctx))

		loaded.Update(domain.ContactInput{Name: "Late", Phone: "11987654321", Email: "late@example.com"})
		err = editor.Commit(ctx)
		require.Error(t, err)
		assert.True(t, domain.IsPersistence(err))
		assert.True(t, domain.IsConflict(err))
	})
}

func TestStore_DeleteUnknownContactConflicts(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		s := store.Session()
		require.NoError(t, s.Delete(mustContact(t, "Ghost", "11987654321")))

		err := s.Commit(context.Background())
		assert.True(t, domain.IsPersistence(err))
		assert.True(t, domain.IsConflict(err))
	})
}

func TestStore_EmptyCommitIsNoop(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		assert.NoError(t, store.Session().Commit(context.Background()))
	})
}

func TestStore_FindAllAndByAreaCode(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		commitNew(t, store,
			mustContact(t, "Caio", "11911112222"),
			mustContact(t, "Ana", "11933334444"),
			mustContact(t, "Bea", "2155556666"),
		)
		s := store.Session()

		all, err := s.FindAllContacts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Ana", all[0].Name)
		assert.Equal(t, "Bea", all[1].Name)
		assert.Equal(t, "Caio", all[2].Name)

		sp, err := s.FindContactsByAreaCode(ctx, 11)
		require.NoError(t, err)
		require.Len(t, sp, 2)
		for _, c := range sp {
			assert.Equal(t, 11, c.AreaCodeID)
		}

		none, err := s.FindContactsByAreaCode(ctx, 61)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestStore_AreaCodes(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		s := store.Session()

		ac, err := s.FindAreaCode(ctx, 21)
		require.NoError(t, err)
		require.NotNil(t, ac)
		assert.Equal(t, domain.AreaCode{Code: 21, Region: "Rio de Janeiro", State: "RJ"}, *ac)

		missing, err := s.FindAreaCode(ctx, 20)
		require.NoError(t, err)
		assert.Nil(t, missing)

		require.NoError(t, store.SeedAreaCodes(ctx, []domain.AreaCode{{Code: 21, Region: "Rio", State: "RJ"}}))
		codes, err := s.FindAllAreaCodes(ctx)
		require.NoError(t, err)
		require.Len(t, codes, 3)
		assert.Equal(t, []int{11, 21, 61}, []int{codes[0].Code, codes[1].Code, codes[2].Code})
		assert.Equal(t, "Rio", codes[1].Region)
	})
}

func TestStore_Health(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		assert.NoError(t, store.Health(context.Background()))
	})
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Session().FindAllContacts(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsPersistence(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_InsertRequiresRegisteredAreaCode(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		orphan := mustContact(t, "Davi", "99987654321")
		require.Equal(t, 99, orphan.AreaCodeID)

		s := store.Session()
		require.NoError(t, s.Create(orphan))
		err := s.Commit(ctx)
		require.Error(t, err)
		assert.True(t, domain.IsPersistence(err))
		assert.True(t, domain.IsConflict(err))

		stored, err := store.Session().FindContactsByAreaCode(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestStore_UpdateRequiresRegisteredAreaCode(t *testing.T) {
	forEachStore(t, func(t *testing.T, store testStore) {
		ctx := context.Background()
		c := mustContact(t, "Ana", "11987654321")
		commitNew(t, store, c)

		s := store.Session()
		loaded, err := s.FindContact(ctx, c.ID)
		require.NoError(t, err)
		loaded.Update(domain.ContactInput{Name: "Ana", Phone: "99987654321", Email: "ana@example.com"})

		err = s.Commit(ctx)
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))

		got, err := store.Session().FindContact(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 11, got.AreaCodeID)
	})
}

func TestMemoryStore_LogsFailedCommitWithComponent(t *testing.T) {
	var buf bytes.Buffer
	store := NewMemoryStore(logger.NewWithWriter(config.LogConfig{Level: "warn", Format: "plain"}, &buf))

	s := store.Session()
	require.NoError(t, s.Create(mustContact(t, "Davi", "99987654321")))
	require.Error(t, s.Commit(context.Background()))

	assert.Contains(t, buf.String(), "commit failed")
	assert.Contains(t, buf.String(), "component=repo.memory")
}
