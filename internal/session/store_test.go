package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAuth_Authenticates(t *testing.T) {
	store := NewStore()
	require.False(t, store.IsAuthenticated())

	store.SetAuth(User{ID: "1", Name: "Amit", Role: "USER"}, "tok123")

	require.True(t, store.IsAuthenticated())
	require.Equal(t, "tok123", store.AccessToken())
	require.Equal(t, "Amit", store.User().Name)
}

func TestSetAuth_IdempotentAndNotifiesOnce(t *testing.T) {
	store := NewStore()
	var calls int
	store.Subscribe(func(Session) { calls++ })

	user := User{ID: "1", Name: "Amit", Role: "USER"}
	store.SetAuth(user, "tok123")
	first := store.Snapshot()
	store.SetAuth(user, "tok123")

	assert.Equal(t, first, store.Snapshot())
	assert.Equal(t, 1, calls)
}

func TestSetAuth_InvalidInputClears(t *testing.T) {
	store := NewStore()
	store.SetAuth(User{ID: "1"}, "tok")

	store.SetAuth(User{ID: "1"}, "  ")
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
	assert.Empty(t, store.AccessToken())

	store.SetAuth(User{}, "tok")
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.AccessToken())
}

func TestLogout_Idempotent(t *testing.T) {
	store := NewStore()
	var calls int
	store.Subscribe(func(Session) { calls++ })

	store.Logout()
	assert.Equal(t, 0, calls)
	assert.Equal(t, Session{}, store.Snapshot())

	store.SetAuth(User{ID: "1"}, "tok")
	store.Logout()
	store.Logout()

	assert.Equal(t, 2, calls)
	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
	assert.Empty(t, store.AccessToken())
}

func TestUser_ReturnsCopy(t *testing.T) {
	store := NewStore()
	store.SetAuth(User{ID: "1", Name: "Amit"}, "tok")

	u := store.User()
	u.Name = "mutated"

	assert.Equal(t, "Amit", store.User().Name)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	store := NewStore()
	var seen []Session
	unsubscribe := store.Subscribe(func(s Session) { seen = append(seen, s) })

	store.SetAuth(User{ID: "1"}, "tok")
	unsubscribe()
	unsubscribe()
	store.Logout()

	require.Len(t, seen, 1)
	assert.True(t, seen[0].IsAuthenticated())
}

func TestUser_IsAdmin(t *testing.T) {
	tests := map[string]bool{
		"ADMIN":   true,
		"USER":    false,
		"admin":   false,
		" ADMIN ": false,
		"":        false,
	}
	for role, want := range tests {
		t.Run(role, func(t *testing.T) {
			assert.Equal(t, want, User{Role: role}.IsAdmin())
		})
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetAuth(User{ID: "1"}, "tok")
		}()
		go func() {
			defer wg.Done()
			snap := store.Snapshot()
			assert.Equal(t, snap.User != nil, snap.AccessToken != "")
			store.Logout()
		}()
	}
	wg.Wait()
	snap := store.Snapshot()
	assert.Equal(t, snap.User != nil, snap.IsAuthenticated())
}

func TestRequire(t *testing.T) {
	store := NewStore()
	_, err := store.Require()
	require.ErrorIs(t, err, ErrNoSession)

	store.SetAuth(User{ID: "7", Name: "Sita"}, "tok")
	user, err := store.Require()
	require.NoError(t, err)
	require.Equal(t, "Sita", user.Name)
}
