package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type memStore struct {
	data   map[string][]byte
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

// --- Tests ---

func testUser() User {
	return User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: "user"}
}

func TestSetAuth_PersistsBothEntries(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)

	require.NoError(t, m.SetAuth(testUser(), "tok-123"))

	assert.Equal(t, []byte("tok-123"), store.data[KeyToken])
	assert.Contains(t, string(store.data[KeyUser]), `"id":"u1"`)
	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, "tok-123", m.Token())
}

func TestClearAuth_Idempotent(t *testing.T) {
	store := newMemStore()
	m := NewManager(store)
	require.NoError(t, m.SetAuth(testUser(), "tok-123"))

	require.NoError(t, m.ClearAuth())
	require.NoError(t, m.ClearAuth())

	assert.False(t, m.IsAuthenticated())
	assert.Empty(t, m.Token())
	assert.NotContains(t, store.data, KeyToken)
	assert.NotContains(t, store.data, KeyUser)
}

func TestInitialize_NoPersistedToken(t *testing.T) {
	m := NewManager(newMemStore())

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
	assert.Nil(t, m.Session())
}

func TestInitialize_TokenWithoutUser(t *testing.T) {
	store := newMemStore()
	store.data[KeyToken] = []byte("tok-123")
	m := NewManager(store)

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
}

func TestInitialize_HydratesPersistedSession(t *testing.T) {
	store := newMemStore()
	seed := NewManager(store)
	require.NoError(t, seed.SetAuth(testUser(), "tok-123"))

	m := NewManager(store)
	require.NoError(t, m.Initialize())

	sess := m.Session()
	require.NotNil(t, sess)
	assert.Equal(t, testUser(), sess.User)
	assert.Equal(t, "tok-123", sess.Token)
}

func TestInitialize_CorruptUserRecord(t *testing.T) {
	store := newMemStore()
	store.data[KeyToken] = []byte("tok-123")
	store.data[KeyUser] = []byte(`{"id": not-json`)
	m := NewManager(store)

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
	assert.NotContains(t, store.data, KeyUser, "corrupt entry must be discarded")
}

func TestInitialize_UserRecordMissingID(t *testing.T) {
	store := newMemStore()
	store.data[KeyToken] = []byte("tok-123")
	store.data[KeyUser] = []byte(`{"name":"Ada"}`)
	m := NewManager(store)

	require.NoError(t, m.Initialize())

	assert.False(t, m.IsAuthenticated())
}

func TestSetAuth_StoreFailureLeavesAnonymous(t *testing.T) {
	store := newMemStore()
	store.setErr = assert.AnError
	m := NewManager(store)

	require.Error(t, m.SetAuth(testUser(), "tok-123"))

	assert.False(t, m.IsAuthenticated())
}

func TestSession_ReturnsCopy(t *testing.T) {
	m := NewManager(newMemStore())
	require.NoError(t, m.SetAuth(testUser(), "tok-123"))

	sess := m.Session()
	sess.Token = "tampered"

	assert.Equal(t, "tok-123", m.Token())
}
