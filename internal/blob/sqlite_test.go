package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore("file::memory:?cache=shared")
	require.NoError(t, err)
	return s
}

func TestSQLiteStore_SaveLoad(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "absent")
	require.ErrorIs(t, err, ErrNoBlob)

	require.NoError(t, s.Save(ctx, "conversations", []byte(`[]`)))
	data, err := s.Load(ctx, "conversations")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))

	require.NoError(t, s.Save(ctx, "conversations", []byte(`[{"id":"1"}]`)))
	data, err = s.Load(ctx, "conversations")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"1"}]`, string(data))
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "auth", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "auth"))
	_, err := s.Load(ctx, "auth")
	require.ErrorIs(t, err, ErrNoBlob)

	require.NoError(t, s.Delete(ctx, "auth"))
}
