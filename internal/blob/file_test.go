package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoad(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	_, err = s.Load(ctx, "missing")
	require.ErrorIs(t, err, ErrNoBlob)

	require.NoError(t, s.Save(ctx, "k", []byte(`{"a":1}`)))
	data, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(data))

	// overwrite replaces the whole value
	require.NoError(t, s.Save(ctx, "k", []byte(`{"b":2}`)))
	data, err = s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, `{"b":2}`, string(data))
}

func TestFileStore_Delete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "k", []byte("x")))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Load(ctx, "k")
	require.ErrorIs(t, err, ErrNoBlob)

	// deleting again is a no-op
	require.NoError(t, s.Delete(ctx, "k"))
}
