package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutObjectRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	uri, err := store.PutObject(context.Background(), "raw/siir-arsivi/davet.html", "text/html", []byte("<html>"))
	require.NoError(t, err)
	require.Equal(t, "mem://raw/siir-arsivi/davet.html", uri)

	obj, ok := store.Get("raw/siir-arsivi/davet.html")
	require.True(t, ok)
	require.Equal(t, "text/html", obj.ContentType)
	require.Equal(t, []byte("<html>"), obj.Data)
	require.Equal(t, 1, store.Len())
}

func TestPutObjectCopiesData(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	data := []byte("original")
	_, err := store.PutObject(context.Background(), "p", "text/plain", data)
	require.NoError(t, err)

	data[0] = 'X'
	obj, _ := store.Get("p")
	require.Equal(t, []byte("original"), obj.Data)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	_, ok := store.Get("nope")
	require.False(t, ok)
}
