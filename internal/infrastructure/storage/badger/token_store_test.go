package badger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/storage/badger"
)

func openInMemory(t *testing.T) *badger.TokenStore {
	t.Helper()
	store, err := badger.Open(badger.Config{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestTokenStore_EmptyByDefault(t *testing.T) {
	store := openInMemory(t)

	token, err := store.Token(context.Background())

	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStore_SetAndClear(t *testing.T) {
	store := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, store.SetToken("secret"))
	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "secret", token)

	require.NoError(t, store.ClearToken())
	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := badger.Open(badger.Config{Path: dir, TokenKey: "auth"})
	require.NoError(t, err)
	require.NoError(t, store.SetToken("kept"))
	require.NoError(t, store.Close())

	reopened, err := badger.Open(badger.Config{Path: dir, TokenKey: "auth"})
	require.NoError(t, err)
	defer reopened.Close()

	token, err := reopened.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kept", token)
}

func TestTokenStore_RequiresPath(t *testing.T) {
	_, err := badger.Open(badger.Config{})
	assert.Error(t, err)
}

func TestTokenStore_ChangeAppliesToNextRequest(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"code":200,"data":null,"message":"ok"}`))
	}))
	defer srv.Close()

	store := openInMemory(t)
	cfg := request.DefaultConfig()
	cfg.BaseURL = srv.URL + "/api"
	client := request.New(cfg, request.WithTokenProvider(store))
	ctx := context.Background()

	_, err := request.Get[any](ctx, client, "/x", nil)
	require.NoError(t, err)
	require.NoError(t, store.SetToken("abc"))
	_, err = request.Get[any](ctx, client, "/x", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer abc"}, seen)
}
