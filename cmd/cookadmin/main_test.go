package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteelite/cookadmin/internal/devserver"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type harness struct {
	t        *testing.T
	baseURL  string
	storeDir string
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	ts := httptest.NewServer(devserver.New(devserver.Config{Token: token}, nil).Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, baseURL: ts.URL + "/api", storeDir: t.TempDir()}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	a := newApp()
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--base-url", h.baseURL, "--store-dir", h.storeDir, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func TestCLI_CategoryAndIngredientFlow(t *testing.T) {
	h := newHarness(t, "")

	out, err := h.run("ingredient-categories", "add", "Dairy")
	require.NoError(t, err)
	assert.Contains(t, out, `added ingredient category "Dairy"`)

	out, err = h.run("ingredient-categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Dairy")

	_, err = h.run("ingredients", "add", "Milk", "--type", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ingredient category")

	_, err = h.run("ingredients", "add", "Milk", "--type", "1")
	require.NoError(t, err)

	out, err = h.run("ingredients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Milk")
	assert.Contains(t, out, "Dairy")

	_, err = h.run("ingredient-categories", "delete", "1")
	require.Error(t, err)
	assert.Equal(t, "category in use", err.Error())
}

func TestCLI_DishCategories(t *testing.T) {
	h := newHarness(t, "")

	_, err := h.run("dish-categories", "add", "Soups")
	require.NoError(t, err)
	_, err = h.run("dish-categories", "update", "1", "Broths")
	require.NoError(t, err)

	out, err := h.run("dishes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Broths")
	assert.NotContains(t, out, "Soups")

	_, err = h.run("dish-categories", "delete", "1")
	require.NoError(t, err)
	out, err = h.run("dish-categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(empty)")

	_, err = h.run("dish-categories", "delete", "abc")
	assert.ErrorContains(t, err, `invalid id "abc"`)
}

func TestCLI_LoginLogout(t *testing.T) {
	h := newHarness(t, "secret")

	_, err := h.run("dish-categories", "list")
	assert.ErrorContains(t, err, "status 401")

	out, err := h.run("login", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in")

	_, err = h.run("dish-categories", "list")
	require.NoError(t, err)

	_, err = h.run("logout")
	require.NoError(t, err)
	_, err = h.run("dish-categories", "list")
	assert.ErrorContains(t, err, "status 401")
}

func TestCLI_RejectsBlankNames(t *testing.T) {
	h := newHarness(t, "")

	_, err := h.run("ingredient-categories", "add", "   ")
	assert.ErrorContains(t, err, "TypeName must not be empty")
}
