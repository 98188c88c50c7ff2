package devserver_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteelite/cookadmin/internal/devserver"
	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/resources"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func startServer(t *testing.T, token string) (*httptest.Server, *request.Client) {
	t.Helper()
	srv := devserver.New(devserver.Config{Token: token, Registry: prometheus.NewRegistry()}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := request.DefaultConfig()
	cfg.BaseURL = ts.URL + "/api"
	return ts, request.New(cfg, request.WithTokenProvider(request.StaticToken(token)))
}

func TestServer_CategoryLifecycle(t *testing.T) {
	_, core := startServer(t, "")
	ctx := context.Background()
	cats := resources.NewIngredientCategories(core)

	_, err := cats.Create(ctx, domain.CreateIngredientCategory{TypeName: "Dairy"})
	require.NoError(t, err)

	list, err := cats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, "Dairy", list[0].TypeName)
	require.NotNil(t, list[0].CreatedAt)

	updated, err := cats.Update(ctx, domain.UpdateIngredientCategory{ID: 1, TypeName: "Milk products"})
	require.NoError(t, err)
	assert.Equal(t, "Milk products", updated.TypeName)

	_, err = cats.Delete(ctx, domain.DeleteRequest{ID: 1})
	require.NoError(t, err)

	list, err = cats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServer_IngredientReferentialIntegrity(t *testing.T) {
	_, core := startServer(t, "")
	ctx := context.Background()
	cats := resources.NewIngredientCategories(core)
	ings := resources.NewIngredients(core)

	_, err := ings.Create(ctx, domain.CreateIngredient{IngredientName: "Milk", TypeID: 9})
	var apiErr *request.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "unknown ingredient category", apiErr.Message)

	_, err = cats.Create(ctx, domain.CreateIngredientCategory{TypeName: "Dairy"})
	require.NoError(t, err)
	_, err = ings.Create(ctx, domain.CreateIngredient{IngredientName: "Milk", TypeID: 1})
	require.NoError(t, err)

	list, err := ings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].IngredientType)
	assert.Equal(t, "Dairy", list[0].IngredientType.TypeName)

	_, err = cats.Delete(ctx, domain.DeleteRequest{ID: 1})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "category in use", apiErr.Error())

	_, err = ings.Delete(ctx, domain.DeleteRequest{ID: 1})
	require.NoError(t, err)
	_, err = cats.Delete(ctx, domain.DeleteRequest{ID: 1})
	require.NoError(t, err)
}

func TestServer_UnknownRecordAndInvalidPayload(t *testing.T) {
	_, core := startServer(t, "")
	ctx := context.Background()
	dishes := resources.NewDishCategories(core)

	_, err := dishes.Update(ctx, domain.UpdateDishCategory{ID: 5, Name: "Soups"})
	var apiErr *request.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)

	_, err = dishes.Create(ctx, domain.CreateDishCategory{Name: " "})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Message, "Name must not be empty")
}

func TestServer_BearerToken(t *testing.T) {
	ts, core := startServer(t, "secret")
	ctx := context.Background()

	_, err := resources.NewDishCategories(core).List(ctx)
	require.NoError(t, err)

	cfg := request.DefaultConfig()
	cfg.BaseURL = ts.URL + "/api"
	anonymous := request.New(cfg)
	_, err = resources.NewDishCategories(anonymous).List(ctx)
	var statusErr *request.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	ts, core := startServer(t, "")
	_, err := resources.NewDishCategories(core).List(context.Background())
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `cookadmin_devserver_requests_total{code="200",route="/api/dishCategories/getList"} 1`)
}
