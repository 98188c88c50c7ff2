package resources_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/request"
	"github.com/whiteelite/cookadmin/internal/infrastructure/http/resources"
)

type hit struct {
	method string
	path   string
	body   string
}

// echoServer answers every call with the request body as data, except
// getList which answers with list.
func echoServer(t *testing.T, list string) (*request.Client, func() []hit) {
	t.Helper()
	var mu sync.Mutex
	var hits []hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		hits = append(hits, hit{method: r.Method, path: r.URL.Path, body: string(raw)})
		mu.Unlock()

		data := string(raw)
		if r.Method == http.MethodGet {
			data = list
		}
		_, _ = io.WriteString(w, `{"code":200,"message":"ok","data":`+data+`}`)
	}))
	t.Cleanup(srv.Close)

	cfg := request.DefaultConfig()
	cfg.BaseURL = srv.URL + "/api"
	return request.New(cfg), func() []hit {
		mu.Lock()
		defer mu.Unlock()
		return append([]hit(nil), hits...)
	}
}

func TestIngredientCategories_Operations(t *testing.T) {
	core, hits := echoServer(t, `[{"id":1,"typeName":"Dairy","createdAt":"2024-05-01T10:00:00Z"}]`)
	client := resources.NewIngredientCategories(core)
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dairy", list[0].TypeName)
	require.NotNil(t, list[0].CreatedAt)
	assert.Nil(t, list[0].UpdatedAt)

	created, err := client.Create(ctx, domain.CreateIngredientCategory{TypeName: "Dairy"})
	require.NoError(t, err)
	assert.Equal(t, "Dairy", created.TypeName)

	updated, err := client.Update(ctx, domain.UpdateIngredientCategory{ID: 1, TypeName: "Milk"})
	require.NoError(t, err)
	assert.Equal(t, domain.UpdateIngredientCategory{ID: 1, TypeName: "Milk"}, updated)

	deleted, err := client.Delete(ctx, domain.DeleteRequest{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted.ID)

	got := hits()
	require.Len(t, got, 4)
	assert.Equal(t, hit{http.MethodGet, "/api/ingredientsCategories/getList", ""}, got[0])
	assert.Equal(t, http.MethodPost, got[1].method)
	assert.Equal(t, "/api/ingredientsCategories/add", got[1].path)
	assert.JSONEq(t, `{"typeName":"Dairy"}`, got[1].body)
	assert.Equal(t, http.MethodPut, got[2].method)
	assert.Equal(t, "/api/ingredientsCategories/update", got[2].path)
	assert.JSONEq(t, `{"id":1,"typeName":"Milk"}`, got[2].body)
	assert.Equal(t, http.MethodDelete, got[3].method)
	assert.Equal(t, "/api/ingredientsCategories/delete", got[3].path)
	assert.JSONEq(t, `{"id":1}`, got[3].body)
}

func TestIngredients_ListCarriesCategorySnapshot(t *testing.T) {
	core, hits := echoServer(t, `[{"id":4,"ingredientName":"Butter","typeId":1,"ingredientType":{"id":1,"typeName":"Dairy"}}]`)
	client := resources.NewIngredients(core)

	list, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].TypeID)
	require.NotNil(t, list[0].IngredientType)
	assert.Equal(t, "Dairy", list[0].IngredientType.TypeName)
	assert.Equal(t, "/api/ingredients/getList", hits()[0].path)
}

func TestIngredients_CreateOmitsID(t *testing.T) {
	core, hits := echoServer(t, `[]`)
	client := resources.NewIngredients(core)

	_, err := client.Create(context.Background(), domain.CreateIngredient{IngredientName: "Butter", TypeID: 1})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ingredientName":"Butter","typeId":1}`, hits()[0].body)
}

func TestDishCategories_Paths(t *testing.T) {
	core, hits := echoServer(t, `[{"id":2,"name":"Soups"}]`)
	client := resources.NewDishCategories(core)
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DishCategory{{ID: 2, Name: "Soups"}}, list)

	_, err = client.Create(ctx, domain.CreateDishCategory{Name: "Mains"})
	require.NoError(t, err)
	_, err = client.Update(ctx, domain.UpdateDishCategory{ID: 2, Name: "Soup"})
	require.NoError(t, err)
	_, err = client.Delete(ctx, domain.DeleteRequest{ID: 2})
	require.NoError(t, err)

	paths := []string{}
	for _, h := range hits() {
		paths = append(paths, h.method+" "+h.path)
	}
	assert.Equal(t, []string{
		"GET /api/dishCategories/getList",
		"POST /api/dishCategories/add",
		"PUT /api/dishCategories/update",
		"DELETE /api/dishCategories/delete",
	}, paths)
}

func TestResource_PropagatesErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":400,"data":null,"message":"category in use"}`)
	}))
	defer srv.Close()
	cfg := request.DefaultConfig()
	cfg.BaseURL = srv.URL + "/api"
	client := resources.NewIngredientCategories(request.New(cfg))

	_, err := client.Delete(context.Background(), domain.DeleteRequest{ID: 1})

	require.EqualError(t, err, "category in use")
}
