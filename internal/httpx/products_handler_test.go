package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopline/orders-api/internal/catalog"
)

type stubCatalog struct {
	created   catalog.Product
	gotFilter catalog.ListFilter
	listOut   []catalog.Product
}

func (s *stubCatalog) Create(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	s.created = p
	p.ID = primitive.NewObjectID()
	return p, nil
}

func (s *stubCatalog) List(ctx context.Context, f catalog.ListFilter) ([]catalog.Product, error) {
	s.gotFilter = f
	return s.listOut, nil
}

func newProductsServer(c *stubCatalog) *httptest.Server {
	r := NewRouter("orders-api-test")
	h := &ProductsHandler{Catalog: c, Log: zerolog.Nop()}
	h.Register(r)
	return httptest.NewServer(r)
}

func TestCreateProductEndpoint_Created(t *testing.T) {
	c := &stubCatalog{}
	srv := newProductsServer(c)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/products",
		`{"name":"  Hoodie  ","price":39.5,"size":["M","L"],"available_quantity":12}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Hoodie", c.created.Name)
	assert.Equal(t, []string{"m", "l"}, c.created.Size)
	assert.Equal(t, 12, c.created.AvailableQuantity)
}

func TestCreateProductEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "empty name", body: `{"name":" ","price":1,"size":["m"],"available_quantity":1}`, field: "name"},
		{name: "zero price", body: `{"name":"x","price":0,"size":["m"],"available_quantity":1}`, field: "price"},
		{name: "negative price", body: `{"name":"x","price":-5,"size":["m"],"available_quantity":1}`, field: "price"},
		{name: "no sizes", body: `{"name":"x","price":1,"size":[],"available_quantity":1}`, field: "size"},
		{name: "blank size", body: `{"name":"x","price":1,"size":["  "],"available_quantity":1}`, field: "size"},
		{name: "negative quantity", body: `{"name":"x","price":1,"size":["m"],"available_quantity":-1}`, field: "available_quantity"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newProductsServer(&stubCatalog{})
			defer srv.Close()

			resp := postJSON(t, srv.URL+"/products", tc.body)

			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			var body struct {
				Detail []FieldError `json:"detail"`
			}
			decodeBody(t, resp, &body)
			assert.NotEmpty(t, body.Detail)
			assert.Equal(t, []string{"body", tc.field}, body.Detail[0].Loc)
		})
	}
}

func TestCreateProductEndpoint_InvalidJSONIs422(t *testing.T) {
	srv := newProductsServer(&stubCatalog{})
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/products", `{"name":`)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body struct {
		Detail []FieldError `json:"detail"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Detail, 1)
	assert.Equal(t, []string{"body"}, body.Detail[0].Loc)
}

func TestListProductsEndpoint_ForwardsFilters(t *testing.T) {
	c := &stubCatalog{}
	srv := newProductsServer(c)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/products?name=shirt&size=large&limit=20&offset=5")
	assert.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "shirt", c.gotFilter.Name)
	assert.Equal(t, "large", c.gotFilter.Size)
	assert.Equal(t, 20, c.gotFilter.Limit)
	assert.Equal(t, 5, c.gotFilter.Offset)
}

func TestListProductsEndpoint_EmptyIs200WithEmptyArray(t *testing.T) {
	srv := newProductsServer(&stubCatalog{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/products")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []catalog.Product
	decodeBody(t, resp, &body)
	assert.NotNil(t, body)
	assert.Empty(t, body)
}
