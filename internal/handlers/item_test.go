package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/transport"
)

func (env *testEnv) seedCategory(categoryID, name string) {
	env.T.Helper()
	require.NoError(env.T, env.DB.Create(&models.Category{CategoryID: categoryID, Name: name}).Error)
}

func TestCreateItemHandlerJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("cat-1", "Drinks")

	stock := 10
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/items", transport.ItemRequest{
		Name:       "Tea",
		Price:      50,
		Stock:      &stock,
		CategoryID: "cat-1",
	})
	require.NoError(t, env.Items.CreateItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.NotEmpty(t, item.ItemID)
	require.Equal(t, 10, item.Stock)
}

func TestCreateItemHandlerMultipart(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("cat-1", "Drinks")

	payload, err := json.Marshal(transport.ItemRequest{
		Name: "Coffee", Price: 120, CategoryID: "cat-1",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("item", string(payload)))
	fw, err := mw.CreateFormFile("file", "coffee.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/items", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)

	require.NoError(t, env.Items.CreateItem(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Coffee", item.Name)
	// no blob store configured, image is skipped
	require.Empty(t, item.ImgURL)
}

func TestCreateItemHandlerUnknownCategory(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/admin/items", transport.ItemRequest{
		Name: "Tea", Price: 50, CategoryID: "cat-missing",
	})
	requireHTTPError(t, env.Items.CreateItem(c), http.StatusNotFound)
}

func TestUpdateItemHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("cat-1", "Drinks")
	env.seedItem("item-1", "Tea", 50, 10)

	rec, c := env.doJSONRequest(http.MethodPut, "/api/v1/admin/items/item-1", transport.ItemRequest{
		Name: "Masala Tea", Price: 60, CategoryID: "cat-1",
	})
	c.SetParamNames("itemId")
	c.SetParamValues("item-1")
	require.NoError(t, env.Items.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, "Masala Tea", item.Name)
	require.Equal(t, 60.0, item.Price)
	require.Equal(t, 10, item.Stock)
}

func TestListItemsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("item-1", "Tea", 50, 10)
	env.seedItem("item-2", "Coffee", 120, 5)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/items", nil)
	require.NoError(t, env.Items.ListItems(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Item  `json:"data"`
		Meta map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.EqualValues(t, 2, resp.Meta["total"])
}

func TestDeleteItemHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem("item-1", "Tea", 50, 10)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/admin/items/item-1", nil)
	c.SetParamNames("itemId")
	c.SetParamValues("item-1")
	require.NoError(t, env.Items.DeleteItem(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, c = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/items/item-1", nil)
	c.SetParamNames("itemId")
	c.SetParamValues("item-1")
	requireHTTPError(t, env.Items.DeleteItem(c), http.StatusNotFound)
}
