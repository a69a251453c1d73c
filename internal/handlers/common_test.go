package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Orders    *OrderHandler
	Items     *ItemHandler
	Auth      *AuthHandler
	Dashboard *DashboardHandler
}

var testJWTSecret = []byte("handler-test-secret")

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Item{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	))

	r := &repo.GormRepo{DB: db}
	orderSvc := service.NewOrderService(r)
	catalogSvc := service.NewCatalogService(r, nil, nil)
	userSvc := service.NewUserService(r, testJWTSecret)
	dashSvc := service.NewDashboardService(r)

	return &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        db,
		Orders:    &OrderHandler{Orders: orderSvc},
		Items:     &ItemHandler{Catalog: catalogSvc, Orders: orderSvc},
		Auth:      &AuthHandler{Users: userSvc},
		Dashboard: &DashboardHandler{Dashboard: dashSvc},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedItem(itemID, name string, price float64, stock int) {
	env.T.Helper()
	require.NoError(env.T, env.DB.Create(&models.Item{
		ItemID:     itemID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: "cat-1",
	}).Error)
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
}
