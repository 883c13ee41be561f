package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vitrine/internal/database"
	"vitrine/internal/handlers"
	"vitrine/internal/middleware"
	"vitrine/internal/models"
	"vitrine/internal/repositories"
	"vitrine/internal/services"
	"vitrine/pkg/cache"
	"vitrine/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	cache cache.Store
	admin string // ADMIN access token
}

// setupApp builds a Fiber app backed by in-memory SQLite, an in-memory
// response cache and a temporary upload directory.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store := cache.NewMemoryStore()
	files := storage.NewLocalStorage(t.TempDir())

	clientRepo := repositories.NewGORMClientRepository(db)
	teamRepo := repositories.NewGORMTeamMemberRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	brandRepo := repositories.NewGORMBrandRepository(db)
	storeRepo := repositories.NewGORMStoreConfigurationRepository(db)

	authService := services.NewAuthService(clientRepo, teamRepo, services.TokenConfig{
		Secret:    "test_jwt_secret",
		ClientTTL: 15 * time.Minute,
		TeamTTL:   time.Hour,
	}, logger)
	teamService := services.NewTeamMemberService(teamRepo, logger)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(logger)})
	apiV1 := app.Group("/api/v1")
	requireAuth := middleware.AuthRequired(authService)

	handlers.NewAuthHandler(authService, false, logger).RegisterRoutes(apiV1, requireAuth)
	handlers.NewClientHandler(services.NewClientService(clientRepo, logger)).RegisterRoutes(apiV1, requireAuth)
	handlers.NewTeamMemberHandler(teamService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo, logger), store, logger).RegisterRoutes(apiV1, requireAuth)
	handlers.NewBrandHandler(services.NewBrandService(brandRepo, logger), store, logger).RegisterRoutes(apiV1, requireAuth)
	handlers.NewProductHandler(
		services.NewProductService(repositories.NewGORMProductRepository(db), brandRepo, categoryRepo, files, logger),
		store, logger,
	).RegisterRoutes(apiV1, requireAuth)
	handlers.NewBannerHandler(services.NewBannerService(repositories.NewGORMBannerRepository(db), files, logger), store, logger).RegisterRoutes(apiV1, requireAuth)
	handlers.NewNewsletterHandler(services.NewNewsletterService(repositories.NewGORMNewsletterRepository(db), logger)).RegisterRoutes(apiV1, requireAuth)
	handlers.NewSocialMediaHandler(services.NewSocialMediaService(repositories.NewGORMSocialMediaRepository(db), storeRepo, logger), store, logger).RegisterRoutes(apiV1, requireAuth)
	handlers.NewStoreConfigurationHandler(services.NewStoreConfigurationService(storeRepo, files, logger), store, logger).RegisterRoutes(apiV1, requireAuth)

	_, err = teamService.EnsureAdmin(context.Background(), "Admin", "Vitrine", "admin@example.com", "secret123")
	require.NoError(t, err)

	env := &testEnv{app: app, db: db, cache: store}
	env.admin = env.login(t, "/api/v1/auth/team/login", "admin@example.com", "secret123")
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) login(t *testing.T, path, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, path, map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

type formFile struct {
	field, name, content string
}

// multipartRequest builds a multipart/form-data request. Repeated keys are
// written as repeated fields.
func multipartRequest(t *testing.T, method, target string, fields [][2]string, files []formFile, token string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f[0], f[1]))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthFlow(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodPost, "/api/v1/client", map[string]string{
		"name": "Ana", "last_name": "Souza", "email": "ana@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decode(t, resp, &created)
	assert.Equal(t, "CLIENT", created["role"])
	assert.NotContains(t, created, "password")

	resp = env.do(t, http.MethodPost, "/api/v1/client", map[string]string{
		"name": "Ana", "last_name": "Souza", "email": "ana@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict errorBody
	decode(t, resp, &conflict)
	assert.Equal(t, "CLIENT_EMAIL_ALREADY_EXISTS", conflict.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/auth/client/login", map[string]string{
		"email": "ana@example.com", "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, int((15 * time.Minute).Seconds()), cookie.MaxAge)

	var login struct {
		AccessToken string                 `json:"access_token"`
		User        map[string]interface{} `json:"user"`
	}
	decode(t, resp, &login)
	assert.Equal(t, cookie.Value, login.AccessToken)
	assert.Equal(t, "ana@example.com", login.User["email"])

	// The cookie alone authenticates.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: cookie.Value})
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me map[string]interface{}
	decode(t, resp, &me)
	assert.Equal(t, "ana@example.com", me["email"])

	resp = env.do(t, http.MethodPost, "/api/v1/auth/client/login", map[string]string{
		"email": "ana@example.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AccessTokenCookie {
			assert.Empty(t, c.Value)
		}
	}

	resp = env.do(t, http.MethodPost, "/api/v1/auth/team/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid errorBody
	decode(t, resp, &invalid)
	assert.Equal(t, "VALIDATION_FAILED", invalid.Code)
	assert.Contains(t, invalid.Errors, "email")
	assert.Contains(t, invalid.Errors, "password")
}

func TestProductEndpoints(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodPost, "/api/v1/category", map[string]interface{}{"name": "Tools", "is_home": true}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var category models.Category
	decode(t, resp, &category)

	resp = env.do(t, http.MethodPost, "/api/v1/brand", map[string]interface{}{"name": "Acme"}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var brand models.Brand
	decode(t, resp, &brand)

	// Multipart create with a JSON variants string, repeated category ids and a file.
	req := multipartRequest(t, http.MethodPost, "/api/v1/product", [][2]string{
		{"title", "Widget"},
		{"price", "10"},
		{"brand_id", brand.ID},
		{"variants", `[{"color":"Red","quantity":3}]`},
		{"category_ids[]", category.ID},
		{"image_urls", "https://cdn.example.com/widget.png"},
		{"is_active", "true"},
	}, []formFile{{field: "files", name: "widget.png", content: "png"}}, env.admin)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	decode(t, resp, &product)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, "Red", product.Variants[0].Color)
	assert.Equal(t, []string{category.ID}, product.CategoryIDs())
	require.Len(t, product.Images, 2)
	assert.Equal(t, "https://cdn.example.com/widget.png", product.Images[0].URL)
	assert.Contains(t, product.Images[1].URL, "uploads/products/")
	require.NotNil(t, product.BrandID)
	assert.Equal(t, brand.ID, *product.BrandID)

	path := "/api/v1/product/" + product.ID
	resp = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	resp = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))

	resp = env.do(t, http.MethodGet, "/api/v1/product/public?search=widget", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page services.ProductPage
	decode(t, resp, &page)
	assert.Equal(t, int64(1), page.Meta.Total)

	// JSON update replaces only the variants and drops the cached entries.
	resp = env.do(t, http.MethodPatch, path, map[string]interface{}{
		"variants": []map[string]interface{}{{"color": "Blue", "quantity": 5}},
	}, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	var updated models.Product
	decode(t, resp, &updated)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, "Blue", updated.Variants[0].Color)
	assert.Equal(t, "Widget", updated.Title)
	assert.Equal(t, []string{category.ID}, updated.CategoryIDs())
	assert.Len(t, updated.Images, 2)

	_, ok, err := env.cache.Get(context.Background(), "products_public:search=widget")
	require.NoError(t, err)
	assert.False(t, ok)

	resp = env.do(t, http.MethodGet, path+"/related", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var related []models.Product
	decode(t, resp, &related)
	assert.Empty(t, related)

	resp = env.do(t, http.MethodDelete, path, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var notFound errorBody
	decode(t, resp, &notFound)
	assert.Equal(t, "PRODUCT_NOT_FOUND", notFound.Code)
}

func TestProductEndpoints_AccessAndValidation(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{"title": "x", "price": 1}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/team-members", map[string]string{
		"name": "Bruno", "last_name": "Lima", "email": "bruno@example.com", "password": "secret123",
	}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	collaborator := env.login(t, "/api/v1/auth/team/login", "bruno@example.com", "secret123")

	resp = env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{"title": "x", "price": 1}, collaborator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var denied errorBody
	decode(t, resp, &denied)
	assert.Equal(t, "AUTH_ACCESS_DENIED", denied.Code)

	resp = env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{
		"price":    0,
		"variants": []map[string]interface{}{{"quantity": -1}},
	}, env.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid errorBody
	decode(t, resp, &invalid)
	assert.Equal(t, "VALIDATION_FAILED", invalid.Code)
	assert.Contains(t, invalid.Errors, "title")
	assert.Contains(t, invalid.Errors, "price")
	assert.Contains(t, invalid.Errors, "variants[0].color")
	assert.Contains(t, invalid.Errors, "variants[0].quantity")

	resp = env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{
		"title": "Widget", "price": 10, "image_urls": []string{"https://cdn.example.com/a.png", ""},
	}, env.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var badURL errorBody
	decode(t, resp, &badURL)
	assert.Contains(t, badURL.Errors, "image_urls[1]")

	resp = env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{
		"title": "Widget", "price": 10, "image_urls": []string{"uploads/banners/x.png"},
	}, env.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var foreign errorBody
	decode(t, resp, &foreign)
	assert.Contains(t, foreign.Errors, "image_urls[0]")

	req := multipartRequest(t, http.MethodPost, "/api/v1/product", [][2]string{
		{"title", "Widget"},
		{"price", "ten"},
	}, nil, env.admin)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/product", map[string]interface{}{
		"title": "Widget", "price": 10, "category_ids": []string{"ghost"},
	}, env.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var missing errorBody
	decode(t, resp, &missing)
	assert.Equal(t, "CATEGORY_NOT_FOUND", missing.Code)

	resp = env.do(t, http.MethodGet, "/api/v1/product?take=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/v1/product/missing", map[string]interface{}{"title": "x"}, env.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/team-members", nil, collaborator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCatalogPublicListings(t *testing.T) {
	env := setupApp(t)

	for _, body := range []map[string]interface{}{
		{"name": "Tools", "is_home": true},
		{"name": "Garden"},
		{"name": "Archive", "is_active": false},
	} {
		resp := env.do(t, http.MethodPost, "/api/v1/category", body, env.admin)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var categories []models.Category
	resp := env.do(t, http.MethodGet, "/api/v1/category/public", nil, "")
	decode(t, resp, &categories)
	assert.Len(t, categories, 2)

	resp = env.do(t, http.MethodGet, "/api/v1/category/public?home=true", nil, "")
	decode(t, resp, &categories)
	require.Len(t, categories, 1)
	assert.Equal(t, "Tools", categories[0].Name)

	// A new category drops the cached public listings.
	resp = env.do(t, http.MethodPost, "/api/v1/category", map[string]interface{}{"name": "Kitchen"}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/v1/category/public", nil, "")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	decode(t, resp, &categories)
	assert.Len(t, categories, 3)

	resp = env.do(t, http.MethodGet, "/api/v1/category", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/v1/brand", map[string]interface{}{"name": "Acme"}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/v1/brand", map[string]interface{}{"name": "Acme"}, env.admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var brands []models.Brand
	resp = env.do(t, http.MethodGet, "/api/v1/brand/public", nil, "")
	decode(t, resp, &brands)
	require.Len(t, brands, 1)
	assert.Equal(t, int64(0), brands[0].ProductCount)
}

func TestStorefrontEndpoints(t *testing.T) {
	env := setupApp(t)

	resp := env.do(t, http.MethodGet, "/api/v1/store-configuration/public", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req := multipartRequest(t, http.MethodPatch, "/api/v1/store-configuration/admin", [][2]string{
		{"name", "Vitrine"},
		{"email", "contato@vitrine.com"},
		{"pix_enabled", "true"},
		{"shipping_deadline", "5"},
		{"social_medias", `[{"platform":"instagram","url":"https://instagram.com/vitrine"}]`},
	}, []formFile{{field: "logo", name: "logo.png", content: "png"}}, env.admin)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg models.StoreConfiguration
	decode(t, resp, &cfg)
	assert.Equal(t, "Vitrine", cfg.StoreName)
	assert.True(t, cfg.PixEnabled)
	require.NotNil(t, cfg.ShippingDeadline)
	assert.Equal(t, 5, *cfg.ShippingDeadline)
	assert.Contains(t, cfg.LogoURL, "uploads/store/")
	require.Len(t, cfg.SocialMedias, 1)

	resp = env.do(t, http.MethodGet, "/api/v1/store-configuration/public", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))

	resp = env.do(t, http.MethodPost, "/api/v1/social", map[string]string{
		"platform": "facebook", "url": "https://facebook.com/vitrine",
	}, env.admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var social models.SocialMedia
	decode(t, resp, &social)

	// Social changes drop the cached store configuration.
	resp = env.do(t, http.MethodGet, "/api/v1/store-configuration/public", nil, "")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	decode(t, resp, &cfg)
	assert.Len(t, cfg.SocialMedias, 2)

	resp = env.do(t, http.MethodDelete, "/api/v1/social/"+social.ID, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted map[string]string
	decode(t, resp, &deleted)
	assert.Equal(t, "Social media deleted successfully", deleted["message"])

	resp = env.do(t, http.MethodPost, "/api/v1/newsletter", map[string]string{"email": "ana@example.com", "whatsapp": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/v1/newsletter", map[string]string{"email": "ana@example.com"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = env.do(t, http.MethodPost, "/api/v1/newsletter", map[string]string{"email": "ana@example.com"}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	req = multipartRequest(t, http.MethodPost, "/api/v1/banner/admin", [][2]string{
		{"title", "Summer sale"},
		{"image_mobile", "https://cdn.example.com/mobile.png"},
	}, []formFile{{field: "desktop_image", name: "desktop.png", content: "png"}}, env.admin)
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var banner models.Banner
	decode(t, resp, &banner)
	assert.Contains(t, banner.ImageDesktop, "uploads/banners/")

	var banners []models.Banner
	resp = env.do(t, http.MethodGet, "/api/v1/banner/public", nil, "")
	decode(t, resp, &banners)
	assert.Len(t, banners, 1)

	resp = env.do(t, http.MethodDelete, "/api/v1/banner/admin/"+banner.ID, nil, env.admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/v1/banner/public", nil, "")
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	decode(t, resp, &banners)
	assert.Empty(t, banners)
}
