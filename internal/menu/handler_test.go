package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// memoryRepository keeps revisions in a slice; it doubles as the catalog
// source so a publish can be reloaded.
type memoryRepository struct {
	docs      [][]byte
	revisions []catalog.Revision
}

func (m *memoryRepository) Name() string { return "memory" }

func (m *memoryRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	if len(m.docs) == 0 {
		return nil, catalog.ErrNoPublishedCatalog
	}
	return catalog.Decode(bytes.NewReader(m.docs[len(m.docs)-1]))
}

func (m *memoryRepository) Publish(ctx context.Context, filename string, doc []byte) (*catalog.Revision, error) {
	rev := catalog.Revision{
		ID:          len(m.revisions) + 1,
		Version:     "v" + filename,
		Filename:    filename,
		PublishedAt: time.Now(),
	}
	m.docs = append(m.docs, doc)
	m.revisions = append([]catalog.Revision{rev}, m.revisions...)
	return &rev, nil
}

func (m *memoryRepository) Revisions(ctx context.Context, limit int) ([]catalog.Revision, error) {
	if limit < len(m.revisions) {
		return m.revisions[:limit], nil
	}
	return m.revisions, nil
}

type memoryStorage struct {
	objects map[string][]byte
	fail    bool
}

func (m *memoryStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func testDocument(t *testing.T) []byte {
	t.Helper()
	doc, err := os.ReadFile("../catalog/testdata/menu.json")
	require.NoError(t, err)
	return doc
}

func setupMenuRouter(t *testing.T) (*gin.Engine, *memoryRepository, *memoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &memoryRepository{}
	objects := &memoryStorage{objects: map[string][]byte{}}
	store := catalog.NewStore(repo)

	service := NewService(store, repo, objects, "catalog/menu.json")
	_, err := service.Publish(context.Background(), "menu.json", testDocument(t))
	require.NoError(t, err)
	_, err = service.Reload(context.Background())
	require.NoError(t, err)

	h := NewHandler(service, pricing.NewFormatter(pricing.KenyanShilling), "https://assets.example.com/", i18n.English)
	admin := NewAdminHandler(service)

	r := gin.New()
	r.GET("/menu", h.Categories)
	r.GET("/menu/:category/items", h.Items)
	r.POST("/admin/catalog", admin.Upload)
	r.POST("/admin/catalog/reload", admin.Reload)
	r.GET("/admin/catalog/revisions", admin.Revisions)
	return r, repo, objects
}

func getJSON(t *testing.T, r *gin.Engine, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestCategories_DocumentOrder(t *testing.T) {
	r, _, _ := setupMenuRouter(t)

	var resp struct {
		Language   string         `json:"language"`
		RTL        bool           `json:"rtl"`
		Categories []categoryView `json:"categories"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu?lang=ar", &resp))

	assert.True(t, resp.RTL)
	require.Len(t, resp.Categories, 3)
	assert.Equal(t, "salads", resp.Categories[0].ID)
	assert.Equal(t, "سلطات", resp.Categories[0].Name)
	assert.Equal(t, "gelato", resp.Categories[2].ID)
	assert.Equal(t, 4, resp.Categories[1].ItemCount)
}

func TestItems_SearchAndSort(t *testing.T) {
	r, _, _ := setupMenuRouter(t)

	var resp struct {
		Items []itemView `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu/grills/items?sort=high-low", &resp))
	require.Len(t, resp.Items, 4)
	assert.Equal(t, "Kofta Platter", resp.Items[0].Name)
	assert.Equal(t, "Ksh 1,500 - 2,600", resp.Items[0].PriceText)
	assert.Equal(t, "Mixed Grill", resp.Items[1].Name)
	assert.Len(t, resp.Items[1].Options, 2)
	assert.Equal(t, "Ksh 3,800", resp.Items[1].Options[1].PriceText)
	assert.Equal(t, "Chicken Shish", resp.Items[3].Name)

	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu/grills/items?q=LAMB", &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Lamb Kebab", resp.Items[0].Name)

	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu/grills/items?q=xyz-no-match", &resp))
	assert.Empty(t, resp.Items)

	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu/desserts/items", &resp))
	assert.Empty(t, resp.Items)
}

func TestItems_ImageURL(t *testing.T) {
	r, _, _ := setupMenuRouter(t)

	var resp struct {
		Items []itemView `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu/salads/items", &resp))
	assert.Equal(t, "https://assets.example.com/images/tahini.jpg", resp.Items[0].ImageURL)
	assert.Empty(t, resp.Items[1].ImageURL)
	assert.Equal(t, "Ksh 0", resp.Items[2].PriceText)
}

func TestImageURL(t *testing.T) {
	assert.Equal(t, "https://cdn/x.jpg", ImageURL("https://assets", "https://cdn/x.jpg"))
	assert.Equal(t, "/images/a.jpg", ImageURL("", "/images/a.jpg"))
	assert.Equal(t, "https://assets/images/a.jpg", ImageURL("https://assets/", "images/a.jpg"))
	assert.Empty(t, ImageURL("https://assets", ""))
}

func TestMenuUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	service := NewService(catalog.NewStore(&memoryRepository{}), nil, nil, "")
	h := NewHandler(service, pricing.NewFormatter(pricing.KenyanShilling), "", i18n.English)

	r := gin.New()
	r.GET("/menu", h.Categories)

	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, r, "/menu", nil))
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func upload(r *gin.Engine, filename string, doc []byte) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("menu_file", filename)
	_, _ = part.Write(doc)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/catalog", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_PublishesAndReloads(t *testing.T) {
	r, repo, objects := setupMenuRouter(t)

	doc := []byte(`{"drinks": {"name": "Drinks", "items": [{"name": "Mint Lemonade", "price": 350}]}}`)
	w := upload(r, "menu-v2.json", doc)
	require.Equal(t, http.StatusCreated, w.Code)

	var res PublishResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Categories)
	assert.Equal(t, 1, res.Items)
	assert.Equal(t, "https://cdn.example.com/catalog/menu.json", res.ObjectURL)
	assert.Equal(t, doc, objects.objects["catalog/menu.json"])
	assert.Len(t, repo.revisions, 2)

	var menu struct {
		Categories []categoryView `json:"categories"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, r, "/menu", &menu))
	require.Len(t, menu.Categories, 1)
	assert.Equal(t, "drinks", menu.Categories[0].ID)
}

func TestUpload_RejectsBadDocuments(t *testing.T) {
	r, repo, _ := setupMenuRouter(t)

	assert.Equal(t, http.StatusBadRequest, upload(r, "menu.pdf", []byte(`{}`)).Code)
	assert.Equal(t, http.StatusBadRequest, upload(r, "menu.json", []byte(`[1, 2]`)).Code)
	assert.Equal(t, http.StatusBadRequest, upload(r, "menu.json", []byte(`{}`)).Code)
	assert.Len(t, repo.revisions, 1, "nothing was published")
}

func TestUpload_RejectsOversizedDocument(t *testing.T) {
	r, repo, _ := setupMenuRouter(t)

	doc := []byte(`{"drinks": {"name": "Drinks", "items": [{"name": "Mint Lemonade", "price": 350}]}}`)
	padded := append(doc, bytes.Repeat([]byte(" "), maxDocumentSize)...)

	w := upload(r, "menu.json", padded)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds")
	assert.Len(t, repo.revisions, 1, "nothing was published")

	atLimit := append(doc, bytes.Repeat([]byte(" "), maxDocumentSize-len(doc))...)
	assert.Equal(t, http.StatusCreated, upload(r, "menu.json", atLimit).Code)
}

func TestPublish_StorageFailure(t *testing.T) {
	repo := &memoryRepository{}
	service := NewService(catalog.NewStore(repo), repo, &memoryStorage{fail: true}, "")

	_, err := service.Publish(context.Background(), "menu.json", testDocument(t))
	require.Error(t, err)
	assert.Empty(t, repo.revisions)
}

func TestPublish_NoDestination(t *testing.T) {
	service := NewService(catalog.NewStore(&memoryRepository{}), nil, nil, "")

	_, err := service.Publish(context.Background(), "menu.json", testDocument(t))
	assert.ErrorIs(t, err, ErrNoDestination)
}

func TestReloadAndRevisions(t *testing.T) {
	r, _, _ := setupMenuRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/catalog/reload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Revisions []catalog.Revision `json:"revisions"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, r, "/admin/catalog/revisions?limit=5", &resp))
	require.Len(t, resp.Revisions, 1)
	assert.Equal(t, "menu.json", resp.Revisions[0].Filename)
}
