package menu

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// maxDocumentSize bounds an uploaded catalog document.
const maxDocumentSize = 4 << 20

type Handler struct {
	service     *Service
	formatter   *pricing.Formatter
	assetBase   string
	defaultLang i18n.Language
}

type AdminHandler struct {
	service *Service
}

func NewHandler(service *Service, formatter *pricing.Formatter, assetBase string, defaultLang i18n.Language) *Handler {
	return &Handler{
		service:     service,
		formatter:   formatter,
		assetBase:   strings.TrimRight(assetBase, "/"),
		defaultLang: defaultLang,
	}
}

func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *Handler) language(c *gin.Context) i18n.Language {
	if raw := c.Query("lang"); raw != "" {
		return i18n.Parse(raw)
	}
	if h.defaultLang.Valid() {
		return h.defaultLang
	}
	return i18n.Default
}

// ImageURL resolves a catalog image reference against base. Absolute URLs
// are kept as they are.
func ImageURL(base, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") || base == "" {
		return image
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(image, "/")
}

type categoryView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

type optionView struct {
	Name        string      `json:"name"`
	DisplayName string      `json:"display_name"`
	Price       json.Number `json:"price"`
	PriceText   string      `json:"price_text"`
}

type itemView struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Description string        `json:"description,omitempty"`
	Price       []json.Number `json:"price"`
	PriceText   string        `json:"price_text"`
	ImageURL    string        `json:"image_url,omitempty"`
	Options     []optionView  `json:"options"`
}

func (h *Handler) itemView(item catalog.MenuItem, lang i18n.Language) itemView {
	v := itemView{
		Name:        item.Name,
		DisplayName: item.DisplayName(lang),
		Description: item.DisplayDescription(lang),
		Price:       numbers(item.Price.Amounts()),
		PriceText:   h.formatter.FormatPrice(item.Price, lang),
		ImageURL:    ImageURL(h.assetBase, item.Image),
		Options:     make([]optionView, 0, len(item.Options)),
	}
	for _, opt := range item.Options {
		v.Options = append(v.Options, optionView{
			Name:        opt.Name,
			DisplayName: opt.DisplayName(lang),
			Price:       json.Number(opt.Price.String()),
			PriceText:   h.formatter.FormatAmount(opt.Price, lang),
		})
	}
	return v
}

func numbers(amounts []decimal.Decimal) []json.Number {
	out := make([]json.Number, len(amounts))
	for i, a := range amounts {
		out[i] = json.Number(a.String())
	}
	return out
}

func (h *Handler) current(c *gin.Context) (*catalog.Catalog, bool) {
	menu, err := h.service.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu not available"})
		return nil, false
	}
	return menu, true
}

// --------------------------------------------------
// GET /menu?lang=
// --------------------------------------------------
func (h *Handler) Categories(c *gin.Context) {
	menu, ok := h.current(c)
	if !ok {
		return
	}
	lang := h.language(c)

	categories := make([]categoryView, 0)
	for _, cat := range menu.Categories() {
		categories = append(categories, categoryView{
			ID:        cat.ID,
			Name:      cat.DisplayName(lang),
			ItemCount: len(cat.Items),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"language":   lang,
		"rtl":        lang.RTL(),
		"currency":   h.formatter.Currency().Symbol(lang),
		"categories": categories,
	})
}

// --------------------------------------------------
// GET /menu/:category/items?q=&sort=&lang=
// --------------------------------------------------
// An unknown category or a search without matches is an empty list.
func (h *Handler) Items(c *gin.Context) {
	menu, ok := h.current(c)
	if !ok {
		return
	}
	lang := h.language(c)

	items := menu.Items(catalog.Query{
		Category: c.Param("category"),
		Search:   c.Query("q"),
		Sort:     catalog.ParseSortMode(c.Query("sort")),
		Language: lang,
	})

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, h.itemView(item, lang))
	}

	c.JSON(http.StatusOK, gin.H{
		"category": c.Param("category"),
		"items":    views,
	})
}

// --------------------------------------------------
// Admin: reload the active catalog
// --------------------------------------------------
func (h *AdminHandler) Reload(c *gin.Context) {
	menu, err := h.service.Reload(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("catalog reload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": len(menu.Categories()),
		"loaded_at":  h.service.LoadedAt(),
	})
}

// --------------------------------------------------
// Admin: publish a new catalog document
// --------------------------------------------------
// Accepts multipart menu_file. The new document is published, then loaded.
func (h *AdminHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("menu_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_file is required"})
		return
	}
	defer file.Close()

	if err := ValidateFileExtension(header.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read menu_file"})
		return
	}
	if len(doc) > maxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "menu_file exceeds 4MB"})
		return
	}

	res, err := h.service.Publish(c.Request.Context(), header.Filename, doc)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidDocument), errors.Is(err, catalog.ErrEmptyCatalog):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoDestination):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("filename", header.Filename).Msg("catalog publish failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		}
		return
	}

	if _, err := h.service.Reload(c.Request.Context()); err != nil {
		log.Warn().Err(err).Msg("published catalog not loaded yet")
	}

	c.JSON(http.StatusCreated, res)
}

// --------------------------------------------------
// Admin: list published revisions
// --------------------------------------------------
func (h *AdminHandler) Revisions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	revisions, err := h.service.Revisions(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list catalog revisions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list revisions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revisions": revisions})
}
