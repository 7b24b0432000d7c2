package cart

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/catalog"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/middleware"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

// Sessions gives exclusive access to the ledger of a session, recreating
// it from cfg when it no longer exists.
type Sessions interface {
	Resume(id string, cfg Config, fn func(*Ledger) error) error
}

type Handler struct {
	sessions  Sessions
	catalog   *catalog.Store
	formatter *pricing.Formatter
}

func NewHandler(sessions Sessions, store *catalog.Store, formatter *pricing.Formatter) *Handler {
	return &Handler{sessions: sessions, catalog: store, formatter: formatter}
}

// SessionFrom reads the session id and ledger config placed on the
// request by the auth middleware.
func SessionFrom(c *gin.Context) (string, Config) {
	return c.GetString(middleware.KeyUserID), Config{
		OrderingEnabled: c.GetBool(middleware.KeyOrdering),
		Language:        i18n.Parse(c.GetString(middleware.KeyLanguage)),
	}
}

// apply runs fn on the caller's ledger and answers with the resulting cart.
func (h *Handler) apply(c *gin.Context, fn func(*Ledger)) {
	id, cfg := SessionFrom(c)

	var view View
	err := h.sessions.Resume(id, cfg, func(l *Ledger) error {
		if fn != nil {
			fn(l)
		}
		view = NewView(l, h.formatter)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", id).Msg("cart unavailable")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session unavailable"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// --------------------------------------------------
// GET /cart
// --------------------------------------------------
func (h *Handler) Get(c *gin.Context) {
	h.apply(c, nil)
}

type addRequest struct {
	Category string `json:"category" binding:"required"`
	Item     string `json:"item" binding:"required"`
	Option   string `json:"option"`
	Quantity int    `json:"quantity"`
}

// --------------------------------------------------
// POST /cart/items
// --------------------------------------------------
// Unknown items are absorbed: the cart comes back unchanged. An option the
// item does not offer falls back to the item's own price.
func (h *Handler) Add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category and item are required"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	menu, err := h.catalog.Current()
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "menu not available"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "menu not available"})
		return
	}

	item, ok := menu.Find(req.Category, req.Item)
	if !ok {
		log.Debug().Str("category", req.Category).Str("item", req.Item).Msg("add of unknown item ignored")
	}

	var option *catalog.ItemOption
	if req.Option != "" {
		option = &catalog.ItemOption{Name: req.Option}
	}

	h.apply(c, func(l *Ledger) {
		if item != nil {
			l.Add(item, req.Quantity, option)
		}
	})
}

type updateRequest struct {
	Quantity *int `json:"quantity"`
	Delta    int  `json:"delta"`
}

// --------------------------------------------------
// PATCH /cart/items/:lineId
// --------------------------------------------------
// Either sets {"quantity": n} (n <= 0 removes the line) or steps by
// {"delta": 1} / {"delta": -1}.
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	lineID := c.Param("lineId")

	switch {
	case req.Quantity != nil:
		h.apply(c, func(l *Ledger) { l.UpdateQuantity(lineID, *req.Quantity) })
	case req.Delta == 1:
		h.apply(c, func(l *Ledger) { l.Increment(lineID) })
	case req.Delta == -1:
		h.apply(c, func(l *Ledger) { l.Decrement(lineID) })
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity or delta of 1 or -1 is required"})
	}
}

// --------------------------------------------------
// DELETE /cart/items/:lineId
// --------------------------------------------------
func (h *Handler) Remove(c *gin.Context) {
	lineID := c.Param("lineId")
	h.apply(c, func(l *Ledger) { l.Remove(lineID) })
}

// --------------------------------------------------
// DELETE /cart
// --------------------------------------------------
func (h *Handler) Clear(c *gin.Context) {
	h.apply(c, func(l *Ledger) { l.Clear() })
}

// --------------------------------------------------
// PUT /cart/notes
// --------------------------------------------------
func (h *Handler) SetNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.apply(c, func(l *Ledger) { l.SetNotes(req.Notes) })
}

// --------------------------------------------------
// PUT /cart/language
// --------------------------------------------------
func (h *Handler) SetLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language is required"})
		return
	}
	h.apply(c, func(l *Ledger) { l.SetLanguage(i18n.Parse(req.Language)) })
}
