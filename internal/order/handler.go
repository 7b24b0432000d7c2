package order

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/pricing"
)

var ErrEmptyCart = errors.New("cart is empty")

// HandlerConfig carries the presentation settings of composed messages.
type HandlerConfig struct {
	Brand    string
	Host     string
	Location *time.Location
}

type Handler struct {
	sessions  cart.Sessions
	branches  *Directory
	formatter *pricing.Formatter
	cfg       HandlerConfig
	now       func() time.Time
}

func NewHandler(sessions cart.Sessions, branches *Directory, formatter *pricing.Formatter, cfg HandlerConfig) *Handler {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Handler{
		sessions:  sessions,
		branches:  branches,
		formatter: formatter,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (h *Handler) place(b Branch, lang i18n.Language) string {
	name := b.DisplayName(lang)
	switch {
	case h.cfg.Brand == "":
		return name
	case name == "":
		return h.cfg.Brand
	default:
		return h.cfg.Brand + " - " + name
	}
}

type branchView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WhatsApp      string `json:"whatsapp"`
	DirectionsURL string `json:"directions_url,omitempty"`
	Default       bool   `json:"default"`
}

// --------------------------------------------------
// GET /branches?lang=
// --------------------------------------------------
func (h *Handler) Branches(c *gin.Context) {
	lang := i18n.Parse(c.Query("lang"))
	def := h.branches.Default()

	out := make([]branchView, 0)
	for _, b := range h.branches.All() {
		out = append(out, branchView{
			ID:            b.ID,
			Name:          b.DisplayName(lang),
			WhatsApp:      b.WhatsApp,
			DirectionsURL: b.DirectionsURL,
			Default:       b.ID == def.ID,
		})
	}

	c.JSON(http.StatusOK, out)
}

// --------------------------------------------------
// GET /branches/:id/whatsapp?lang=
// --------------------------------------------------
// Link to a chat with the branch, pre-filled with a greeting only.
func (h *Handler) QuickOrder(c *gin.Context) {
	branch, err := h.branches.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	lang := i18n.Parse(c.Query("lang"))
	message := QuickOrderMessage(h.place(branch, lang), lang)

	c.JSON(http.StatusOK, gin.H{
		"branch":  branch.ID,
		"message": message,
		"link":    DeepLink(h.cfg.Host, branch.WhatsApp, message),
	})
}

type checkoutRequest struct {
	Branch string `json:"branch"`
}

type checkoutResponse struct {
	Branch  string `json:"branch"`
	Message string `json:"message"`
	Encoded string `json:"encoded"`
	Link    string `json:"link"`
}

// --------------------------------------------------
// POST /cart/checkout
// --------------------------------------------------
// Composes the order message for the caller's cart. The cart is left
// untouched; the visitor may come back and send it again.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	branch, err := h.branches.Get(req.Branch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, cfg := cart.SessionFrom(c)

	var message string
	err = h.sessions.Resume(id, cfg, func(l *cart.Ledger) error {
		if l.IsEmpty() {
			return ErrEmptyCart
		}
		lang := l.Language()
		message = Compose(Request{
			Lines:     l.Lines(),
			Notes:     l.Notes(),
			Language:  lang,
			Formatter: h.formatter,
			Place:     h.place(branch, lang),
			Time:      h.now().In(h.cfg.Location),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("session_id", id).Msg("checkout failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session unavailable"})
		return
	}

	log.Info().Str("session_id", id).Str("branch", branch.ID).Msg("order composed")

	c.JSON(http.StatusOK, checkoutResponse{
		Branch:  branch.ID,
		Message: message,
		Encoded: Encode(message),
		Link:    DeepLink(h.cfg.Host, branch.WhatsApp, message),
	})
}
