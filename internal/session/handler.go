package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/el-modasser/elkababgy/internal/auth"
	"github.com/el-modasser/elkababgy/internal/cart"
	"github.com/el-modasser/elkababgy/internal/i18n"
	"github.com/el-modasser/elkababgy/internal/middleware"
)

type Handler struct {
	store       *Store
	tokens      *auth.Tokens
	defaultLang i18n.Language
}

func NewHandler(store *Store, tokens *auth.Tokens, defaultLang i18n.Language) *Handler {
	if !defaultLang.Valid() {
		defaultLang = i18n.Default
	}
	return &Handler{store: store, tokens: tokens, defaultLang: defaultLang}
}

type startResponse struct {
	Token     string        `json:"token"`
	SessionID string        `json:"session_id"`
	Ordering  bool          `json:"ordering"`
	Language  i18n.Language `json:"language"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// --------------------------------------------------
// POST /sessions?order=true&lang=ar
// --------------------------------------------------
// Only order=true opens an ordering session; anything else is browse-only.
func (h *Handler) Start(c *gin.Context) {
	ordering := c.Query("order") == "true"

	lang := h.defaultLang
	if raw := c.Query("lang"); raw != "" {
		lang = i18n.Parse(raw)
	}

	id := h.store.Create(cart.Config{OrderingEnabled: ordering, Language: lang})

	token, expires, err := h.tokens.Generate(id, auth.Claims{
		Role:     auth.RoleVisitor,
		Ordering: ordering,
		Language: lang.String(),
	})
	if err != nil {
		h.store.Delete(id)
		log.Error().Err(err).Msg("failed to sign session token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}

	log.Info().
		Str("session_id", id).
		Bool("ordering", ordering).
		Str("lang", lang.String()).
		Msg("session started")

	c.JSON(http.StatusCreated, startResponse{
		Token:     token,
		SessionID: id,
		Ordering:  ordering,
		Language:  lang,
		ExpiresAt: expires,
	})
}

// --------------------------------------------------
// DELETE /sessions
// --------------------------------------------------
func (h *Handler) End(c *gin.Context) {
	id := c.GetString(middleware.KeyUserID)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.store.Delete(id)
	c.Status(http.StatusNoContent)
}
