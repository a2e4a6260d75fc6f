package notifications

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wareline/wareline/internal/platform/httpx"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
)

type Handler struct {
	logger *slog.Logger
	repo   Repository
	rbac   rbac.Middleware
}

func NewHandler(logger *slog.Logger, repo Repository, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, repo: repo, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermNotificationView))
		r.Get("/", h.list)
		r.Get("/unread-count", h.unreadCount)
		r.Post("/{id}/read", h.markRead)
	})
}

func ownerID(r *http.Request) (uuid.UUID, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	id, err := uuid.Parse(sess.User())
	if err != nil {
		return uuid.Nil, shared.ErrUnauthorized
	}
	return id, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit := 20
	list, total, err := h.repo.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("list notifications failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"notifications": list,
		"pagination":    shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	count, err := h.repo.UnreadCount(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.repo.MarkRead(r.Context(), id, userID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}
