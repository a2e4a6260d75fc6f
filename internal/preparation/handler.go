package preparation

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
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	audit   *shared.AuditLogger
}

func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, audit *shared.AuditLogger) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, audit: audit}
}

// recordAudit writes an audit entry for workflow-changing actions. Best
// effort; the primary operation has already succeeded.
func (h *Handler) recordAudit(r *http.Request, action string, taskID uuid.UUID, meta map[string]any) {
	if h.audit == nil {
		return
	}
	actor := ""
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		actor = sess.User()
	}
	err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "preparation_task",
		EntityID: taskID.String(),
		Meta:     meta,
	})
	if err != nil {
		h.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPrepTaskView))
		r.Get("/", h.list)
		r.Get("/{id}", h.show)
		r.Get("/aggregate/{orderLineId}", h.aggregate)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskEdit))
		r.Put("/{id}", h.update)
		r.Post("/{id}/status", h.setStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskPick))
		r.Put("/{id}/items/{itemId}", h.updateItem)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskReview))
		r.Post("/{id}/review", h.review)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskCancel))
		r.Post("/{id}/cancel", h.cancel)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskDelete))
		r.Delete("/{id}", h.remove)
	})
}

// callerID reads the authenticated user from the session. Sessions upstream
// of rbac guarantee presence; the parse guards against stale cookies.
func callerID(r *http.Request) (uuid.UUID, error) {
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
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	filters := ListFilters{Page: page, Limit: 20, Status: Status(q.Get("status"))}
	if raw := q.Get("order_id"); raw != "" {
		id, err := shared.ParseID(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.OrderID = &id
	}
	if raw := q.Get("packer_id"); raw != "" {
		id, err := shared.ParseID(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.PackerID = &id
	}
	tasks, total, err := h.service.ListTasks(r.Context(), filters)
	if err != nil {
		h.logger.Error("list tasks failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tasks":      tasks,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request) {
	lineID, err := shared.ParseID(chi.URLParam(r, "orderLineId"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sum, err := h.service.AggregatedPostQty(r.Context(), lineID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orderLineId": lineID, "totalPostQty": sum})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	supervisorID, err := callerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	task, err := h.service.CreateTask(r.Context(), supervisorID, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.service.UpdateTask(r.Context(), id, in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	taskID, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	itemID, err := shared.ParseID(chi.URLParam(r, "itemId"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in PackerItemInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.service.UpdateItemByPacker(r.Context(), caller, taskID, itemID, in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in StatusInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.service.SetStatus(r.Context(), id, in.Status); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": in.Status})
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in ReviewInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.service.SetReview(r.Context(), id, in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "review", id, map[string]any{"result": in.Result, "reason": in.Reason})
	httpx.JSON(w, http.StatusOK, map[string]string{"review": in.Result})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Cancel(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "cancel", id, nil)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.recordAudit(r, "delete", id, nil)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
