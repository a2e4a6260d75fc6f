package export

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wareline/wareline/internal/inventory"
	"github.com/wareline/wareline/internal/platform/httpx"
	"github.com/wareline/wareline/internal/preparation"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	logger   *slog.Logger
	exporter *Exporter
	rbac     rbac.Middleware
}

func NewHandler(logger *slog.Logger, exporter *Exporter, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, exporter: exporter, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskExport))
		r.Get("/preparation-tasks", h.tasks)
		r.Get("/inventory-lots", h.lots)
	})
}

func (h *Handler) tasks(w http.ResponseWriter, r *http.Request) {
	filters := preparation.ListFilters{Status: preparation.Status(r.URL.Query().Get("status"))}
	if filters.Status != "" && !filters.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	f, err := h.exporter.Tasks(r.Context(), filters)
	if err != nil {
		h.logger.Error("task export failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="preparation-tasks-`+time.Now().Format("20060102")+`.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("task export write failed", slog.Any("error", err))
	}
}

func (h *Handler) lots(w http.ResponseWriter, r *http.Request) {
	filters := inventory.ListFilters{}
	if raw := r.URL.Query().Get("department_id"); raw != "" {
		id, err := shared.ParseID(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.DepartmentID = &id
	}
	f, err := h.exporter.Lots(r.Context(), filters)
	if err != nil {
		h.logger.Error("lot export failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="inventory-lots-`+time.Now().Format("20060102")+`.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error("lot export write failed", slog.Any("error", err))
	}
}
