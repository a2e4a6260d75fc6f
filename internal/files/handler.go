package files

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wareline/wareline/internal/platform/httpx"
	"github.com/wareline/wareline/internal/platform/storage"
	"github.com/wareline/wareline/internal/rbac"
	"github.com/wareline/wareline/internal/shared"
)

// maxEvidenceSize caps evidence uploads at 10 MiB.
const maxEvidenceSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Handler accepts evidence images and returns their object-store URL. The
// preparation module stores only the URL string.
type Handler struct {
	logger *slog.Logger
	store  *storage.ObjectStore
	rbac   rbac.Middleware
}

func NewHandler(logger *slog.Logger, store *storage.ObjectStore, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, store: store, rbac: rbac}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPrepTaskPick))
		r.Post("/evidence", h.uploadEvidence)
	})
}

func (h *Handler) uploadEvidence(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEvidenceSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "only jpeg, png and webp images are accepted")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "could not read upload")
		return
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	key := "evidence/" + time.Now().Format("2006/01/02") + "/" + shared.NewID().String() + ext
	url, err := h.store.Upload(r.Context(), key, data, contentType)
	if err != nil {
		h.logger.Error("evidence upload failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"url": url})
}
