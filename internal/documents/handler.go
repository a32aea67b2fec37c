package documents

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Yuzhifur/KnowledgeBaseQA/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	return &Handler{Svc: svc, MaxUploadSize: maxUploadSize}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("", h.list)
	rg.GET("/by-category", h.byCategory)
	rg.GET("/:id", h.get)
	rg.GET("/:id/preview", h.preview)
	rg.DELETE("/:id", h.delete)
}

// upload handles a multipart batch. Files are processed strictly
// sequentially; the first failure aborts the remainder naming the filename.
func (h *Handler) upload(c *gin.Context) {
	if h.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)
	}

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read multipart form", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required", nil)
		return
	}

	uploaded := make([]DocumentResponse, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "upload_failed",
				fmt.Sprintf("Failed to upload %s: unable to read file", fileHeader.Filename), nil)
			return
		}

		doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			switch {
			case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrInvalidInput):
				respond.Error(c, http.StatusBadRequest, "validation_error",
					fmt.Sprintf("Failed to upload %s: %v", fileHeader.Filename, err), nil)
			default:
				respond.Error(c, http.StatusInternalServerError, "upload_failed",
					fmt.Sprintf("Failed to upload %s: %v", fileHeader.Filename, err), nil)
			}
			return
		}

		uploaded = append(uploaded, toResponse(doc))
	}

	respond.OK(c, uploaded)
}

func (h *Handler) list(c *gin.Context) {
	var fileType FileType
	if raw := c.Query("file_type"); raw != "" {
		parsed, err := ParseFileType(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file_type", nil)
			return
		}
		fileType = parsed
	}

	docs, err := h.Svc.List(c.Request.Context(), fileType)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", err.Error())
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) byCategory(c *gin.Context) {
	categories, err := h.Svc.ByCategory(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", err.Error())
		return
	}

	resp := make(map[FileType][]DocumentResponse, len(categories))
	for ft, docs := range categories {
		out := make([]DocumentResponse, 0, len(docs))
		for _, doc := range docs {
			out = append(out, toResponse(doc))
		}
		resp[ft] = out
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondDocumentError(c, err, "failed to fetch document")
		return
	}
	respond.OK(c, toResponse(doc))
}

func (h *Handler) preview(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	doc, fileURL, err := h.Svc.Preview(c.Request.Context(), id)
	if err != nil {
		respondDocumentError(c, err, "failed to fetch document preview")
		return
	}
	respond.OK(c, toPreviewResponse(doc, fileURL))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := documentID(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		respondDocumentError(c, err, "failed to delete document")
		return
	}
	respond.OK(c, gin.H{"message": "Document deleted successfully"})
}

func documentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document ID format", nil)
		return "", false
	}
	return id, true
}

func respondDocumentError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, err.Error())
}
