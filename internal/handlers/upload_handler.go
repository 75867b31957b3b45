package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/logger"
	"github.com/colonyconnect/colony-api/internal/response"
	"github.com/colonyconnect/colony-api/internal/storage/objectstore"
)

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// UploadHandler accepts image uploads for complaints and events
type UploadHandler struct {
	store *objectstore.Store
	cfg   *config.Config
	log   *log.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(store *objectstore.Store, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		store: store,
		cfg:   cfg,
		log:   logger.Handler("upload"),
	}
}

// UploadImage handles POST /api/uploads
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	if fileHeader.Size > h.cfg.Upload.MaxFileSize {
		response.BadRequest(c, fmt.Sprintf("file too large, maximum size is %d bytes", h.cfg.Upload.MaxFileSize))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedImageExtensions[ext]
	if !ok {
		response.BadRequest(c, "unsupported file type, allowed: jpg, jpeg, png, gif, webp")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
		response.Internal(c, "Failed to process upload")
		return
	}
	defer file.Close()

	objectName := fmt.Sprintf("%s/%s%s", time.Now().Format("2006-01"), uuid.New().String(), ext)

	url, err := h.store.Put(c.Request.Context(), objectName, file, fileHeader.Size, contentType)
	if err != nil {
		h.log.Error("failed to store upload", "object", objectName, "error", err)
		response.Internal(c, "Failed to store upload")
		return
	}

	h.log.Info("image uploaded", "object", objectName, "size", fileHeader.Size)
	response.Success(c, http.StatusCreated, "Image uploaded successfully", gin.H{
		"url": url,
	})
}
