package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/3pWEBQUERY/TGND/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	media    storage.BlobStore
	profiles storage.BlobStore
}

// NewUploadHandler takes the post-media store (S3 when configured) and the
// profile-image store used during registration.
func NewUploadHandler(media, profiles storage.BlobStore) *UploadHandler {
	return &UploadHandler{media: media, profiles: profiles}
}

const (
	maxMediaSize   = 50 << 20
	maxProfileSize = 5 << 20
)

// Media handles post attachments: one multipart "file", image or video,
// up to 50MB.
func (h *UploadHandler) Media(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "No file provided")
		return
	}
	if header.Size > maxMediaSize {
		Error(c, http.StatusBadRequest, "File exceeds the 50MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	var kind string
	switch {
	case strings.HasPrefix(contentType, "image/"):
		kind = "image"
	case strings.HasPrefix(contentType, "video/"):
		kind = "video"
	default:
		Error(c, http.StatusBadRequest, "Only image and video files are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		ServerError(c, err)
		return
	}
	defer file.Close()

	key := uuid.New().String() + filepath.Ext(header.Filename)
	url, err := h.media.Put(key, file, contentType)
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "type": kind})
}

// ProfileImage handles the registration-time avatar upload. It runs before an
// account exists, so it is the one unauthenticated upload route; the size cap
// is tighter for that reason.
func (h *UploadHandler) ProfileImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "No file provided")
		return
	}
	if header.Size > maxProfileSize {
		Error(c, http.StatusBadRequest, "File exceeds the 5MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		Error(c, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	file, err := header.Open()
	if err != nil {
		ServerError(c, err)
		return
	}
	defer file.Close()

	key := uuid.New().String() + filepath.Ext(header.Filename)
	url, err := h.profiles.Put(key, file, contentType)
	if err != nil {
		ServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
