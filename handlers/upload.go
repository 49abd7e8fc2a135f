package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 10 << 20 // 10MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type UploadController struct {
	dir     string
	baseURL string
}

// NewUploadController stores uploads under UPLOAD_DIR, addressed as
// <bucket>/<name>. Files are served back at PUBLIC_BASE_URL/uploads/.
func NewUploadController() *UploadController {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &UploadController{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (uc *UploadController) Dir() string {
	return uc.dir
}

// Upload writes one image and returns its public URL. The write goes
// through a temp file and a rename, so a given URL either serves the whole
// image or does not exist.
func (uc *UploadController) Upload(c echo.Context) error {
	bucket := c.FormValue("bucket")
	if bucket == "" {
		bucket = "property-images"
	}
	if strings.ContainsAny(bucket, "/\\.") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid bucket name"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "File is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "File exceeds the 10MB limit"})
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported file type"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read upload"})
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	bucketDir := filepath.Join(uc.dir, bucket)
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
	}

	tmp, err := os.CreateTemp(bucketDir, ".upload-*")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
	}
	if err := os.Rename(tmp.Name(), filepath.Join(bucketDir, name)); err != nil {
		os.Remove(tmp.Name())
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store upload"})
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"url": fmt.Sprintf("%s/uploads/%s/%s", uc.baseURL, bucket, name),
	})
}
