package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/service"
)

// multipart 头部与边界的额外余量。
const multipartOverhead = 1 << 20

// UploadImage 处理后台图片上传（multipart 字段 image）。
func (a *API) UploadImage(c *gin.Context) {
	maxBytes := a.uploads.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, fileTooLargeMessage(maxBytes))
			return
		}
		respondError(c, http.StatusBadRequest, "No file was uploaded")
		return
	}

	image, err := a.uploads.Save(header)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFile):
			respondError(c, http.StatusBadRequest, "No file was uploaded")
		case errors.Is(err, service.ErrFileTooLarge):
			respondError(c, http.StatusBadRequest, fileTooLargeMessage(maxBytes))
		case errors.Is(err, service.ErrInvalidFileType), errors.Is(err, service.ErrInvalidImage):
			respondError(c, http.StatusBadRequest, "Invalid file type. Allowed types: JPG, PNG, GIF, WEBP")
		case errors.Is(err, service.ErrInvalidExtension):
			respondError(c, http.StatusBadRequest, "Invalid file extension")
		default:
			respondServerError(c, err, "Failed to upload image")
		}
		return
	}

	a.logger.Info("image uploaded", "filename", image.Filename, "size", image.Size, "admin", adminName(c))
	respondSuccess(c, http.StatusCreated, "Image uploaded successfully", image)
}

// DeleteImage 删除上传目录中的单个文件，拒绝任何带目录成分的名称。
func (a *API) DeleteImage(c *gin.Context) {
	filename := strings.TrimPrefix(c.Param("filename"), "/")

	err := a.uploads.Delete(filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFilenameRequired):
			respondError(c, http.StatusBadRequest, "Filename is required")
		case errors.Is(err, service.ErrPathTraversal):
			a.logger.Warn("upload delete rejected", "filename", filename, "ip", c.ClientIP(), "admin", adminName(c))
			respondError(c, http.StatusForbidden, "Invalid file path")
		case errors.Is(err, service.ErrUploadNotFound):
			respondError(c, http.StatusNotFound, "File not found")
		default:
			respondServerError(c, err, "Failed to delete image")
		}
		return
	}

	a.logger.Info("image deleted", "filename", filename, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Image deleted successfully", nil)
}

func fileTooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File size exceeds maximum allowed size of %gMB", float64(maxBytes)/(1<<20))
}
