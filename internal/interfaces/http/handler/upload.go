package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bergizi/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const defaultMaxUploadSize = 5 << 20

// upload is a multipart file with its detected content type
type upload struct {
	file        multipart.File
	body        io.Reader
	contentType string
}

func (u *upload) Close() error {
	return u.file.Close()
}

// formFile opens a multipart file field. When the client did not send a
// usable content type, it is sniffed from the first 512 bytes.
func (h *BaseHandler) formFile(c *gin.Context, field string, maxSize int64, required bool) (*upload, bool) {
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		if !required && errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		h.BadRequest(c, field+" is required")
		return nil, false
	}
	if header.Size > maxSize {
		file.Close()
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge,
			fmt.Sprintf("%s exceeds maximum size of %d bytes", field, maxSize))
		return nil, false
	}

	reader := bufio.NewReaderSize(file, 512)
	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		head, _ := reader.Peek(512)
		contentType = http.DetectContentType(head)
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	return &upload{file: file, body: reader, contentType: contentType}, true
}
