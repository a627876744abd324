package handlers

import (
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"onchain-re-lending/internal/errors"
	"onchain-re-lending/internal/middleware"
	"onchain-re-lending/internal/models"
)

func currentSessionID(c *gin.Context) string {
	return c.GetString(middleware.ContextSessionID)
}

// readUpload loads a multipart file into memory. A missing field yields (nil, nil);
// a body that is not a readable multipart form is a 400. Files over maxBytes are
// rejected before being read in full.
func readUpload(c *gin.Context, field string, maxBytes int64) (*models.UploadedFile, error) {
	header, err := c.FormFile(field)
	if stderrors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.InvalidParameters("invalid multipart upload for "+field, err)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, errors.NewAppError(fmt.Sprintf("file %s is %d bytes, limit %d", header.Filename, header.Size, maxBytes),
			errors.MsgKYCFileTooLarge, errors.ErrCodeInvalidParameters, http.StatusBadRequest, nil)
	}
	data, err := readAll(header)
	if err != nil {
		return nil, errors.InvalidParameters("failed to read upload "+field, err)
	}
	return &models.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func readAll(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
