package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"vidtube/domain/apperror"
	"vidtube/infrastructure/upload"
)

type IFileBuffer interface {
	Save(header *multipart.FileHeader) (*upload.File, error)
}

// saveFiles buffers the named multipart parts locally. Absent parts map to
// nil; on any failure the parts already buffered are released.
func saveFiles(ctx *gin.Context, buffer IFileBuffer, fields ...string) (map[string]*upload.File, error) {
	files := make(map[string]*upload.File, len(fields))
	fail := func(err error) (map[string]*upload.File, error) {
		for _, f := range files {
			upload.ReleaseAll(f)
		}
		return nil, err
	}

	for _, field := range fields {
		header, err := ctx.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			continue
		}
		if err != nil {
			return fail(apperror.Wrap(apperror.KindInput, "invalid multipart form", err))
		}
		file, err := buffer.Save(header)
		if errors.Is(err, upload.ErrTooLarge) {
			return fail(apperror.Input(field + " exceeds the upload size limit"))
		}
		if err != nil {
			return fail(apperror.Wrap(apperror.KindInternal, "could not buffer "+field, err))
		}
		files[field] = file
	}
	return files, nil
}
