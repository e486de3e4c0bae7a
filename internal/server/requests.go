package server

import (
	"github.com/go-playground/validator/v10"
)

// MaxUploadBytes bounds the size of a single resume upload.
const MaxUploadBytes = 10 << 20 // 10 MiB

// UploadRequest carries the metadata of a multipart resume upload.
type UploadRequest struct {
	Filename string `validate:"required,max=255"`
	MimeType string `validate:"max=100"`
	FileSize int64  `validate:"required,min=1,max=10485760"`
}

// Validate validates the UploadRequest using the validator.
func (r *UploadRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
