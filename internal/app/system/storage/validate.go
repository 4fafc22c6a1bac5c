// internal/app/system/storage/validate.go
package storage

import "fmt"

// Upload limits. Only the declared MIME type and byte size are checked;
// file contents are never inspected here.
const (
	MaxDocumentSize = 10 << 20 // 10 MB
	MaxImageSize    = 5 << 20  // 5 MB
)

var documentTypes = map[string]string{
	"application/pdf": "PDF",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "DOCX",
}

var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ValidateDocument checks a report upload's declared content type and
// size, returning the canonical file-type tag ("PDF" or "DOCX").
func ValidateDocument(contentType string, size int64) (string, error) {
	tag, ok := documentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("only PDF and DOCX files are allowed")
	}
	if size > MaxDocumentSize {
		return "", fmt.Errorf("file is too large (max. 10MB)")
	}
	return tag, nil
}

// ValidateImage checks an avatar upload's declared content type and size.
func ValidateImage(contentType string, size int64) error {
	if _, ok := imageTypes[contentType]; !ok {
		return fmt.Errorf("only image files (JPEG, PNG, WebP, GIF) are allowed")
	}
	if size > MaxImageSize {
		return fmt.Errorf("image is too large (max. 5MB)")
	}
	return nil
}
