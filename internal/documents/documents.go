// ABOUTME: Resume document types accepted for upload and content checks
// ABOUTME: PDF and DOCX files are opened with real parsers before they are stored

package documents

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedType is returned for extensions outside the accepted set.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrInvalidContent is returned when a file does not parse as its extension claims.
	ErrInvalidContent = errors.New("file content does not match its type")
	// ErrTooLarge is returned when a file exceeds the configured limit.
	ErrTooLarge = errors.New("file too large")
	// ErrEmpty is returned for zero-byte uploads.
	ErrEmpty = errors.New("file is empty")
)

var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
}

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipMagic = []byte("PK\x03\x04")
)

// Extensions returns the accepted extensions, sorted, with leading dots.
func Extensions() []string {
	exts := make([]string, 0, len(mimeTypes))
	for ext := range mimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func ext(fileName string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
}

// Accepted reports whether the file name has an accepted extension.
func Accepted(fileName string) bool {
	_, ok := mimeTypes[ext(fileName)]
	return ok
}

// MimeType returns the MIME type for an accepted file name, or "".
func MimeType(fileName string) string {
	return mimeTypes[ext(fileName)]
}

// Title derives a display title from a file name.
func Title(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." {
		return base
	}
	return title
}

// Verify checks the name, size and content of an upload.
// A maxBytes of zero or less disables the size check.
func Verify(fileName string, data []byte, maxBytes int64) error {
	if !Accepted(fileName) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(fileName))
	}
	if len(data) == 0 {
		return ErrEmpty
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrTooLarge, len(data), maxBytes)
	}

	switch ext(fileName) {
	case ".pdf":
		return verifyPDF(data)
	case ".docx":
		return verifyDOCX(data)
	case ".doc":
		if !bytes.HasPrefix(data, oleMagic) {
			return fmt.Errorf("%w: missing OLE header", ErrInvalidContent)
		}
	case ".odt":
		if !bytes.HasPrefix(data, zipMagic) {
			return fmt.Errorf("%w: not a zip container", ErrInvalidContent)
		}
	}
	return nil
}

func verifyPDF(data []byte) (err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidContent, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if reader.NumPage() < 1 {
		return fmt.Errorf("%w: pdf has no pages", ErrInvalidContent)
	}
	return nil
}

func verifyDOCX(data []byte) error {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	return doc.Close()
}
