// Package ingestion turns uploaded files into ProcessedFile records used as prompt context.
package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	rpdf "rsc.io/pdf"

	"github.com/jonathan/persona-studio/internal/types"
)

// Upload limits
const (
	MaxFiles         = 5
	MaxFileSizeBytes = 50 * 1024 * 1024
)

// Upload is a file offered for a submission, before it is read.
type Upload struct {
	Name string
	Type string // declared MIME type; empty means detect from content
	Size int64
	Open func() (io.ReadCloser, error)
}

// FromBytes wraps in-memory data as an Upload.
func FromBytes(name, mimeType string, data []byte) Upload {
	return Upload{
		Name: name,
		Type: mimeType,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FromPath wraps a local file as an Upload. The MIME type comes from the extension when it is one
// of the text types, and is otherwise detected from content.
func FromPath(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}

	return Upload{
		Name: filepath.Base(path),
		Type: typeFromExtension(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// typeFromExtension maps text file extensions to their MIME type, and anything else to "".
func typeFromExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return types.MIMEMarkdown
	case ".txt":
		return types.MIMEPlainText
	}
	return ""
}

// FromMultipart wraps a multipart form file as an Upload. A missing or generic declared type
// falls back to the file extension, then to content detection.
func FromMultipart(fh *multipart.FileHeader) Upload {
	mimeType := baseMediaType(fh.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = typeFromExtension(fh.Filename)
	}
	return Upload{
		Name: fh.Filename,
		Type: mimeType,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// ValidateUploadCount fails when more than MaxFiles uploads are offered.
func ValidateUploadCount(n int) error {
	if n > MaxFiles {
		return &TooManyFilesError{Count: n, Max: MaxFiles}
	}
	return nil
}

// Preprocessor converts uploads into ProcessedFile records.
type Preprocessor struct {
	MaxFileSize int64
	Logger      *zap.Logger
}

// NewPreprocessor creates a Preprocessor with the default size cap.
func NewPreprocessor(logger *zap.Logger) *Preprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preprocessor{MaxFileSize: MaxFileSizeBytes, Logger: logger}
}

// ProcessUploads runs the default Preprocessor over uploads.
func ProcessUploads(uploads []Upload, logger *zap.Logger) []types.ProcessedFile {
	return NewPreprocessor(logger).Process(uploads)
}

// Process drops oversized uploads and records the rest in their original order.
// Text and markdown files carry their content when it can be read as UTF-8; every other
// file is recorded by name, type and size only. Read failures never fail the batch.
func (p *Preprocessor) Process(uploads []Upload) []types.ProcessedFile {
	files := make([]types.ProcessedFile, 0, len(uploads))
	for _, u := range uploads {
		if u.Size > p.MaxFileSize {
			p.Logger.Warn("dropping oversized upload",
				zap.String("name", u.Name),
				zap.Int64("size", u.Size),
				zap.Int64("max", p.MaxFileSize))
			continue
		}
		file, ok := p.processOne(u)
		if !ok {
			continue
		}
		files = append(files, file)
	}
	return files
}

func (p *Preprocessor) processOne(u Upload) (types.ProcessedFile, bool) {
	file := types.ProcessedFile{
		Name: u.Name,
		Type: baseMediaType(u.Type),
		Size: u.Size,
	}

	needsData := file.Type == "" || types.IsTextType(file.Type) || file.Type == types.MIMEPDF
	if !needsData {
		return file, true
	}

	data, err := p.read(u)
	if err != nil {
		p.Logger.Warn("failed to read upload", zap.String("name", u.Name), zap.Error(err))
		return file, true
	}
	if int64(len(data)) > p.MaxFileSize {
		p.Logger.Warn("dropping oversized upload", zap.String("name", u.Name), zap.Int("size", len(data)))
		return types.ProcessedFile{}, false
	}
	if file.Size == 0 {
		file.Size = int64(len(data))
	}

	if file.Type == "" {
		file.Type = baseMediaType(mimetype.Detect(data).String())
	}

	switch {
	case types.IsTextType(file.Type):
		if utf8.Valid(data) {
			text := string(data)
			file.Content = &text
		} else {
			p.Logger.Warn("upload is not valid UTF-8 text", zap.String("name", u.Name))
		}
	case file.Type == types.MIMEPDF:
		file.Pages = pdfPageCount(data)
	}
	if !types.IsAcceptedType(file.Type) {
		p.Logger.Debug("recording upload of unlisted type", zap.String("name", u.Name), zap.String("type", file.Type))
	}
	return file, true
}

func (p *Preprocessor) read(u Upload) ([]byte, error) {
	if u.Open == nil {
		return nil, fmt.Errorf("upload %s has no content", u.Name)
	}
	rc, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(io.LimitReader(rc, p.MaxFileSize+1))
}

// baseMediaType strips parameters such as charset from a MIME type.
func baseMediaType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mediaType
}

// pdfPageCount returns the page count of a PDF, or 0 when it cannot be parsed.
func pdfPageCount(data []byte) (n int) {
	// rsc.io/pdf panics on some malformed input.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0
	}
	return doc.NumPage()
}
