// Package types provides type definitions for structured data used throughout the persona-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// MIME types recognised by the upload preprocessor.
const (
	MIMEPlainText = "text/plain"
	MIMEMarkdown  = "text/markdown"
	MIMEPDF       = "application/pdf"
	MIMEDocx      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AcceptedFileTypes lists the MIME types the upload form offers.
// Only plain text and markdown have their content read.
var AcceptedFileTypes = []string{MIMEPlainText, MIMEMarkdown, MIMEPDF, MIMEDocx}

// ProcessedFile is an uploaded file reduced to the metadata (and, for text files, the content)
// needed as prompt context.
type ProcessedFile struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Content *string `json:"content"`
	Size    int64   `json:"size"`
	Pages   int     `json:"pages,omitempty"`
}

// HasText reports whether the file carries readable text content.
func (f ProcessedFile) HasText() bool {
	return f.Content != nil
}

// IsTextType reports whether the MIME type is one whose content is read as text.
func IsTextType(mimeType string) bool {
	return mimeType == MIMEPlainText || mimeType == MIMEMarkdown
}

// IsAcceptedType reports whether the MIME type is one the upload form offers.
func IsAcceptedType(mimeType string) bool {
	for _, t := range AcceptedFileTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
