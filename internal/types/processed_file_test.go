package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTextType(t *testing.T) {
	assert.True(t, IsTextType(MIMEPlainText))
	assert.True(t, IsTextType(MIMEMarkdown))
	assert.False(t, IsTextType(MIMEPDF))
	assert.False(t, IsTextType(MIMEDocx))
	assert.False(t, IsTextType("image/png"))
}

func TestIsAcceptedType(t *testing.T) {
	for _, mt := range AcceptedFileTypes {
		assert.True(t, IsAcceptedType(mt), mt)
	}
	assert.False(t, IsAcceptedType("image/png"))
	assert.False(t, IsAcceptedType(""))
}

func TestProcessedFile_HasText(t *testing.T) {
	content := "hello"
	assert.True(t, ProcessedFile{Name: "a.txt", Content: &content}.HasText())
	assert.False(t, ProcessedFile{Name: "a.pdf"}.HasText())
}
