package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		url          string
		resourceType string
		publicID     string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v123456789/photos/sample.webp", "image", "photos/sample"},
		{"https://res.cloudinary.com/demo/image/upload/photos/sample.jpg", "image", "photos/sample"},
		{"https://res.cloudinary.com/demo/raw/upload/v1/resumes/17-cv.pdf", "raw", "resumes/17-cv.pdf"},
		{"https://res.cloudinary.com/demo/image/upload/vacation/trip.png", "image", "vacation/trip"},
		{"https://example.com/nothing-here", "", ""},
	}

	for _, tt := range tests {
		rt, id := ExtractPublicID(tt.url)
		assert.Equal(t, tt.resourceType, rt, tt.url)
		assert.Equal(t, tt.publicID, id, tt.url)
	}
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsImage("me.PNG"))
	assert.False(t, IsImage("cv.pdf"))
	assert.True(t, IsDocument("cv.docx"))
	assert.False(t, IsDocument("cv.exe"))
}
