package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Leading bytes of real formats; DetectContentType only needs the magic.
var (
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pdfHead  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	pngHead  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
)

func TestCheckFileSize(t *testing.T) {
	assert.Nil(t, CheckFileSize("pan_card", MaxFileSize))
	verr := CheckFileSize("pan_card", MaxFileSize+1)
	require.NotNil(t, verr)
	assert.Equal(t, "pan_card", verr.Field)
}

func TestAllowedContentType(t *testing.T) {
	assert.True(t, AllowedContentType("image/jpeg"))
	assert.True(t, AllowedContentType("image/jpg"))
	assert.True(t, AllowedContentType("application/pdf"))
	assert.True(t, AllowedContentType("application/pdf; charset=binary"))
	assert.True(t, AllowedContentType("IMAGE/JPEG"))
	assert.False(t, AllowedContentType("image/png"))
	assert.False(t, AllowedContentType("text/html"))
	assert.False(t, AllowedContentType(""))
}

func TestCheckFileContent(t *testing.T) {
	t.Run("jpeg accepted", func(t *testing.T) {
		ct, verr := CheckFileContent("pan_card", 1024, jpegHead)
		assert.Nil(t, verr)
		assert.Equal(t, "image/jpeg", ct)
	})

	t.Run("pdf accepted", func(t *testing.T) {
		ct, verr := CheckFileContent("bank_proof", 1024, pdfHead)
		assert.Nil(t, verr)
		assert.Equal(t, "application/pdf", ct)
	})

	t.Run("png rejected despite any reported type", func(t *testing.T) {
		_, verr := CheckFileContent("gst_certificate", 1024, pngHead)
		require.NotNil(t, verr)
		assert.Equal(t, "gst_certificate", verr.Field)
	})

	t.Run("spoofed extension caught by sniffing", func(t *testing.T) {
		// An HTML payload named whatever.pdf still sniffs as text/html.
		_, verr := CheckFileContent("pan_card", 64, []byte("<html><body>x</body></html>"))
		assert.NotNil(t, verr)
	})

	t.Run("oversize rejected before sniffing", func(t *testing.T) {
		_, verr := CheckFileContent("pan_card", 3*1024*1024, jpegHead)
		require.NotNil(t, verr)
		assert.Contains(t, verr.Reason, "2MB")
	})
}
