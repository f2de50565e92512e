package datauri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("ValidImageURI", func(t *testing.T) {
		d, err := Parse("data:image/png;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/png", d.MediaType)
		assert.Equal(t, []byte("hello"), d.Data)
	})

	t.Run("MissingPrefix", func(t *testing.T) {
		_, err := Parse("image/png;base64,aGVsbG8=")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("MissingComma", func(t *testing.T) {
		_, err := Parse("data:image/png;base64")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("NotBase64Encoded", func(t *testing.T) {
		_, err := Parse("data:image/png,rawpayload")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("InvalidBase64Payload", func(t *testing.T) {
		_, err := Parse("data:image/png;base64,!!!not-base64!!!")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("EmptyMediaType", func(t *testing.T) {
		_, err := Parse("data:;base64,aGVsbG8=")
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestParseImage(t *testing.T) {
	t.Run("ImageType", func(t *testing.T) {
		d, err := ParseImage("data:image/jpeg;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", d.MediaType)
	})

	t.Run("NonImageType", func(t *testing.T) {
		_, err := ParseImage("data:text/plain;base64,aGVsbG8=")
		assert.ErrorIs(t, err, ErrNotImage)
	})
}

func TestEncode(t *testing.T) {
	uri := Encode("image/png", []byte("hello"))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", uri)

	d, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), d.Data)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("data:image/webp;base64,AAAA"))
	assert.False(t, IsImage("data:application/pdf;base64,AAAA"))
	assert.False(t, IsImage("https://example.com/photo.png"))
}
