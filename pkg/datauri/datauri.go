// Package datauri parses and builds RFC 2397 data URIs, the self-describing
// "data:<mimetype>;base64,<payload>" strings the photo pipeline carries
// between upload, AI generation, and persistence.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const prefix = "data:"

var (
	// ErrInvalid indicates the string is not a base64 data URI.
	ErrInvalid = errors.New("invalid data URI")
	// ErrNotImage indicates the data URI does not carry an image media type.
	ErrNotImage = errors.New("data URI is not an image")
)

// DataURI is a decoded data URI.
type DataURI struct {
	MediaType string
	Data      []byte
}

// Parse decodes a base64 data URI into its media type and payload bytes.
func Parse(s string) (*DataURI, error) {
	if !strings.HasPrefix(s, prefix) {
		return nil, ErrInvalid
	}
	meta, payload, ok := strings.Cut(s[len(prefix):], ",")
	if !ok {
		return nil, ErrInvalid
	}
	mediaType, found := strings.CutSuffix(meta, ";base64")
	if !found || mediaType == "" {
		return nil, ErrInvalid
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return &DataURI{MediaType: mediaType, Data: data}, nil
}

// ParseImage is Parse restricted to image/* media types. The persistence
// gateway only accepts photos, never arbitrary payloads.
func ParseImage(s string) (*DataURI, error) {
	d, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(d.MediaType, "image/") {
		return nil, ErrNotImage
	}
	return d, nil
}

// Encode builds a base64 data URI from a media type and payload.
func Encode(mediaType string, data []byte) string {
	return prefix + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// IsImage reports whether s looks like an image data URI without decoding
// the payload.
func IsImage(s string) bool {
	return strings.HasPrefix(s, "data:image/")
}
