package overlay

import (
	"fmt"
	"net/url"
	"strings"
)

// DataURIPrefix marks a percent-encoded SVG data URI.
const DataURIPrefix = "data:image/svg+xml,"

// EncodeDataURI wraps serialized overlay markup in a percent-encoded
// SVG data URI. Percent-encoding rather than base64 keeps multi-byte
// badge text lossless through the encode/decode round trip: every UTF-8
// byte outside the RFC 3986 unreserved set is written as %XX.
func EncodeDataURI(markup string) string {
	var b strings.Builder
	b.WriteString(DataURIPrefix)
	for i := 0; i < len(markup); i++ {
		c := markup[i]
		if isUnreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// DecodeDataURI recovers the SVG markup bytes from a percent-encoded
// data URI produced by EncodeDataURI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, DataURIPrefix) {
		return nil, fmt.Errorf("not an SVG data URI")
	}
	decoded, err := url.PathUnescape(uri[len(DataURIPrefix):])
	if err != nil {
		return nil, fmt.Errorf("failed to decode overlay data URI: %w", err)
	}
	return []byte(decoded), nil
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
