package site

import (
	"fmt"
	"strconv"
	"strings"

	"babypool/internal/apperr"
)

type RGB struct {
	R, G, B uint8
}

// String renders the triple the way the theme stylesheet consumes it.
func (c RGB) String() string {
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

// NormalizeHex returns hex as lowercase #rrggbb. Accepts an optional leading
// '#' and the 3-digit shorthand.
func NormalizeHex(hex string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return "", &apperr.InvalidColorFormatError{Value: hex}
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", &apperr.InvalidColorFormatError{Value: hex}
	}
	return "#" + strings.ToLower(h), nil
}

func HexToRGB(hex string) (RGB, error) {
	norm, err := NormalizeHex(hex)
	if err != nil {
		return RGB{}, err
	}
	v, _ := strconv.ParseUint(norm[1:], 16, 32)
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
