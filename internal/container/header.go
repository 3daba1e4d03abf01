// Package container implements the QOI file header: the fixed 14-byte
// prefix carrying the magic, dimensions, channel count and colorspace.
// It performs no pixel work; the chunk stream itself is handled by
// internal/codec.
package container

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the length of the fixed QOI header in bytes.
const HeaderSize = 14

// TerminatorSize is the length of the end-of-stream marker.
const TerminatorSize = 8

// Magic is the four-byte signature opening every QOI file.
const Magic = "qoif"

// Colorspace values carried in the header. The byte is informational;
// the codec does not interpret it.
const (
	ColorspaceSRGB   = 0 // sRGB with linear alpha
	ColorspaceLinear = 1 // all channels linear
)

// ErrInvalidHeader is returned when the header is truncated, the magic
// does not match, a dimension is zero, or the channel count is not 3 or 4.
var ErrInvalidHeader = errors.New("invalid header")

// Header is the parsed 14-byte QOI header.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8 // 3 = RGB, 4 = RGBA
	Colorspace uint8 // ColorspaceSRGB or ColorspaceLinear; not validated
}

// ParseHeader reads and validates a header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrInvalidHeader
	}
	if string(data[:4]) != Magic {
		return Header{}, ErrInvalidHeader
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(data[4:8]),
		Height:     binary.BigEndian.Uint32(data[8:12]),
		Channels:   data[12],
		Colorspace: data[13],
	}
	if !h.Valid() {
		return Header{}, ErrInvalidHeader
	}
	return h, nil
}

// PutHeader serializes h into the first HeaderSize bytes of dst.
// dst must be at least HeaderSize bytes long.
func PutHeader(dst []byte, h Header) {
	copy(dst[:4], Magic)
	binary.BigEndian.PutUint32(dst[4:8], h.Width)
	binary.BigEndian.PutUint32(dst[8:12], h.Height)
	dst[12] = h.Channels
	dst[13] = h.Colorspace
}

// Valid reports whether the header describes a decodable image:
// non-zero dimensions and a channel count of 3 or 4.
func (h Header) Valid() bool {
	return h.Width != 0 && h.Height != 0 && (h.Channels == 3 || h.Channels == 4)
}

// PixelCount returns the number of pixels in the image.
func (h Header) PixelCount() int64 {
	return int64(h.Width) * int64(h.Height)
}

// RasterSize returns the size in bytes of the decoded raster.
func (h Header) RasterSize() int64 {
	return h.PixelCount() * int64(h.Channels)
}

// MaxEncodedSize returns the worst-case size of the encoded stream,
// including header and terminator. The worst case is one RGBA (or RGB)
// literal per pixel: channels+1 bytes each.
func (h Header) MaxEncodedSize() int64 {
	return h.PixelCount()*int64(h.Channels+1) + HeaderSize + TerminatorSize
}
