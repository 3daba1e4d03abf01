// Package qoi implements an encoder and decoder for the QOI image format.
//
// QOI is a byte-oriented, chunk-coded lossless format for 8-bit RGB and
// RGBA rasters. This package registers itself with the standard library's
// image package so that image.Decode can transparently read QOI files.
package qoi

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/atiedebee/qoi/internal/codec"
	"github.com/atiedebee/qoi/internal/container"
)

func init() {
	image.RegisterFormat("qoi", container.Magic, Decode, DecodeConfig)
}

// HeaderSize is the length of the fixed QOI file header in bytes.
const HeaderSize = container.HeaderSize

// Colorspace values carried in the header. The byte is purely
// informational; the codec neither interprets nor converts it.
const (
	ColorspaceSRGB   = container.ColorspaceSRGB
	ColorspaceLinear = container.ColorspaceLinear
)

// Errors returned by the codec.
var (
	ErrInvalidHeader = container.ErrInvalidHeader
	ErrCorruptStream = codec.ErrCorrupt
	ErrTooLarge      = errors.New("image too large")
)

// Features describes a QOI file's properties, as returned by [GetFeatures].
type Features struct {
	Width      int  // Image width in pixels.
	Height     int  // Image height in pixels.
	Channels   int  // 3 (RGB) or 4 (RGBA).
	Colorspace int  // ColorspaceSRGB or ColorspaceLinear.
	HasAlpha   bool // True if the stream carries an alpha channel (Channels == 4).
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// Decode reads a QOI image from r and returns it as an image.Image.
// The returned type is always *image.NRGBA; for 3-channel files every
// alpha value is 255.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("qoi: reading data: %w", err)
	}
	return decodeBytes(data)
}

// DecodeConfig returns the color model and dimensions of a QOI image
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := readAll(io.LimitReader(r, HeaderSize))
	if err != nil {
		return image.Config{}, fmt.Errorf("qoi: reading data: %w", err)
	}

	h, err := container.ParseHeader(data)
	if err != nil {
		return image.Config{}, fmt.Errorf("qoi: %w", err)
	}

	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// GetFeatures reads a QOI file's features (dimensions, channel count,
// colorspace) without decoding pixel data. It parses just the 14-byte
// header, making it much cheaper than a full [Decode].
func GetFeatures(r io.Reader) (*Features, error) {
	data, err := readAll(io.LimitReader(r, HeaderSize))
	if err != nil {
		return nil, fmt.Errorf("qoi: reading data: %w", err)
	}

	h, err := container.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("qoi: %w", err)
	}

	return &Features{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   int(h.Channels),
		Colorspace: int(h.Colorspace),
		HasAlpha:   h.Channels == 4,
	}, nil
}

// DecodeRaster decodes a complete QOI stream into a raw row-major raster
// (width*height*channels bytes, layout per the returned features). It is
// the buffer-level counterpart of [Decode] for callers that do not want
// an image.Image.
func DecodeRaster(data []byte) ([]byte, *Features, error) {
	h, err := container.ParseHeader(data)
	if err != nil {
		return nil, nil, fmt.Errorf("qoi: %w", err)
	}
	if err := checkDecodable(h, data); err != nil {
		return nil, nil, err
	}

	raster := make([]byte, h.RasterSize())
	if _, err := codec.Decode(raster, data[HeaderSize:], h); err != nil {
		return nil, nil, fmt.Errorf("qoi: %w", err)
	}

	feat := &Features{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   int(h.Channels),
		Colorspace: int(h.Colorspace),
		HasAlpha:   h.Channels == 4,
	}
	return raster, feat, nil
}

// checkDecodable rejects headers the input cannot possibly satisfy
// before any raster allocation happens. The pixel count is computed in
// uint64 (the int64 product can overflow for 2³²-scale dimensions) and
// capped so every later size calculation fits in an int. A RUN chunk
// covers at most 62 pixels per stream byte, so a pixel count beyond
// len(body)*62 proves the stream corrupt without reading a single chunk.
func checkDecodable(h container.Header, data []byte) error {
	px := uint64(h.Width) * uint64(h.Height)
	if px > math.MaxInt/8 {
		return fmt.Errorf("qoi: %dx%d: %w", h.Width, h.Height, ErrTooLarge)
	}
	body := uint64(len(data) - HeaderSize)
	if px > body*62 {
		return fmt.Errorf("qoi: pixel count exceeds stream capacity: %w", ErrCorruptStream)
	}
	return nil
}

// decodeBytes decodes a complete QOI file from a byte slice.
func decodeBytes(data []byte) (image.Image, error) {
	h, err := container.ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("qoi: %w", err)
	}
	if err := checkDecodable(h, data); err != nil {
		return nil, err
	}

	width, height := int(h.Width), int(h.Height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	if h.Channels == 4 {
		// The NRGBA pixel buffer is the raster: decode straight into it.
		if _, err := codec.Decode(img.Pix, data[HeaderSize:], h); err != nil {
			return nil, fmt.Errorf("qoi: %w", err)
		}
		return img, nil
	}

	raster := make([]byte, h.RasterSize())
	if _, err := codec.Decode(raster, data[HeaderSize:], h); err != nil {
		return nil, fmt.Errorf("qoi: %w", err)
	}
	for i, j := 0, 0; i < len(raster); i, j = i+3, j+4 {
		img.Pix[j] = raster[i]
		img.Pix[j+1] = raster[i+1]
		img.Pix[j+2] = raster[i+2]
		img.Pix[j+3] = 255
	}
	return img, nil
}
