package qoi

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/atiedebee/qoi/internal/codec"
	"github.com/atiedebee/qoi/internal/container"
)

// EncoderOptions controls QOI encoding parameters.
type EncoderOptions struct {
	// Channels selects the stream's channel count: 3 (RGB), 4 (RGBA),
	// or 0 to auto-detect (4 when any source pixel is non-opaque).
	// Encoding with 3 channels discards the alpha channel.
	Channels int

	// Colorspace is the informational colorspace byte written to the
	// header: ColorspaceSRGB (default) or ColorspaceLinear.
	Colorspace int
}

// Options is an alias for backward compatibility.
type Options = EncoderOptions

// DefaultOptions returns encoding options with auto-detected channels
// and the sRGB colorspace tag.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{
		Channels:   0,
		Colorspace: ColorspaceSRGB,
	}
}

// validateOptions returns an error describing the first invalid
// parameter found, or nil if the configuration is valid.
func validateOptions(opts *EncoderOptions) error {
	if opts.Channels != 0 && opts.Channels != 3 && opts.Channels != 4 {
		return fmt.Errorf("qoi: invalid Channels %d (must be 0, 3 or 4)", opts.Channels)
	}
	if opts.Colorspace != ColorspaceSRGB && opts.Colorspace != ColorspaceLinear {
		return fmt.Errorf("qoi: invalid Colorspace %d (must be 0 or 1)", opts.Colorspace)
	}
	return nil
}

// Encode writes the image img to w in QOI format.
// If opts is nil, DefaultOptions() is used.
// Returns an error if opts contains invalid parameter values or the
// image has a zero dimension.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateOptions(opts); err != nil {
		return err
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	channels := opts.Channels
	if channels == 0 {
		channels = 3
		if imageHasAlpha(img) {
			channels = 4
		}
	}

	raster, err := rasterize(img, channels)
	if err != nil {
		return err
	}

	data, err := encodeRaster(raster, width, height, channels, uint8(opts.Colorspace))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// EncodeRaster compresses a raw row-major raster (width*height*channels
// bytes) and returns the complete QOI stream. It is the buffer-level
// counterpart of [Encode] for callers that already hold raw pixels.
// channels must be 3 or 4. If opts is nil, DefaultOptions() is used;
// opts.Channels does not change the stream layout (the channels argument
// is authoritative), but it must still be 0, 3 or 4.
func EncodeRaster(pix []byte, width, height, channels int, opts *EncoderOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("qoi: invalid channel count %d (must be 3 or 4)", channels)
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	if len(pix) < width*height*channels {
		return nil, fmt.Errorf("qoi: raster is %d bytes, need %d", len(pix), width*height*channels)
	}
	return encodeRaster(pix, width, height, channels, uint8(opts.Colorspace))
}

// MaxEncodedSize returns the worst-case size in bytes of the QOI stream
// for an image of the given dimensions, including header and terminator.
// Output buffers sized with it never overflow.
func MaxEncodedSize(width, height, channels int) int {
	return width*height*(channels+1) + container.HeaderSize + container.TerminatorSize
}

// encodeRaster validates dimensions, builds the header and runs the codec.
func encodeRaster(pix []byte, width, height, channels int, colorspace uint8) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("qoi: invalid image dimensions %dx%d", width, height)
	}
	if int64(width) > math.MaxUint32 || int64(height) > math.MaxUint32 {
		return nil, fmt.Errorf("qoi: image dimension %dx%d: %w", width, height, ErrTooLarge)
	}
	// Keep the worst-case encoded size (w*h*(c+1) + 22) within int range;
	// the product is taken in uint64 because it can overflow int64.
	if uint64(width)*uint64(height) > math.MaxInt/8 {
		return nil, fmt.Errorf("qoi: image dimension %dx%d: %w", width, height, ErrTooLarge)
	}

	h := container.Header{
		Width:      uint32(width),
		Height:     uint32(height),
		Channels:   uint8(channels),
		Colorspace: colorspace,
	}

	dst := make([]byte, h.MaxEncodedSize())
	n, err := codec.Encode(dst, pix, h)
	if err != nil {
		return nil, fmt.Errorf("qoi: %w", err)
	}
	return dst[:n], nil
}

// rasterize converts img into a tightly packed row-major raster with the
// requested channel count. Fast paths cover *image.NRGBA (straight copy)
// and *image.RGBA (un-premultiply); everything else goes through the
// color.NRGBAModel conversion. Non-zero Bounds().Min is honored.
func rasterize(img image.Image, channels int) ([]byte, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("qoi: invalid image dimensions %dx%d", width, height)
	}

	raster := make([]byte, width*height*channels)

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			off := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			dst := y * width * channels
			if channels == 4 {
				copy(raster[dst:dst+width*4], src.Pix[off:off+width*4])
				continue
			}
			for x := 0; x < width; x++ {
				raster[dst] = src.Pix[off]
				raster[dst+1] = src.Pix[off+1]
				raster[dst+2] = src.Pix[off+2]
				dst += 3
				off += 4
			}
		}

	case *image.RGBA:
		for y := 0; y < height; y++ {
			off := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			dst := y * width * channels
			for x := 0; x < width; x++ {
				r, g, bl, a := src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3]
				// RGBA is alpha-premultiplied; QOI stores straight alpha.
				if a > 0 && a < 255 {
					a16 := uint16(a)
					r = uint8(uint16(r) * 255 / a16)
					g = uint8(uint16(g) * 255 / a16)
					bl = uint8(uint16(bl) * 255 / a16)
				}
				raster[dst] = r
				raster[dst+1] = g
				raster[dst+2] = bl
				if channels == 4 {
					raster[dst+3] = a
				}
				dst += channels
				off += 4
			}
		}

	default:
		for y := 0; y < height; y++ {
			dst := y * width * channels
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				raster[dst] = c.R
				raster[dst+1] = c.G
				raster[dst+2] = c.B
				if channels == 4 {
					raster[dst+3] = c.A
				}
				dst += channels
			}
		}
	}

	return raster, nil
}

// imageHasAlpha reports whether any pixel of img is non-opaque.
func imageHasAlpha(img image.Image) bool {
	b := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := (y-nrgba.Rect.Min.Y)*nrgba.Stride + (b.Min.X-nrgba.Rect.Min.X)*4 + 3
			for x := 0; x < b.Dx(); x++ {
				if nrgba.Pix[off] != 255 {
					return true
				}
				off += 4
			}
		}
		return false
	}
	if rgba, ok := img.(*image.RGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := (y-rgba.Rect.Min.Y)*rgba.Stride + (b.Min.X-rgba.Rect.Min.X)*4 + 3
			for x := 0; x < b.Dx(); x++ {
				if rgba.Pix[off] != 255 {
					return true
				}
				off += 4
			}
		}
		return false
	}
	if op, ok := img.(interface{ Opaque() bool }); ok {
		return !op.Opaque()
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0xFFFF {
				return true
			}
		}
	}
	return false
}
