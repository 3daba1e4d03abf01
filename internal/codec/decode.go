package codec

import "github.com/atiedebee/qoi/internal/container"

// Decode reconstructs the raster described by h from the chunk stream in
// src (the bytes following the header) and writes it into dst, returning
// the number of bytes written. Termination is by pixel count; the 8-byte
// terminator is neither consumed nor validated. Every read is length
// checked, so arbitrary input cannot panic: a stream that ends before
// the pixel count is met, or whose final RUN overshoots it, returns
// ErrCorrupt along with the bytes written so far.
func Decode(dst, src []byte, h container.Header) (int, error) {
	channels := int(h.Channels)
	pixels := int(h.PixelCount())

	if int64(len(dst)) < h.RasterSize() {
		return 0, ErrShortDest
	}

	var table [tableSize]pixel
	prev := opaqueBlack
	cur := prev
	in := 0
	out := 0

	decoded := 0
	for decoded < pixels {
		if in >= len(src) {
			return out, ErrCorrupt
		}
		b := src[in]

		switch {
		case b == opRGB:
			if in+4 > len(src) {
				return out, ErrCorrupt
			}
			cur.r = src[in+1]
			cur.g = src[in+2]
			cur.b = src[in+3]
			// alpha carries over from the previous pixel
			in += 4

		case b == opRGBA:
			if in+5 > len(src) {
				return out, ErrCorrupt
			}
			cur.r = src[in+1]
			cur.g = src[in+2]
			cur.b = src[in+3]
			cur.a = src[in+4]
			in += 5

		case b&tagMask == opRun:
			run := int(b&0x3F) + 1
			if run > pixels-decoded {
				return out, ErrCorrupt
			}
			for ; run > 0; run-- {
				dst[out] = prev.r
				dst[out+1] = prev.g
				dst[out+2] = prev.b
				if channels == 4 {
					dst[out+3] = prev.a
				}
				out += channels
				decoded++
			}
			in++
			continue

		case b&tagMask == opLuma:
			if in+2 > len(src) {
				return out, ErrCorrupt
			}
			dg := int(b&0x3F) - 32
			b1 := src[in+1]
			dr := int(b1>>4&0x0F) + dg - 8
			db := int(b1&0x0F) + dg - 8
			cur.r = prev.r + byte(dr)
			cur.g = prev.g + byte(dg)
			cur.b = prev.b + byte(db)
			in += 2

		case b&tagMask == opDiff:
			cur.r = prev.r + b>>4&0x03 - 2
			cur.g = prev.g + b>>2&0x03 - 2
			cur.b = prev.b + b&0x03 - 2
			in++

		default: // opIndex
			cur = table[b&0x3F]
			in++
		}

		dst[out] = cur.r
		dst[out+1] = cur.g
		dst[out+2] = cur.b
		if channels == 4 {
			dst[out+3] = cur.a
		}
		out += channels

		table[cur.index()] = cur
		prev = cur
		decoded++
	}

	return out, nil
}
