package codec

import "github.com/atiedebee/qoi/internal/container"

// streamTerminator marks the end of every QOI stream.
var streamTerminator = [container.TerminatorSize]byte{7: 0x01}

// Encode compresses the raster in src according to h and writes the
// complete stream (header, chunks, terminator) into dst, returning the
// number of bytes written. src must hold the full raster
// (width*height*channels bytes, row-major); dst must be at least
// h.MaxEncodedSize() bytes so the pixel loop can skip per-write bounds
// checks. The header is assumed valid; callers validate it first.
func Encode(dst, src []byte, h container.Header) (int, error) {
	channels := int(h.Channels)
	pixels := int(h.PixelCount())

	if int64(len(src)) < h.RasterSize() {
		return 0, ErrShortSource
	}
	if int64(len(dst)) < h.MaxEncodedSize() {
		return 0, ErrShortDest
	}

	container.PutHeader(dst, h)
	n := container.HeaderSize

	var table [tableSize]pixel
	prev := opaqueBlack
	cur := prev // for 3-channel input the alpha byte carries over
	run := 0

	for i := 0; i < pixels; i++ {
		off := i * channels
		cur.r = src[off]
		cur.g = src[off+1]
		cur.b = src[off+2]
		if channels == 4 {
			cur.a = src[off+3]
		}

		if cur == prev {
			run++
			if run == maxRun {
				dst[n] = opRun | byte(run-1)
				n++
				run = 0
			}
			continue
		}

		if run > 0 {
			dst[n] = opRun | byte(run-1)
			n++
			run = 0
		}

		slot := cur.index()
		switch {
		case table[slot] == cur:
			dst[n] = opIndex | byte(slot)
			n++

		case cur.a != prev.a:
			dst[n] = opRGBA
			dst[n+1] = cur.r
			dst[n+2] = cur.g
			dst[n+3] = cur.b
			dst[n+4] = cur.a
			n += 5

		default:
			// Widened signed deltas: the uint8 subtraction wraps mod 256
			// and the int8 reinterpretation recovers the signed value.
			dr := int(int8(cur.r - prev.r))
			dg := int(int8(cur.g - prev.g))
			db := int(int8(cur.b - prev.b))

			switch {
			case dr >= -2 && dr <= 1 && dg >= -2 && dg <= 1 && db >= -2 && db <= 1:
				dst[n] = opDiff | byte(dr+2)<<4 | byte(dg+2)<<2 | byte(db+2)
				n++

			case dg >= -32 && dg <= 31 &&
				dr-dg >= -8 && dr-dg <= 7 &&
				db-dg >= -8 && db-dg <= 7:
				dst[n] = opLuma | byte(dg+32)
				dst[n+1] = byte(dr-dg+8)<<4 | byte(db-dg+8)
				n += 2

			default:
				dst[n] = opRGB
				dst[n+1] = cur.r
				dst[n+2] = cur.g
				dst[n+3] = cur.b
				n += 4
			}
		}

		table[slot] = cur
		prev = cur
	}

	if run > 0 {
		dst[n] = opRun | byte(run-1)
		n++
	}

	n += copy(dst[n:], streamTerminator[:])
	return n, nil
}
