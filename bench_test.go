package qoi

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func loadBenchImage(opaque bool) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			a := uint8(255)
			if !opaque && (x/16+y/16)%2 == 0 {
				a = 200
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x % 256),
				G: uint8(y % 256),
				B: uint8((x + y) % 256),
				A: a,
			})
		}
	}
	return img
}

func BenchmarkEncodeRGB(b *testing.B) {
	img := loadBenchImage(true)
	buf := &bytes.Buffer{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := Encode(buf, img, nil); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(buf.Len()))
}

func BenchmarkEncodeRGBA(b *testing.B) {
	img := loadBenchImage(false)
	buf := &bytes.Buffer{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := Encode(buf, img, nil); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(buf.Len()))
}

func BenchmarkDecodeRGB(b *testing.B) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, loadBenchImage(true), nil); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(data)))
}

func BenchmarkDecodeRGBA(b *testing.B) {
	buf := &bytes.Buffer{}
	if err := Encode(buf, loadBenchImage(false), nil); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(data)))
}

func BenchmarkEncodeRaster(b *testing.B) {
	const w, h = 640, 480
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = byte(i * 31 >> 4)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeRaster(pix, w, h, 4, nil); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(pix)))
}

func BenchmarkDecodeRaster(b *testing.B) {
	const w, h = 640, 480
	pix := make([]byte, w*h*4)
	for i := range pix {
		pix[i] = byte(i * 31 >> 4)
	}
	data, err := EncodeRaster(pix, w, h, 4, nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := DecodeRaster(data); err != nil {
			b.Fatal(err)
		}
	}
	b.SetBytes(int64(len(pix)))
}
