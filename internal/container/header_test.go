package container

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	tests := []Header{
		{Width: 1, Height: 1, Channels: 3, Colorspace: ColorspaceSRGB},
		{Width: 768, Height: 512, Channels: 3, Colorspace: ColorspaceLinear},
		{Width: 1920, Height: 1080, Channels: 4, Colorspace: ColorspaceSRGB},
		{Width: 0xFFFFFFFF, Height: 1, Channels: 4, Colorspace: ColorspaceSRGB},
	}

	for _, want := range tests {
		buf := make([]byte, HeaderSize)
		PutHeader(buf, want)

		got, err := ParseHeader(buf)
		if err != nil {
			t.Fatalf("ParseHeader(%+v): %v", want, err)
		}
		if got != want {
			t.Errorf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestPutHeaderLayout(t *testing.T) {
	buf := make([]byte, HeaderSize)
	PutHeader(buf, Header{Width: 0x01020304, Height: 0x0A0B0C0D, Channels: 4, Colorspace: 1})

	want := []byte{
		'q', 'o', 'i', 'f',
		0x01, 0x02, 0x03, 0x04,
		0x0A, 0x0B, 0x0C, 0x0D,
		4, 1,
	}
	if !bytes.Equal(buf, want) {
		t.Errorf("header = % X, want % X", buf, want)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	valid := make([]byte, HeaderSize)
	PutHeader(valid, Header{Width: 2, Height: 2, Channels: 3})

	corrupt := func(mutate func(b []byte)) []byte {
		b := append([]byte{}, valid...)
		mutate(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", valid[:13]},
		{"bad magic", corrupt(func(b []byte) { b[0] = 'Q' })},
		{"zero width", corrupt(func(b []byte) { copy(b[4:8], []byte{0, 0, 0, 0}) })},
		{"zero height", corrupt(func(b []byte) { copy(b[8:12], []byte{0, 0, 0, 0}) })},
		{"channels too small", corrupt(func(b []byte) { b[12] = 2 })},
		{"channels too large", corrupt(func(b []byte) { b[12] = 5 })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHeader(tt.data); err != ErrInvalidHeader {
				t.Errorf("err = %v, want %v", err, ErrInvalidHeader)
			}
		})
	}
}

func TestParseHeaderIgnoresColorspace(t *testing.T) {
	// The colorspace byte is informational: unknown values parse fine.
	buf := make([]byte, HeaderSize)
	PutHeader(buf, Header{Width: 1, Height: 1, Channels: 3, Colorspace: 200})
	h, err := ParseHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.Colorspace != 200 {
		t.Errorf("Colorspace = %d, want 200", h.Colorspace)
	}
}

func TestSizing(t *testing.T) {
	h := Header{Width: 768, Height: 512, Channels: 3}

	if got := h.PixelCount(); got != 768*512 {
		t.Errorf("PixelCount = %d, want %d", got, 768*512)
	}
	if got := h.RasterSize(); got != 768*512*3 {
		t.Errorf("RasterSize = %d, want %d", got, 768*512*3)
	}
	if got := h.MaxEncodedSize(); got != 768*512*4+22 {
		t.Errorf("MaxEncodedSize = %d, want %d", got, 768*512*4+22)
	}

	h.Channels = 4
	if got := h.MaxEncodedSize(); got != 768*512*5+22 {
		t.Errorf("MaxEncodedSize = %d, want %d", got, 768*512*5+22)
	}
}
