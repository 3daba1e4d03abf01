// Package qoi provides a pure Go encoder and decoder for the QOI image format.
//
// QOI ("Quite OK Image") is a lossless format for 8-bit RGB and RGBA
// rasters that compresses with a single byte-oriented pass: each pixel is
// coded against the previous pixel and a 64-entry running table of
// recently seen values. This package implements the full format without
// any CGo dependencies, making it fully portable and easy to cross-compile.
//
// The package supports:
//   - Decoding 3-channel (RGB) and 4-channel (RGBA) streams
//   - Encoding from any image.Image, with channel auto-detection
//   - Buffer-level encode/decode over raw rasters
//   - Header probing without pixel decoding
//
// Basic usage for decoding:
//
//	img, err := qoi.Decode(reader)
//
// Basic usage for encoding:
//
//	err := qoi.Encode(writer, img, nil)
package qoi
