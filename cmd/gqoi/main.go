// Command gqoi encodes and decodes QOI images from the command line.
//
// Usage:
//
//	gqoi enc [options] <input>        PNG/JPEG/GIF/BMP → QOI (use "-" for stdin)
//	gqoi dec [options] <input.qoi>    QOI → PNG/JPEG/BMP (use "-" for stdin, -o - for stdout)
//	gqoi info <input.qoi>             Display QOI header information
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/atiedebee/qoi"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "gqoi: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "gqoi: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  gqoi enc [options] <input>        Encode PNG/JPEG/GIF/BMP to QOI
  gqoi dec [options] <input.qoi>    Decode QOI to PNG, JPEG or BMP
  gqoi info <input.qoi>             Display QOI header information

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "gqoi <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned wrapped so that Close is a no-op.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- enc ---

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	channels := fs.Int("channels", 0, "stream channels: 3 (RGB), 4 (RGBA), 0 = auto-detect")
	colorspace := fs.String("colorspace", "srgb", "header colorspace tag: srgb or linear")
	output := fs.String("o", "", `output path (default: <input>.qoi, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: gqoi enc [options] <input>")
	}
	inputPath := fs.Arg(0)

	cs, err := parseColorspace(*colorspace)
	if err != nil {
		return err
	}
	opts := &qoi.EncoderOptions{
		Channels:   *channels,
		Colorspace: cs,
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	outputPath := *output
	if outputPath == "-" {
		return qoi.Encode(os.Stdout, img, opts)
	}

	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.qoi"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".qoi"
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := qoi.Encode(out, img, opts); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("enc: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fi, _ := os.Stat(outputPath)
	fmt.Fprintf(os.Stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, fi.Size())
	return nil
}

func parseColorspace(s string) (int, error) {
	switch strings.ToLower(s) {
	case "srgb":
		return qoi.ColorspaceSRGB, nil
	case "linear":
		return qoi.ColorspaceLinear, nil
	default:
		return 0, fmt.Errorf("enc: unknown colorspace %q (use srgb/linear)", s)
	}
}

// --- dec ---

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: .png, "-" for stdout)`)
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg, bmp (auto-detect from extension if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: gqoi dec [options] <input.qoi>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: reading input: %w", err)
	}

	img, err := qoi.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	outFmt := detectOutputFormat(*fmtFlag, *output)

	outputPath := *output
	if outputPath == "-" {
		return encodeImage(os.Stdout, img, outFmt)
	}

	if outputPath == "" {
		ext := "." + outFmt
		if outFmt == "jpeg" {
			ext = ".jpg"
		}
		if inputPath == "-" {
			outputPath = "output" + ext
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ext
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := encodeImage(out, img, outFmt); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dec: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Decoded %s → %s\n", inputPath, outputPath)
	return nil
}

// detectOutputFormat returns "png", "jpeg" or "bmp" based on flag/extension.
func detectOutputFormat(fmtFlag, outputPath string) string {
	if fmtFlag != "" {
		return strings.ToLower(fmtFlag)
	}
	if outputPath != "" && outputPath != "-" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".jpg", ".jpeg":
			return "jpeg"
		case ".bmp":
			return "bmp"
		}
	}
	return "png"
}

// encodeImage writes img in the specified format to w.
func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: gqoi info <input.qoi>")
	}
	inputPath := args[0]

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	feat, err := qoi.GetFeatures(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	colorspace := "sRGB, linear alpha"
	if feat.Colorspace == qoi.ColorspaceLinear {
		colorspace = "all channels linear"
	}

	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Dimensions: %d x %d\n", feat.Width, feat.Height)
	fmt.Printf("Channels:   %d\n", feat.Channels)
	fmt.Printf("Alpha:      %v\n", feat.HasAlpha)
	fmt.Printf("Colorspace: %s\n", colorspace)

	if inputPath != "-" {
		fi, err := os.Stat(inputPath)
		if err == nil {
			fmt.Printf("File size:  %d bytes\n", fi.Size())
			raw := int64(feat.Width) * int64(feat.Height) * int64(feat.Channels)
			if raw > 0 {
				fmt.Printf("Ratio:      %.2f%% of raw\n", float64(fi.Size())*100/float64(raw))
			}
		}
	}

	return nil
}
