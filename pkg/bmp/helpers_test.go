package bmp

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"
)

// validHeaders は幅・高さ・ビット深度から整合したヘッダーを作る
func validHeaders(width, height int, bpp uint16) (FileHeader, InfoHeader) {
	stride := Stride(width, bpp)
	offset := uint32(54 + PaletteLen(bpp)*4)
	imageSize := uint32(stride * height)

	fh := FileHeader{
		Magic:           [2]byte{'B', 'M'},
		FileSize:        offset + imageSize,
		Reserved:        0,
		PixelDataOffset: offset,
	}
	ih := InfoHeader{
		HeaderSize:      40,
		Width:           uint32(width),
		Height:          uint32(height),
		Planes:          1,
		BitsPerPixel:    bpp,
		ImageSizeBytes:  imageSize,
		XPixelsPerMeter: 2835,
		YPixelsPerMeter: 2835,
	}
	return fh, ih
}

// rawBMP はコーデックを通さずに encoding/binary でBMPバイト列を組み立てる
func rawBMP(t *testing.T, fh FileHeader, ih InfoHeader, palette, pix []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, fh); err != nil {
		t.Fatalf("failed to write file header: %v", err)
	}
	if err := binary.Write(&buf, binary.LittleEndian, ih); err != nil {
		t.Fatalf("failed to write info header: %v", err)
	}
	buf.Write(palette)
	buf.Write(pix)
	return buf.Bytes()
}

// randomBMP は乱数で埋めたパレットと画素（パディング含む）を持つBMPを作る
func randomBMP(t *testing.T, width, height int, bpp uint16, seed int64) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	fh, ih := validHeaders(width, height, bpp)
	fh.Reserved = rng.Uint32()
	ih.ColorsImportant = rng.Uint32()

	palette := make([]byte, PaletteLen(bpp)*4)
	rng.Read(palette)
	pix := make([]byte, Stride(width, bpp)*height)
	rng.Read(pix)

	return rawBMP(t, fh, ih, palette, pix)
}

var supportedDepths = []uint16{1, 4, 8, 24, 32}
