// Package report はデコード済みビットマップのメタデータを人が読める形で出力する。
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/transform"

	"github.com/zurustar/bmpkit/pkg/bmp"
)

// 表示するパレットエントリの上限
const maxPaletteRows = 16

var compressionNames = map[uint32]string{
	0: "none",
	1: "RLE8",
	2: "RLE4",
	3: "BITFIELDS",
}

// Write は name のビットマップ b の情報を w に書く。
// 数値は tag の言語の桁区切りで表記する。
func Write(w io.Writer, name string, b *bmp.Bitmap, tag language.Tag) error {
	if !b.Loaded() {
		return bmp.ErrNotLoaded
	}

	p := message.NewPrinter(tag)
	fh, ih := b.FileHeader(), b.InfoHeader()
	pal := b.Palette()

	compression, ok := compressionNames[ih.Compression]
	if !ok {
		compression = "unknown"
	}

	rowBytes := (b.Width()*int(b.BitsPerPixel()) + 7) / 8

	lines := []struct {
		label string
		value string
	}{
		{"File", name},
		{"File size", p.Sprintf("%d bytes", fh.FileSize)},
		{"Dimensions", p.Sprintf("%d x %d", b.Width(), b.Height())},
		{"Bits per pixel", p.Sprintf("%d", b.BitsPerPixel())},
		{"Planes", p.Sprintf("%d", ih.Planes)},
		{"Compression", p.Sprintf("%d (%s)", ih.Compression, compression)},
		{"Pixel offset", p.Sprintf("%d", fh.PixelDataOffset)},
		{"Palette", p.Sprintf("%d entries", len(pal))},
		{"Stride", p.Sprintf("%d bytes (%d padding)", b.Stride(), b.Stride()-rowBytes)},
		{"Image size", p.Sprintf("%d bytes (header says %d)", len(b.Pix()), ih.ImageSizeBytes)},
		{"Resolution", p.Sprintf("%d x %d px/m", ih.XPixelsPerMeter, ih.YPixelsPerMeter)},
		{"Colors used", p.Sprintf("%d (%d important)", ih.ColorsUsed, ih.ColorsImportant)},
	}

	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%-15s %s\n", l.label+":", l.value)
	}

	for i, c := range pal {
		if i == maxPaletteRows {
			p.Fprintf(&sb, "  ... %d more\n", len(pal)-maxPaletteRows)
			break
		}
		fmt.Fprintf(&sb, "  [%3d] #%02X%02X%02X a=%02X\n", i, c.R(), c.G(), c.B(), c.A())
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// ParseLang は言語タグを解釈する。空文字なら英語。
func ParseLang(s string) (language.Tag, error) {
	if s == "" {
		return language.English, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language tag %q: %w", s, err)
	}
	return tag, nil
}

// nopCloser は変換なしの出力を io.WriteCloser に見せる
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// EncodeWriter は出力文字コードに応じて w を包む。
// shift_jis の場合は Close で変換器の残りを書き出す。
func EncodeWriter(w io.Writer, encoding string) (io.WriteCloser, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return nopCloser{w}, nil
	case "shift_jis", "sjis", "cp932":
		return transform.NewWriter(w, japanese.ShiftJIS.NewEncoder()), nil
	}
	return nil, fmt.Errorf("unsupported output encoding: %s", encoding)
}
