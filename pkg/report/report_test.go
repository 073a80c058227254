package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/language"

	"github.com/zurustar/bmpkit/pkg/bmp"
)

func TestWrite_English(t *testing.T) {
	b, err := bmp.Create(1000, 100, 24)
	if err != nil {
		t.Fatalf("failed to create bitmap: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "big.bmp", b, language.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	// stride 3000, 画像 300,000 バイト、ファイル 300,054 バイト
	for _, want := range []string{
		"File:           big.bmp",
		"File size:      300,054 bytes",
		"Dimensions:     1,000 x 100",
		"Bits per pixel: 24",
		"Compression:    0 (none)",
		"Palette:        0 entries",
		"Stride:         3,000 bytes (0 padding)",
		"Image size:     300,000 bytes (header says 300,000)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestWrite_GermanGrouping(t *testing.T) {
	b, err := bmp.Create(1000, 100, 24)
	if err != nil {
		t.Fatalf("failed to create bitmap: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "big.bmp", b, language.German); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "300.054 bytes") {
		t.Errorf("expected German digit grouping, got:\n%s", buf.String())
	}
}

func TestWrite_Palette(t *testing.T) {
	b, err := bmp.Create(3, 1, 8)
	if err != nil {
		t.Fatalf("failed to create bitmap: %v", err)
	}
	if err := b.SetPaletteEntry(1, bmp.PackColor(0x30, 0x20, 0x10, 0x00)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "pal.bmp", b, language.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Stride:         4 bytes (1 padding)") {
		t.Errorf("expected stride line with padding, got:\n%s", out)
	}
	if !strings.Contains(out, "[  1] #102030 a=00") {
		t.Errorf("expected palette entry 1, got:\n%s", out)
	}
	if !strings.Contains(out, "... 240 more") {
		t.Errorf("expected truncated palette listing, got:\n%s", out)
	}
	if strings.Contains(out, "[ 16]") {
		t.Errorf("palette listing should stop at 16 entries:\n%s", out)
	}
}

func TestWrite_NotLoaded(t *testing.T) {
	var b bmp.Bitmap
	err := Write(&bytes.Buffer{}, "x.bmp", &b, language.English)
	if !errors.Is(err, bmp.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestParseLang(t *testing.T) {
	tag, err := ParseLang("")
	if err != nil || tag != language.English {
		t.Errorf("empty tag: got %v, %v", tag, err)
	}
	tag, err = ParseLang("ja")
	if err != nil || tag.String() != "ja" {
		t.Errorf("ja: got %v, %v", tag, err)
	}
	if _, err := ParseLang("en-US-!!"); err == nil {
		t.Error("expected error for malformed tag")
	}
}

func TestEncodeWriter_ShiftJIS(t *testing.T) {
	var buf bytes.Buffer
	w, err := EncodeWriter(&buf, "shift_jis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.Write([]byte("File: 画像.bmp\n")); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}

	want, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("File: 画像.bmp\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("expected % X, got % X", want, buf.Bytes())
	}
}

func TestEncodeWriter_UTF8(t *testing.T) {
	var buf bytes.Buffer
	w, err := EncodeWriter(&buf, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Write([]byte("画像"))
	w.Close()
	if buf.String() != "画像" {
		t.Errorf("expected passthrough, got %q", buf.String())
	}

	if _, err := EncodeWriter(&buf, "ebcdic"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}
