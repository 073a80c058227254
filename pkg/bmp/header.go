package bmp

import (
	"fmt"
	"io"
)

const (
	fileHeaderLen = 14 // BITMAPFILEHEADER
	infoHeaderLen = 40 // BITMAPINFOHEADER
	headersLen    = fileHeaderLen + infoHeaderLen
)

// Magic はBMPファイルの先頭2バイト
var Magic = [2]byte{'B', 'M'}

// FileHeader はBMPファイルヘッダー (14バイト)
type FileHeader struct {
	Magic           [2]byte // "BM"
	FileSize        uint32  // ファイルサイズ（検証しない）
	Reserved        uint32  // 予約（そのまま保持）
	PixelDataOffset uint32  // 画素データまでのオフセット
}

// InfoHeader は情報ヘッダー (BITMAPINFOHEADER, 40バイト)
type InfoHeader struct {
	HeaderSize      uint32 // ヘッダーサイズ (40のみ)
	Width           uint32 // 幅
	Height          uint32 // 高さ（トップダウンは非対応）
	Planes          uint16 // プレーン数
	BitsPerPixel    uint16 // ビット深度 (1, 4, 8, 24, 32)
	Compression     uint32 // 圧縮方式 (0 = BI_RGB を想定)
	ImageSizeBytes  uint32 // 画像データサイズ
	XPixelsPerMeter uint32 // 水平解像度
	YPixelsPerMeter uint32 // 垂直解像度
	ColorsUsed      uint32 // 使用色数
	ColorsImportant uint32 // 重要な色数
}

// SupportedBitDepth はビット深度がこのコーデックで扱えるかどうかを返す
func SupportedBitDepth(bpp uint16) bool {
	switch bpp {
	case 1, 4, 8, 24, 32:
		return true
	}
	return false
}

// ParseHeaders はファイルヘッダーと情報ヘッダーを読み込んで検証する。
// マジックが "BM" でなければ ErrNotABitmap、ヘッダーサイズが40でなければ
// ErrUnsupportedHeader、ビット深度が非対応なら ErrUnsupportedBitDepth を返す。
func ParseHeaders(r io.Reader) (FileHeader, InfoHeader, error) {
	var fh FileHeader
	var ih InfoHeader

	// マジックは整数としてではなくそのまま読む
	if _, err := io.ReadFull(r, fh.Magic[:]); err != nil {
		return fh, ih, readErr("magic", err)
	}
	if fh.Magic != Magic {
		return fh, ih, fmt.Errorf("%w: magic %q", ErrNotABitmap, fh.Magic[:])
	}

	hr := headerReader{r: r}
	fh.FileSize = hr.u32()
	fh.Reserved = hr.u32()
	fh.PixelDataOffset = hr.u32()

	ih.HeaderSize = hr.u32()
	ih.Width = hr.u32()
	ih.Height = hr.u32()
	ih.Planes = hr.u16()
	ih.BitsPerPixel = hr.u16()
	ih.Compression = hr.u32()
	ih.ImageSizeBytes = hr.u32()
	ih.XPixelsPerMeter = hr.u32()
	ih.YPixelsPerMeter = hr.u32()
	ih.ColorsUsed = hr.u32()
	ih.ColorsImportant = hr.u32()
	if hr.err != nil {
		return fh, ih, fmt.Errorf("header: %w", hr.err)
	}

	if ih.HeaderSize != infoHeaderLen {
		return fh, ih, fmt.Errorf("%w: header size %d", ErrUnsupportedHeader, ih.HeaderSize)
	}
	if !SupportedBitDepth(ih.BitsPerPixel) {
		return fh, ih, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, ih.BitsPerPixel)
	}

	return fh, ih, nil
}

// WriteHeaders は両ヘッダーを読み込み時と同じフィールド順で書き込む。
// 検証は行わない。
func WriteHeaders(w io.Writer, fh FileHeader, ih InfoHeader) error {
	if _, err := w.Write(fh.Magic[:]); err != nil {
		return writeErr("magic", err)
	}

	hw := headerWriter{w: w}
	hw.u32(fh.FileSize)
	hw.u32(fh.Reserved)
	hw.u32(fh.PixelDataOffset)

	hw.u32(ih.HeaderSize)
	hw.u32(ih.Width)
	hw.u32(ih.Height)
	hw.u16(ih.Planes)
	hw.u16(ih.BitsPerPixel)
	hw.u32(ih.Compression)
	hw.u32(ih.ImageSizeBytes)
	hw.u32(ih.XPixelsPerMeter)
	hw.u32(ih.YPixelsPerMeter)
	hw.u32(ih.ColorsUsed)
	hw.u32(ih.ColorsImportant)
	if hw.err != nil {
		return fmt.Errorf("header: %w", hw.err)
	}
	return nil
}

// headerReader は最初のエラーを保持し、以降の読み込みを無視する
type headerReader struct {
	r   io.Reader
	err error
}

func (h *headerReader) u32() uint32 {
	return uint32(h.read(4))
}

func (h *headerReader) u16() uint16 {
	return uint16(h.read(2))
}

func (h *headerReader) read(width int) uint32 {
	if h.err != nil {
		return 0
	}
	v, err := ReadUint(h.r, width)
	if err != nil {
		h.err = err
	}
	return v
}

type headerWriter struct {
	w   io.Writer
	err error
}

func (h *headerWriter) u32(v uint32) {
	h.write(v, 4)
}

func (h *headerWriter) u16(v uint16) {
	h.write(uint32(v), 2)
}

func (h *headerWriter) write(v uint32, width int) {
	if h.err != nil {
		return
	}
	h.err = WriteUint(h.w, v, width)
}
