package bmp

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

// preallocLimit を超える画素データは読みながらバッファを伸ばす。
// ヘッダーが巨大なサイズを宣言していても、実データが無ければ確保しない。
const preallocLimit = 16 << 20

// Stride は1行あたりのバイト数（4バイト境界へのパディングを含む）を返す
func Stride(width int, bpp uint16) int {
	return ((width*int(bpp) + 31) / 32) * 4
}

// LoadPixels は stride*height バイトの画素データを読み込む。
// 足りなければ ErrTruncated を返し、ゼロ埋めはしない。
func LoadPixels(r io.Reader, stride, height int) ([]byte, error) {
	n := int64(stride) * int64(height)
	if n < 0 || n > math.MaxInt {
		return nil, fmt.Errorf("%w: pixel data size %d", ErrUnsupportedHeader, n)
	}
	if n == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	if n <= preallocLimit {
		buf.Grow(int(n))
	}
	got, err := buf.ReadFrom(io.LimitReader(r, n))
	if err != nil {
		return nil, readErr("pixel data", err)
	}
	if got < n {
		return nil, fmt.Errorf("%w: pixel data has %d of %d bytes", ErrTruncated, got, n)
	}
	return buf.Bytes(), nil
}

// StorePixels はバッファをそのまま書き込む。
// ヘッダーとの整合性は検証しない。
func StorePixels(w io.Writer, pix []byte) error {
	if len(pix) == 0 {
		return nil
	}
	if _, err := w.Write(pix); err != nil {
		return writeErr("pixel data", err)
	}
	return nil
}
