package bmp

import (
	"fmt"
	"io"
)

// ReadUint は r から width バイト (1〜4) をリトルエンディアンで読み込む。
// ホストのバイト順には依存しない。
func ReadUint(r io.Reader, width int) (uint32, error) {
	if width < 1 || width > 4 {
		return 0, fmt.Errorf("bmp: invalid integer width %d", width)
	}

	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:width]); err != nil {
		return 0, readErr(fmt.Sprintf("%d-byte integer", width), err)
	}

	var v uint32
	for i := width - 1; i >= 0; i-- {
		v |= uint32(buf[i]) << (8 * i)
	}
	return v, nil
}

// WriteUint は v の下位 width バイトをリトルエンディアンで w に書き込む。
// width を超える上位ビットは切り捨てる。
func WriteUint(w io.Writer, v uint32, width int) error {
	if width < 1 || width > 4 {
		return fmt.Errorf("bmp: invalid integer width %d", width)
	}

	var buf [4]byte
	for i := 0; i < width; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	if _, err := w.Write(buf[:width]); err != nil {
		return writeErr(fmt.Sprintf("%d-byte integer", width), err)
	}
	return nil
}

// countingReader は読み込んだバイト数を数える。
// Seek できないストリームでもパレット終端の位置を検証するために使う。
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
