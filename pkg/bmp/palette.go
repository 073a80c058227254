package bmp

import (
	"fmt"
	"io"
)

// Color はメモリ上の32ビット色。
// R | G<<8 | B<<16 | A<<24 の順に詰める。
type Color uint32

// PackColor はディスク上の B, G, R, A の4バイトから Color を作る
func PackColor(b, g, r, a byte) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24)
}

// Unpack は PackColor の逆変換。ディスク順 (B, G, R, A) で返す。
func (c Color) Unpack() (b, g, r, a byte) {
	return byte(c >> 16), byte(c >> 8), byte(c), byte(c >> 24)
}

func (c Color) R() byte { return byte(c) }
func (c Color) G() byte { return byte(c >> 8) }
func (c Color) B() byte { return byte(c >> 16) }
func (c Color) A() byte { return byte(c >> 24) }

// Palette はインデックスカラーの色テーブル
type Palette []Color

// PaletteLen はビット深度に対応するパレットのエントリ数を返す。
// 8ビットを超える深度ではパレットを持たない。
func PaletteLen(bpp uint16) int {
	if bpp > 8 {
		return 0
	}
	return 1 << bpp
}

// LoadPalette は bpp に応じた数のパレットエントリを読み込む。
// bpp が8を超える場合は何も読まずに空のパレットを返す。
func LoadPalette(r io.Reader, bpp uint16) (Palette, error) {
	n := PaletteLen(bpp)
	if n == 0 {
		return Palette{}, nil
	}

	pal := make(Palette, n)
	var entry [4]byte // BGRA
	for i := range pal {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return nil, readErr(fmt.Sprintf("palette entry %d of %d", i, n), err)
		}
		pal[i] = PackColor(entry[0], entry[1], entry[2], entry[3])
	}
	return pal, nil
}

// StorePalette は各エントリをディスク順 (B, G, R, A) の4バイトで書き込む
func StorePalette(w io.Writer, pal Palette) error {
	if len(pal) == 0 {
		return nil
	}

	buf := make([]byte, 0, len(pal)*4)
	for _, c := range pal {
		b, g, r, a := c.Unpack()
		buf = append(buf, b, g, r, a)
	}
	if _, err := w.Write(buf); err != nil {
		return writeErr("palette", err)
	}
	return nil
}
