// Package preview はウィンドウを開けない環境向けに、画像を端末へ
// ANSI 24ビットカラーのブロックとして描画する。
package preview

import (
	"bufio"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
)

// Size は幅が maxCols を超える場合に縦横比を保って縮小した大きさを返す
func Size(width, height, maxCols int) (int, int) {
	if width <= maxCols || maxCols <= 0 {
		return width, height
	}
	h := height * maxCols / width
	if h < 1 && height > 0 {
		h = 1
	}
	return maxCols, h
}

// Render は img を1画素あたり空白2文字の背景色で描画する
func Render(w io.Writer, img image.Image, maxCols int) error {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	cols, rows := Size(b.Dx(), b.Dy(), maxCols)
	src := img
	if cols != b.Dx() {
		dst := image.NewNRGBA(image.Rect(0, 0, cols, rows))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		src = dst
	}

	sb := src.Bounds()
	bw := bufio.NewWriter(w)
	for y := sb.Min.Y; y < sb.Max.Y; y++ {
		for x := sb.Min.X; x < sb.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			fmt.Fprintf(bw, "\x1b[48;2;%d;%d;%dm  ", r>>8, g>>8, bl>>8)
		}
		bw.WriteString("\x1b[0m\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
