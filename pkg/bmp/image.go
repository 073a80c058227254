package bmp

import (
	"image"
	"image/color"
)

// Image は b を読み取り専用の image.Image として見せる。
// 色は Pixel から作り、アルファは常に不透明とする。
func (b *Bitmap) Image() image.Image {
	return imageView{b: b}
}

type imageView struct {
	b *Bitmap
}

func (v imageView) ColorModel() color.Model {
	return color.NRGBAModel
}

func (v imageView) Bounds() image.Rectangle {
	return image.Rect(0, 0, v.b.width, v.b.height)
}

func (v imageView) At(x, y int) color.Color {
	c, err := v.b.Pixel(x, y)
	if err != nil {
		return color.NRGBA{}
	}
	return c.NRGBA()
}

// NRGBA は c を不透明な color.NRGBA に変換する
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF}
}
