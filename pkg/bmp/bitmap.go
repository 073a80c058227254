// Package bmp は非圧縮のWindowsビットマップ (BMP) をデコード・エンコードする。
//
// 対応するのは BITMAPINFOHEADER (40バイト) を持つボトムアップ形式で、
// ビット深度は 1, 4, 8, 24, 32 のみ。RLE/BITFIELDS 圧縮やトップダウン形式は扱わない。
//
// デコードした画素バッファは行パディングも含めてそのまま保持するため、
// Decode の直後に Encode すればヘッダー・パレット・画素データがバイト単位で再現される。
package bmp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

// 幅・高さは符号付き32ビットで表せる範囲まで
const maxDimension = 1<<31 - 1

// noCopy は go vet の copylocks チェックで値コピーを検出させるためのマーカー
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Bitmap はヘッダー、パレット、画素バッファを所有する。
// 値としてコピーせず、複製が必要なら Clone を使うこと。
type Bitmap struct {
	noCopy noCopy

	fileHeader FileHeader
	infoHeader InfoHeader

	// infoHeader から写した値
	width  int
	height int
	bpp    uint16
	stride int

	palette Palette
	pix     []byte // ボトムアップ、行ごとに4バイト境界
	loaded  bool

	log *slog.Logger
}

// Option は Decode の動作を変更する
type Option func(*Bitmap)

// WithLogger はデコードの各段階をデバッグログに出力する
func WithLogger(l *slog.Logger) Option {
	return func(b *Bitmap) {
		b.log = l
	}
}

// Decode は r からビットマップを読み込む
func Decode(r io.Reader, opts ...Option) (*Bitmap, error) {
	b := &Bitmap{}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.Decode(r); err != nil {
		return nil, err
	}
	return b, nil
}

// Decode は r からヘッダー、パレット、画素データを読み込んで b を置き換える。
// 失敗した場合 b は未ロード状態になり、途中まで設定されたフィールドは使えない。
func (b *Bitmap) Decode(r io.Reader) error {
	b.loaded = false
	cr := &countingReader{r: r}

	// 1. ヘッダー
	fh, ih, err := ParseHeaders(cr)
	if err != nil {
		return err
	}
	b.fileHeader = fh
	b.infoHeader = ih

	// 2. 幾何情報
	width, height := int32(ih.Width), int32(ih.Height)
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: negative dimensions %dx%d (top-down bitmaps are not supported)",
			ErrUnsupportedHeader, width, height)
	}
	b.width = int(width)
	b.height = int(height)
	b.bpp = ih.BitsPerPixel
	b.debug("header parsed",
		"width", b.width, "height", b.height, "bpp", b.bpp,
		"compression", ih.Compression, "offset", fh.PixelDataOffset)

	// 3. パレット
	pal, err := LoadPalette(cr, b.bpp)
	if err != nil {
		return err
	}
	b.palette = pal
	b.debug("palette loaded", "entries", len(pal))

	// 4. パレット終端が画素データの開始位置と一致すること
	if cr.n != int64(fh.PixelDataOffset) {
		return fmt.Errorf("%w: palette ends at %d, header declares %d",
			ErrOffsetMismatch, cr.n, fh.PixelDataOffset)
	}

	// 5. 画素データ
	b.stride = Stride(b.width, b.bpp)
	pix, err := LoadPixels(cr, b.stride, b.height)
	if err != nil {
		return err
	}
	b.pix = pix
	b.debug("pixel data loaded", "stride", b.stride, "bytes", len(pix))

	b.loaded = true
	return nil
}

// Encode はファイルヘッダー、情報ヘッダー、パレット、画素データの順に書き込む。
// 幾何情報は一切変更しない。
func (b *Bitmap) Encode(w io.Writer) error {
	if !b.loaded {
		return ErrNotLoaded
	}

	bw := bufio.NewWriter(w)
	if err := WriteHeaders(bw, b.fileHeader, b.infoHeader); err != nil {
		return err
	}
	if err := StorePalette(bw, b.palette); err != nil {
		return err
	}
	if err := StorePixels(bw, b.pix); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return writeErr("flush", err)
	}
	return nil
}

// Pixel は (x, y) の色を返す。y=0 は画像の最上行。
// パレット形式ではパレットの色を、24/32ビットでは R | G<<8 | B<<16 を返す
// （32ビットのアルファバイトは含めない）。
func (b *Bitmap) Pixel(x, y int) (Color, error) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}

	// ボトムアップなので上下を反転する
	base := (b.height - y - 1) * b.stride

	switch b.bpp {
	case 1:
		i := base + x/8
		if err := b.checkPix(i, 1); err != nil {
			return 0, err
		}
		bit := (b.pix[i] >> (7 - x%8)) & 1
		return b.paletteAt(int(bit))
	case 4:
		i := base + x/2
		if err := b.checkPix(i, 1); err != nil {
			return 0, err
		}
		v := b.pix[i]
		if x%2 == 0 {
			v >>= 4
		}
		return b.paletteAt(int(v & 0x0F))
	case 8:
		i := base + x
		if err := b.checkPix(i, 1); err != nil {
			return 0, err
		}
		return b.paletteAt(int(b.pix[i]))
	case 24, 32:
		n := int(b.bpp) / 8
		i := base + x*n
		if err := b.checkPix(i, 3); err != nil {
			return 0, err
		}
		return Color(uint32(b.pix[i+2]) | uint32(b.pix[i+1])<<8 | uint32(b.pix[i])<<16), nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, b.bpp)
}

// checkPix は画素バッファが呼び出し側で縮められていた場合に備える
func (b *Bitmap) checkPix(i, n int) error {
	if i+n > len(b.pix) {
		return fmt.Errorf("%w: pixel buffer holds %d bytes, need %d", ErrOutOfBounds, len(b.pix), i+n)
	}
	return nil
}

func (b *Bitmap) paletteAt(i int) (Color, error) {
	if i >= len(b.palette) {
		return 0, fmt.Errorf("%w: palette index %d of %d", ErrOutOfBounds, i, len(b.palette))
	}
	return b.palette[i], nil
}

func (b *Bitmap) debug(msg string, args ...any) {
	if b.log != nil {
		b.log.Debug(msg, args...)
	}
}

// Loaded はデコード（または Create）に成功しているかどうかを返す
func (b *Bitmap) Loaded() bool { return b.loaded }

func (b *Bitmap) Width() int { return b.width }
func (b *Bitmap) Height() int { return b.height }
func (b *Bitmap) BitsPerPixel() uint16 { return b.bpp }
func (b *Bitmap) Stride() int { return b.stride }
func (b *Bitmap) FileHeader() FileHeader { return b.fileHeader }
func (b *Bitmap) InfoHeader() InfoHeader { return b.infoHeader }

// Palette はパレットのコピーを返す
func (b *Bitmap) Palette() Palette {
	return append(Palette(nil), b.palette...)
}

// SetPaletteEntry はパレットの i 番目を c に置き換える
func (b *Bitmap) SetPaletteEntry(i int, c Color) error {
	if i < 0 || i >= len(b.palette) {
		return fmt.Errorf("%w: palette index %d of %d", ErrOutOfBounds, i, len(b.palette))
	}
	b.palette[i] = c
	return nil
}

// Pix は内部の画素バッファをそのまま返す。
// 長さを変えるとヘッダーと食い違ったまま Encode されるので注意。
func (b *Bitmap) Pix() []byte {
	return b.pix
}

// Clone は b の完全な複製を返す
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{
		fileHeader: b.fileHeader,
		infoHeader: b.infoHeader,
		width:      b.width,
		height:     b.height,
		bpp:        b.bpp,
		stride:     b.stride,
		loaded:     b.loaded,
		log:        b.log,
	}
	if b.palette != nil {
		c.palette = append(Palette{}, b.palette...)
	}
	if b.pix != nil {
		c.pix = append([]byte{}, b.pix...)
	}
	return c
}

// Create は幅・高さ・ビット深度から整合したヘッダーを持つ空のビットマップを作る。
// パレットと画素はゼロで埋められ、そのまま Encode できる。
func Create(width, height int, bpp uint16) (*Bitmap, error) {
	if width < 0 || height < 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedHeader, width, height)
	}
	if !SupportedBitDepth(bpp) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bpp)
	}

	stride := Stride(width, bpp)
	imageSize := int64(stride) * int64(height)
	palLen := PaletteLen(bpp)
	offset := int64(headersLen + palLen*4)
	if offset+imageSize > 0xFFFFFFFF {
		return nil, fmt.Errorf("%w: image of %d bytes does not fit a BMP file", ErrUnsupportedHeader, imageSize)
	}

	return &Bitmap{
		fileHeader: FileHeader{
			Magic:           Magic,
			FileSize:        uint32(offset + imageSize),
			PixelDataOffset: uint32(offset),
		},
		infoHeader: InfoHeader{
			HeaderSize:     infoHeaderLen,
			Width:          uint32(width),
			Height:         uint32(height),
			Planes:         1,
			BitsPerPixel:   bpp,
			ImageSizeBytes: uint32(imageSize),
		},
		width:   width,
		height:  height,
		bpp:     bpp,
		stride:  stride,
		palette: make(Palette, palLen),
		pix:     make([]byte, imageSize),
		loaded:  true,
	}, nil
}
