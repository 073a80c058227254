package window

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/zurustar/bmpkit/pkg/bmp"
	"github.com/zurustar/bmpkit/pkg/logger"
)

const (
	// ステータス行の高さ（ピクセル）
	statusHeight = 20
	// 初期ウィンドウの上限
	maxWindowWidth  = 1024
	maxWindowHeight = 768
	// 小さな画像を拡大するときの最大倍率
	maxInitialScale = 8
)

var (
	// 背景色（透過部分が分かるように暗いグレー）
	backgroundColor = color.RGBA{0x20, 0x20, 0x20, 0xFF}
	// テキスト色（白）
	textColor = color.White
	// デフォルトフォント
	defaultFace = text.NewGoXFace(basicfont.Face7x13)
)

// Viewer はEbitengineのゲームインターフェースを実装し、ビットマップを1枚表示する
type Viewer struct {
	name      string
	bitmap    *bmp.Bitmap
	image     *ebiten.Image // 最初の Draw で作る
	timeout   time.Duration
	startTime time.Time

	// Layout で受け取った画面サイズ
	screenWidth  int
	screenHeight int

	// カーソル下の画像座標
	cursorX, cursorY int
	cursorIn         bool
}

// NewViewer Viewerを作成
func NewViewer(name string, b *bmp.Bitmap, timeout time.Duration) *Viewer {
	return &Viewer{
		name:      name,
		bitmap:    b,
		timeout:   timeout,
		startTime: time.Now(),
	}
}

// Update 毎フレームの更新処理
func (v *Viewer) Update() error {
	if v.timeout > 0 && time.Since(v.startTime) >= v.timeout {
		logger.GetLogger().Info("Timeout reached, closing viewer", "timeout", v.timeout)
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	sx, sy := ebiten.CursorPosition()
	v.cursorX, v.cursorY, v.cursorIn = screenToImage(sx, sy,
		v.bitmap.Width(), v.bitmap.Height(), v.screenWidth, v.imageAreaHeight())
	return nil
}

func (v *Viewer) imageAreaHeight() int {
	h := v.screenHeight - statusHeight
	if h < 0 {
		return 0
	}
	return h
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	w, h := v.bitmap.Width(), v.bitmap.Height()
	if w > 0 && h > 0 {
		if v.image == nil {
			v.image = ebiten.NewImageFromImage(v.bitmap.Image())
		}
		scale, offX, offY := fit(w, h, v.screenWidth, v.imageAreaHeight())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(offX, offY)
		screen.DrawImage(v.image, op)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(4, float64(v.screenHeight-statusHeight+3))
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, statusText(v.bitmap, v.cursorX, v.cursorY, v.cursorIn), defaultFace, op)
}

// Layout 画面サイズを返す。ウィンドウのピクセルをそのまま使う。
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.screenWidth, v.screenHeight = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// fit は imgW x imgH の画像を areaW x areaH に縦横比を保って収める倍率と
// レターボックスのオフセットを返す
func fit(imgW, imgH, areaW, areaH int) (scale, offX, offY float64) {
	if imgW <= 0 || imgH <= 0 || areaW <= 0 || areaH <= 0 {
		return 1, 0, 0
	}
	scaleX := float64(areaW) / float64(imgW)
	scaleY := float64(areaH) / float64(imgH)
	scale = scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	offX = (float64(areaW) - float64(imgW)*scale) / 2
	offY = (float64(areaH) - float64(imgH)*scale) / 2
	return scale, offX, offY
}

// screenToImage はスクリーン座標を画像座標に変換する。
// レターボックスやステータス行の上なら ok は false。
func screenToImage(screenX, screenY, imgW, imgH, areaW, areaH int) (x, y int, ok bool) {
	if imgW <= 0 || imgH <= 0 || areaW <= 0 || areaH <= 0 {
		return 0, 0, false
	}
	scale, offX, offY := fit(imgW, imgH, areaW, areaH)

	fx := (float64(screenX) - offX) / scale
	fy := (float64(screenY) - offY) / scale
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y = int(fx), int(fy)
	if x >= imgW || y >= imgH {
		return 0, 0, false
	}
	return x, y, true
}

// statusText はステータス行の文字列を作る
func statusText(b *bmp.Bitmap, x, y int, in bool) string {
	s := fmt.Sprintf("%dx%d %d-bit", b.Width(), b.Height(), b.BitsPerPixel())
	if !in {
		return s
	}
	c, err := b.Pixel(x, y)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%s  (%d, %d) #%02X%02X%02X", s, x, y, c.R(), c.G(), c.B())
}

// initialWindowSize は画像が見やすい大きさのウィンドウサイズを返す。
// 小さい画像は整数倍に拡大し、大きい画像は上限に収める。
func initialWindowSize(imgW, imgH int) (int, int) {
	if imgW <= 0 || imgH <= 0 {
		return 320, 240
	}
	areaH := maxWindowHeight - statusHeight

	scale := 1
	for scale < maxInitialScale && imgW*(scale+1) <= maxWindowWidth && imgH*(scale+1) <= areaH {
		scale++
	}
	w, h := imgW*scale, imgH*scale

	if w > maxWindowWidth || h > areaH {
		s, _, _ := fit(imgW, imgH, maxWindowWidth, areaH)
		w, h = int(float64(imgW)*s), int(float64(imgH)*s)
	}
	if w < 160 {
		w = 160
	}
	if h < 1 {
		h = 1
	}
	return w, h + statusHeight
}

// Run GUIモードでウィンドウを実行
func Run(name string, b *bmp.Bitmap, timeout time.Duration) error {
	viewer := NewViewer(name, b, timeout)

	w, h := initialWindowSize(b.Width(), b.Height())
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - bmpkit", name))
	// リサイズ時は Layout が新しいサイズを受け取り、fit でレターボックス表示する
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}
