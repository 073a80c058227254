package bmp

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotABitmap は先頭2バイトが "BM" でない場合のエラー
	ErrNotABitmap = errors.New("bmp: not a bitmap")

	// ErrUnsupportedHeader は情報ヘッダーのサイズが40以外の場合のエラー
	ErrUnsupportedHeader = errors.New("bmp: unsupported info header")

	// ErrUnsupportedBitDepth はビット深度が 1, 4, 8, 24, 32 以外の場合のエラー
	ErrUnsupportedBitDepth = errors.New("bmp: unsupported bit depth")

	// ErrTruncated は必要なバイト数を読み切る前にストリームが終わった場合のエラー
	ErrTruncated = errors.New("bmp: truncated input")

	// ErrOffsetMismatch はパレット終端の位置が pixelDataOffset と一致しない場合のエラー
	ErrOffsetMismatch = errors.New("bmp: pixel data offset mismatch")

	// ErrNotLoaded はデコードに成功していないビットマップをエンコードしようとした場合のエラー
	ErrNotLoaded = errors.New("bmp: bitmap not loaded")

	// ErrOutOfBounds は座標が画像の範囲外の場合のエラー
	ErrOutOfBounds = errors.New("bmp: coordinate out of bounds")
)

// IOError は下位ストリームの読み書きに失敗したことを表す
type IOError struct {
	Op  string // "read" または "write"
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bmp: %s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// readErr は読み込みエラーを分類する。
// 短い読み込みは ErrTruncated、それ以外は IOError になる。
func readErr(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncated, what)
	}
	return fmt.Errorf("%s: %w", what, &IOError{Op: "read", Err: err})
}

func writeErr(what string, err error) error {
	return fmt.Errorf("%s: %w", what, &IOError{Op: "write", Err: err})
}
