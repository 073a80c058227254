package fileutil

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdReadCloser は伸張器と元ファイルをまとめて閉じる
type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// OpenReader はファイルを開いて読み込みストリームを返す。
// パスが見つからなければ大文字小文字を無視して探し、
// 拡張子が .zst なら zstd として伸張しながら読む。
func OpenReader(path string) (io.ReadCloser, error) {
	actual, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", actual, err)
	}
	if !IsZstd(actual) {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd reader for %s: %w", actual, err)
	}
	return &zstdReadCloser{Decoder: dec, f: f}, nil
}

// zstdWriteCloser は Close で圧縮器をフラッシュしてからファイルを閉じる
type zstdWriteCloser struct {
	*zstd.Encoder
	f *os.File
}

func (z *zstdWriteCloser) Close() error {
	if err := z.Encoder.Close(); err != nil {
		z.f.Close()
		return fmt.Errorf("failed to finish zstd stream: %w", err)
	}
	return z.f.Close()
}

// CreateWriter はファイルを作成して書き込みストリームを返す。
// 拡張子が .zst なら zstd で圧縮しながら書く。呼び出し側は必ず Close すること。
func CreateWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if !IsZstd(path) {
		return f, nil
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create zstd writer for %s: %w", path, err)
	}
	return &zstdWriteCloser{Encoder: enc, f: f}, nil
}
