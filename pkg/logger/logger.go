package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var globalLogger *slog.Logger

// Options はロガーの出力設定
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // text または json
	Output io.Writer // nil なら標準エラー出力
}

// ParseLevel はログレベル名を slog.Level に変換する。大文字小文字は区別しない。
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level: %s", level)
}

// InitLogger はオプションに従ってslogを初期化し、デフォルトロガーにも設定する
func InitLogger(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	w := opts.Output
	if w == nil {
		// 標準出力はレポート用に空けておく
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return fmt.Errorf("invalid log format: %s", opts.Format)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger グローバルロガーを取得
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
