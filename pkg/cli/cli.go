package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// サブコマンド名
const (
	CommandInfo  = "info"
	CommandPixel = "pixel"
	CommandCopy  = "copy"
	CommandView  = "view"
)

// 各サブコマンドが取る位置引数の数
var commandArity = map[string]int{
	CommandInfo:  1,
	CommandPixel: 3,
	CommandCopy:  2,
	CommandView:  1,
}

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	Command    string        // info, pixel, copy, view
	InputPath  string        // 入力BMPファイル（.zst 可）
	OutputPath string        // copy の出力先
	X, Y       int           // pixel の座標
	Timeout    time.Duration // view のタイムアウト（0は無制限）
	LogLevel   string        // ログレベル（debug, info, warn, error）
	LogFormat  string        // ログ形式（text, json）
	Lang       string        // レポートの数値表記に使う言語タグ
	Encoding   string        // レポートの出力文字コード（空は UTF-8）
	Columns    int           // ヘッドレスプレビューの最大桁数
	Headless   bool          // ヘッドレスモード
	ShowHelp   bool          // ヘルプ表示フラグ
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("bmpkit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&config.LogFormat, "log-format", "text", "ログ形式（text, json）")
	fs.StringVar(&config.Lang, "lang", "en", "数値表記の言語タグ")
	fs.StringVar(&config.Encoding, "encoding", "", "レポートの出力文字コード（utf-8, shift_jis）")
	fs.IntVar(&config.Columns, "cols", 80, "プレビューの最大桁数")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}
	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}
	if config.LogFormat == "text" {
		if logFormatEnv := os.Getenv("LOG_FORMAT"); logFormatEnv != "" {
			config.LogFormat = strings.ToLower(logFormatEnv)
		}
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}
	if config.LogFormat != "text" && config.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format: %s (must be text or json)", config.LogFormat)
	}
	if config.Columns < 1 {
		return nil, fmt.Errorf("cols must be positive, got %d", config.Columns)
	}

	// ヘルプ表示時はサブコマンドを要求しない
	if config.ShowHelp {
		return config, nil
	}

	if err := parseCommand(config, fs.Args()); err != nil {
		return nil, err
	}
	return config, nil
}

// parseCommand は位置引数からサブコマンドとその引数を取り出す
func parseCommand(config *Config, positional []string) error {
	if len(positional) == 0 {
		return errors.New("no command given (want info, pixel, copy, or view)")
	}

	config.Command = positional[0]
	rest := positional[1:]

	arity, ok := commandArity[config.Command]
	if !ok {
		return fmt.Errorf("unknown command: %s", config.Command)
	}
	if len(rest) != arity {
		return fmt.Errorf("%s takes %d argument(s), got %d", config.Command, arity, len(rest))
	}

	config.InputPath = rest[0]
	switch config.Command {
	case CommandCopy:
		config.OutputPath = rest[1]
	case CommandPixel:
		x, err := strconv.Atoi(rest[1])
		if err != nil {
			return fmt.Errorf("invalid x coordinate %q: %w", rest[1], err)
		}
		y, err := strconv.Atoi(rest[2])
		if err != nil {
			return fmt.Errorf("invalid y coordinate %q: %w", rest[2], err)
		}
		config.X, config.Y = x, y
	}
	return nil
}

// ブール型フラグは次の引数を値として取らない
var boolFlags = map[string]bool{
	"-h": true, "--h": true,
	"-help": true, "--help": true,
	"-headless": true, "--headless": true,
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// -t 5 のように値が続く場合は一緒に移動する
			if !boolFlags[arg] && !strings.Contains(arg, "=") &&
				i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return flags
	}
	// 位置引数が '-' で始まっても flag に解釈されないよう区切る
	flags = append(flags, "--")
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `bmpkit - uncompressed BMP inspector

Usage:
  bmpkit [options] <command> [arguments]

Commands:
  info <file>              ヘッダーとパレットの情報を表示
  pixel <file> <x> <y>     (x, y) の色を表示（y=0 は最上行）
  copy <in> <out>          デコードしてそのまま書き戻す
  view <file>              ウィンドウで表示（--headless なら端末に表示）

  ファイル名が .zst で終わる場合は zstd で伸張・圧縮する。
  ファイル名の大文字小文字は区別しない。

Options:
  -t, --timeout <seconds>     view を指定秒数後に終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --log-format <format>       ログ形式: text, json（デフォルト: text）
  --lang <tag>                info の数値表記（例: en, de, ja）
  --encoding <name>           info の出力文字コード: utf-8, shift_jis（デフォルト: utf-8）
  --cols <n>                  ヘッドレス表示の最大桁数（デフォルト: 80）
  --headless                  ヘッドレスモード（GUIなし）
  -h, --help                  このヘルプを表示

Environment Variables:
  HEADLESS=1                  ヘッドレスモードを有効化
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  LOG_LEVEL=<level>           ログレベル
  LOG_FORMAT=<format>         ログ形式

Examples:
  bmpkit info image.bmp
  bmpkit pixel image.bmp 10 20
  bmpkit copy image.bmp image.bmp.zst
  bmpkit --headless --cols 40 view image.bmp
`)
}
