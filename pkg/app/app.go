package app

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/zurustar/bmpkit/pkg/bmp"
	"github.com/zurustar/bmpkit/pkg/cli"
	"github.com/zurustar/bmpkit/pkg/fileutil"
	"github.com/zurustar/bmpkit/pkg/logger"
	"github.com/zurustar/bmpkit/pkg/preview"
	"github.com/zurustar/bmpkit/pkg/report"
	"github.com/zurustar/bmpkit/pkg/window"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger

	stdout io.Writer // レポートやプレビューの出力先
	stderr io.Writer // ログの出力先

	// GUI 表示。テストではウィンドウを開かない実装に差し替える
	runWindow func(name string, b *bmp.Bitmap, timeout time.Duration) error
}

// New Applicationを作成
func New() *Application {
	return &Application{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		runWindow: window.Run,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Command started", "command", app.config.Command, "file", app.config.InputPath)

	// 3. コマンドの実行
	var err error
	switch app.config.Command {
	case cli.CommandInfo:
		err = app.runInfo()
	case cli.CommandPixel:
		err = app.runPixel()
	case cli.CommandCopy:
		err = app.runCopy()
	case cli.CommandView:
		err = app.runView()
	default:
		err = fmt.Errorf("unknown command: %s", app.config.Command)
	}
	if err != nil {
		app.log.Error("Command failed", "command", app.config.Command, "error", err)
		return err
	}

	app.log.Info("Command finished", "command", app.config.Command)
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	err := logger.InitLogger(logger.Options{
		Level:  app.config.LogLevel,
		Format: app.config.LogFormat,
		Output: app.stderr,
	})
	if err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadBitmap ファイルを開いてビットマップをデコードする
func (app *Application) loadBitmap(path string) (*bmp.Bitmap, error) {
	r, err := fileutil.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap: %w", err)
	}
	defer r.Close()

	b, err := bmp.Decode(bufio.NewReader(r), bmp.WithLogger(app.log))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	app.log.Debug("Bitmap loaded", "file", path,
		"width", b.Width(), "height", b.Height(), "bpp", b.BitsPerPixel())
	return b, nil
}

// runInfo ヘッダー情報を表示
func (app *Application) runInfo() error {
	tag, err := report.ParseLang(app.config.Lang)
	if err != nil {
		return err
	}

	b, err := app.loadBitmap(app.config.InputPath)
	if err != nil {
		return err
	}

	w, err := report.EncodeWriter(app.stdout, app.config.Encoding)
	if err != nil {
		return err
	}
	if err := report.Write(w, filepath.Base(app.config.InputPath), b, tag); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

// runPixel 指定座標の色を表示
func (app *Application) runPixel() error {
	b, err := app.loadBitmap(app.config.InputPath)
	if err != nil {
		return err
	}

	x, y := app.config.X, app.config.Y
	c, err := b.Pixel(x, y)
	if err != nil {
		return fmt.Errorf("failed to read pixel: %w", err)
	}

	fmt.Fprintf(app.stdout, "(%d, %d) = 0x%08X  R=%d G=%d B=%d A=%d\n",
		x, y, uint32(c), c.R(), c.G(), c.B(), c.A())
	return nil
}

// runCopy デコードした内容をそのまま書き戻す
func (app *Application) runCopy() error {
	b, err := app.loadBitmap(app.config.InputPath)
	if err != nil {
		return err
	}

	w, err := fileutil.CreateWriter(app.config.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := b.Encode(w); err != nil {
		w.Close()
		return fmt.Errorf("failed to encode %s: %w", app.config.OutputPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", app.config.OutputPath, err)
	}

	app.log.Info("Bitmap written", "file", app.config.OutputPath, "bytes", b.FileHeader().FileSize)
	return nil
}

// runView ウィンドウまたは端末に表示
func (app *Application) runView() error {
	b, err := app.loadBitmap(app.config.InputPath)
	if err != nil {
		return err
	}

	if app.config.Headless {
		app.log.Debug("Headless preview", "cols", app.config.Columns)
		return preview.Render(app.stdout, b.Image(), app.config.Columns)
	}

	if err := app.runWindow(filepath.Base(app.config.InputPath), b, app.config.Timeout); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}
