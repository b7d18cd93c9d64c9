// Package app はプロセス全体の起動から停止までを制御する
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dashserve/internal/banner"
	"dashserve/internal/browser"
	"dashserve/internal/config"
	"dashserve/internal/server"
)

// App は設定に従ってサーバーとブラウザ起動をまとめて動かす
type App struct {
	config   *config.Config
	out      io.Writer
	launcher *browser.Launcher
}

// Option は App の生成オプション
type Option func(*App)

// WithOutput はバナーの出力先を指定する
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// WithLauncher はブラウザの起動方法を差し替える
func WithLauncher(l *browser.Launcher) Option {
	return func(a *App) {
		a.launcher = l
	}
}

// New は新しい App を作成する
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		config:   cfg,
		out:      os.Stdout,
		launcher: browser.New(cfg.Browser.Delay),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run は作業ディレクトリをルートに移し、サーバーを起動して停止まで待つ。
// SIGINT / SIGTERM または ctx のキャンセルで停止する。
// ポートが確保できない場合はバナーを出さずにエラーを返す。
func (a *App) Run(ctx context.Context) error {
	// 起動処理の途中で届いたシグナルも停止要求として扱う
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// 停止が始まったらシグナルの登録を外す。2回目のシグナルは既定の動作 (強制終了) になる
	context.AfterFunc(ctx, stop)

	root := a.config.Static.Root
	if err := os.Chdir(root); err != nil {
		return fmt.Errorf("作業ディレクトリの変更に失敗 (%s): %w", root, err)
	}

	srv := server.New(a.config)
	if err := srv.Listen(); err != nil {
		return err
	}

	port := srv.Port()
	banner.Print(a.out, banner.Info{
		Root:        root,
		URL:         a.config.BaseURL(port),
		OpenBrowser: a.config.Browser.Enabled,
	})

	if a.config.Browser.Enabled {
		// 結果は待たない
		a.launcher.Launch(a.config.IndexURL(port))
	}

	if err := srv.Start(ctx); err != nil {
		return err
	}

	banner.Farewell(a.out)
	return nil
}
