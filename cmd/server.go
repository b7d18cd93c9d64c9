// Package main はダッシュボードサーバーのコマンドライン版です
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"dashserve/internal/app"
	"dashserve/internal/banner"
	"dashserve/internal/config"
)

func main() {
	// コマンドラインオプション
	var (
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 全インターフェース)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 8000)")
		root       = flag.String("root", "", "配信するディレクトリ (デフォルト: 実行ファイルのディレクトリ)")
		configPath = flag.String("config", os.Getenv("DASHSERVE_CONFIG"), "設定ファイル (.toml / .yaml)")
		noBrowser  = flag.Bool("no-browser", false, "起動時にブラウザを開かない")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println(banner.Title)
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	// 検証はコマンドラインオプションを反映した後に一度だけ行う
	cfg, err := config.Read(*configPath)
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *root != "" {
		abs, err := filepath.Abs(*root)
		if err != nil {
			log.Fatalf("ルートディレクトリの解決に失敗しました: %v", err)
		}
		cfg.Static.Root = abs
	}
	if *noBrowser {
		cfg.Browser.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("設定の検証に失敗しました: %v", err)
	}

	if err := app.New(cfg).Run(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
