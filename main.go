package main

import (
	"context"
	"log"

	"dashserve/internal/app"
	"dashserve/internal/config"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// サーバーを起動し、停止まで待つ
	if err := app.New(cfg).Run(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
