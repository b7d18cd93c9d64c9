// Package browser は起動直後に既定のブラウザでダッシュボードを開く。
// 失敗してもログに残すだけで、呼び出し元には影響しない。
package browser

import (
	"fmt"
	"io"
	"log"
	"time"

	pkgbrowser "github.com/pkg/browser"
)

func init() {
	// xdg-open などの出力をコンソールに流さない
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// Opener はURLをブラウザで開く関数
type Opener func(url string) error

// Launcher は一定時間待ってから一度だけブラウザを開く
type Launcher struct {
	Delay time.Duration
	Open  Opener
}

// New は OS 既定のブラウザを使う Launcher を作成する
func New(delay time.Duration) *Launcher {
	return &Launcher{
		Delay: delay,
		Open:  pkgbrowser.OpenURL,
	}
}

// Launch はバックグラウンドでブラウザを開き、結果を一度だけ送るチャンネルを返す。
// 再試行やサーバーの準備確認はしない。
func (l *Launcher) Launch(url string) <-chan error {
	done := make(chan error, 1)

	go func() {
		defer close(done)

		if l.Delay > 0 {
			time.Sleep(l.Delay)
		}

		err := l.open(url)
		if err != nil {
			log.Printf("ブラウザを開けませんでした (%s): %v", url, err)
		}
		done <- err
	}()

	return done
}

// open は Opener の panic もエラーとして扱う
func (l *Launcher) open(url string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ブラウザ起動中に panic: %v", r)
		}
	}()

	if l.Open == nil {
		return fmt.Errorf("ブラウザの起動方法が設定されていません")
	}
	return l.Open(url)
}
