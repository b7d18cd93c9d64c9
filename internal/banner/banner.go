// Package banner は起動時と終了時にコンソールへ表示するメッセージを組み立てる
package banner

import (
	"fmt"
	"io"
	"strings"
)

const (
	// Title はバナーに表示するアプリケーション名
	Title = "Budget Transparency Dashboard Server"
	width = 60
)

// Info はバナーに表示する内容
type Info struct {
	Root        string // 配信しているディレクトリ
	URL         string // サーバーのURL
	OpenBrowser bool   // ブラウザを開くかどうか
}

// Print は起動バナーを出力する
func Print(w io.Writer, info Info) {
	rule := strings.Repeat("=", width)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "🚀 %s\n", Title)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\n📂 配信ディレクトリ: %s\n", info.Root)
	fmt.Fprintf(w, "🌐 サーバーURL: %s\n", info.URL)
	if info.OpenBrowser {
		fmt.Fprintln(w, "\n✨ ブラウザでダッシュボードを開いています...")
	}
	fmt.Fprintln(w, "\n💡 Ctrl+C でサーバーを停止します")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// Farewell は終了メッセージを出力する
func Farewell(w io.Writer) {
	fmt.Fprintf(w, "\n\n👋 サーバーを停止しました。%s をご利用いただきありがとうございました!\n", Title)
}
