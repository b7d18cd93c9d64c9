// Package server は、ダッシュボードの静的ファイルをHTTPで配信します。
//
// このパッケージは、HTTPサーバーの起動と停止、
// ルートディレクトリ配下のファイル配信、レスポンスヘッダーの付与を担当します。
//
// 責務:
//   - TCPリスナーの確保とHTTPサーバーの起動
//   - リクエストパスからルートディレクトリ配下のファイルへの対応付け
//   - すべてのレスポンスへの固定ヘッダー付与 (CORS / Cache-Control)
//   - シグナル受信時のグレースフルシャットダウン
//
// 仕様:
//   - ルーティングとミドルウェアは gin を使用
//   - パスの解決は http.Dir に任せ、ルート外には出ない
//   - 拡張子から判定できない Content-Type は mimetype で推定する
//   - ポート確保の失敗は Start / Listen のエラーとして返す
package server
