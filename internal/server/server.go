package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"

	"dashserve/internal/config"

	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config) *Server {
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	// GET/HEAD 以外のメソッドには 405 を返す
	engine.HandleMethodNotAllowed = true

	s := &Server{
		config: cfg,
		engine: engine,
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
	s.setupRoutes()

	return s
}

// setupRoutes はミドルウェアとルートを設定する
func (s *Server) setupRoutes() {
	s.engine.Use(AccessLog(), gin.Recovery(), RequestID(), HeaderPolicy())

	files := gin.WrapH(newStaticHandler(s.config.Static.Root))
	s.engine.GET("/*filepath", files)
	s.engine.HEAD("/*filepath", files)
}

// Handler はリクエストを処理するハンドラーを返す
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Listen はリスナーを確保する。既に確保済みなら何もしない。
// ポートが使用中の場合はここでエラーになる。
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("%s で待ち受けできません: %w", s.httpServer.Addr, err)
	}
	s.listener = ln

	return nil
}

// Addr は確保済みリスナーのアドレスを返す。未確保なら nil。
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port は実際に待ち受けているポート番号を返す
func (s *Server) Port() int {
	if tcp, ok := s.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return s.config.Server.Port
}

// Start はサーバーを起動し、コンテキストがキャンセルされるまでブロックする。
// シグナルの扱いは呼び出し側がコンテキストで行う。
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	// シャットダウン用のチャンネル
	serveErrCh := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.listener.Addr())
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// 停止要求かサーバーのエラーを待つ
	select {
	case <-ctx.Done():
		log.Printf("停止要求を受けました: %v", context.Cause(ctx))
	case err := <-serveErrCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする。
// タイムアウトまでに終わらない接続は切断し、エラーにはしない。
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		log.Printf("%v 以内に終わらなかった接続を切断します", timeout)
		if closeErr := s.httpServer.Close(); closeErr != nil {
			log.Printf("接続の切断に失敗しました: %v", closeErr)
		}
		err = nil
	}
	if err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
