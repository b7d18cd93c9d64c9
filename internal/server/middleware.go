package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 全レスポンスに付与するヘッダー
var policyHeaders = [...]struct {
	key   string
	value string
}{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET"},
	{"Cache-Control", "no-store, no-cache, must-revalidate"},
}

const requestIDKey = "request_id"

func applyHeaderPolicy(h http.Header) {
	for _, p := range policyHeaders {
		h.Set(p.key, p.value)
	}
}

// headerPolicyWriter はヘッダー送信の直前にもう一度ヘッダーを付け直す。
// http.ServeContent はエラー時に Cache-Control を削除するため。
type headerPolicyWriter struct {
	gin.ResponseWriter
}

func (w *headerPolicyWriter) WriteHeader(code int) {
	applyHeaderPolicy(w.Header())
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerPolicyWriter) WriteHeaderNow() {
	if !w.Written() {
		applyHeaderPolicy(w.Header())
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerPolicyWriter) Write(data []byte) (int, error) {
	if !w.Written() {
		applyHeaderPolicy(w.Header())
	}
	return w.ResponseWriter.Write(data)
}

func (w *headerPolicyWriter) WriteString(s string) (int, error) {
	if !w.Written() {
		applyHeaderPolicy(w.Header())
	}
	return w.ResponseWriter.WriteString(s)
}

// HeaderPolicy はステータスコードに関係なく固定ヘッダーを付与するミドルウェア
func HeaderPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		applyHeaderPolicy(c.Writer.Header())
		c.Writer = &headerPolicyWriter{ResponseWriter: c.Writer}
		c.Next()
	}
}

// RequestID はリクエストごとにIDを割り当てる。IDはアクセスログにだけ出力する。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestIDKey, uuid.NewString())
		c.Next()
	}
}

// accessLogFormatter はアクセスログの1行を組み立てる
func accessLogFormatter(p gin.LogFormatterParams) string {
	id, _ := p.Keys[requestIDKey].(string)
	return fmt.Sprintf("%s [%s] %s %s %d %s %dB %s\n",
		p.TimeStamp.Format(time.RFC3339),
		id,
		p.Method,
		p.Path,
		p.StatusCode,
		p.Latency,
		p.BodySize,
		p.ClientIP,
	)
}

// AccessLog は gin.DefaultWriter にアクセスログを書き出す
func AccessLog() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormatter,
		Output:    gin.DefaultWriter,
	})
}
