package server

import (
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
)

// staticHandler はルートディレクトリ配下のファイルを配信する。
// 通常ファイルは ServeContent で直接返し、/index.html へのリダイレクトを避ける。
// ディレクトリや存在しないパスは http.FileServer の挙動に任せる。
type staticHandler struct {
	root  http.FileSystem
	files http.Handler
}

func newStaticHandler(root string) *staticHandler {
	dir := http.Dir(root)
	return &staticHandler{
		root:  dir,
		files: http.FileServer(dir),
	}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// http.Dir がルート外への移動を防ぐ
	name := path.Clean("/" + r.URL.Path)

	f, err := h.root.Open(name)
	if err != nil {
		h.files.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		h.files.ServeHTTP(w, r)
		return
	}

	if ct, ok := detectContentType(name, f); ok {
		w.Header().Set("Content-Type", ct)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// detectContentType は拡張子から判定できない場合だけ内容から Content-Type を推定する。
// 推定後は読み取り位置を先頭に戻す。
func detectContentType(name string, f http.File) (string, bool) {
	if ext := path.Ext(name); ext != "" && mime.TypeByExtension(ext) != "" {
		return "", false
	}

	m, err := mimetype.DetectReader(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil || err != nil {
		return "", false
	}
	return m.String(), true
}
