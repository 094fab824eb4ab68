package handlers

import (
	"net/http"
	"strings"

	"github.com/spf13/afero"
)

// NewImageFileServer は画像ディレクトリを prefix 以下で配信します (読み取り専用)。
// Content-Type は拡張子から決まる。ディレクトリ一覧は返さない。
func NewImageFileServer(fsys afero.Fs, dir, prefix string) http.Handler {
	httpFs := afero.NewHttpFs(fsys).Dir(dir)
	files := http.StripPrefix(prefix, http.FileServer(httpFs))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}
