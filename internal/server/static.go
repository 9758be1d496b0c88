package server

import (
	"net/http"
	"path"
)

// staticFiles serves root like http.FileServer but answers 404 for a
// directory without an index.html instead of listing its contents.
func staticFiles(root http.FileSystem) http.Handler {
	files := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if isBareDir(root, name) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func isBareDir(root http.FileSystem, name string) bool {
	f, err := root.Open(name)
	if err != nil {
		return false
	}
	info, err := f.Stat()
	f.Close()
	if err != nil || !info.IsDir() {
		return false
	}

	index, err := root.Open(path.Join(name, "index.html"))
	if err != nil {
		return true
	}
	index.Close()
	return false
}
