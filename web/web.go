// Package web embeds the browser shell: pages, manifest and service worker.
package web

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"
)

//go:embed static
var static embed.FS

// Pages are the client-side routes that all render the app page.
var Pages = []string{"/", "/sets", "/sets/new", "/sets/{setID}/edit", "/study/{setID}", "/quiz/{setID}"}

var assets = map[string]string{
	"/offline.html":  "static/offline.html",
	"/manifest.json": "static/manifest.json",
	"/app.js":        "static/app.js",
}

// Handler serves the pages and static assets. The service worker is not
// included; see ServiceWorker.
func Handler() http.Handler {
	mux := http.NewServeMux()
	for _, page := range Pages {
		pattern := "GET " + page
		if page == "/" {
			pattern += "{$}"
		}
		mux.HandleFunc(pattern, serveFile("static/index.html", "text/html; charset=utf-8"))
	}
	for route, file := range assets {
		mux.HandleFunc("GET "+route, serveFile(file, ""))
	}
	return mux
}

// ServiceWorker serves sw.js with a root scope. It is never cached.
func ServiceWorker(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Service-Worker-Allowed", "/")
	w.Header().Set("Cache-Control", "no-cache")
	serveFile("static/sw.js", "text/javascript; charset=utf-8")(w, r)
}

func serveFile(name, contentType string) http.HandlerFunc {
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(name))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(static, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}
