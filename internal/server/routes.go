package server

import (
	"net/http"

	"github.com/lexidx/lexidx/web"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.serveAsset(web.IndexHTML, "text/html; charset=utf-8"))
	mux.HandleFunc("GET /index.html", s.serveAsset(web.IndexHTML, "text/html; charset=utf-8"))
	mux.HandleFunc("GET /index.js", s.serveAsset(web.IndexJS, "text/javascript; charset=utf-8"))
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	var chain http.Handler = mux
	chain = s.recoverer(chain)
	chain = s.instrument(chain)
	return chain
}
