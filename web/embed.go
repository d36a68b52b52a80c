// Package web holds the static front-end served by `lexidx serve`.
package web

import _ "embed"

// IndexHTML is the search page served at / and /index.html.
//
//go:embed index.html
var IndexHTML []byte

// IndexJS is the script loaded by IndexHTML.
//
//go:embed index.js
var IndexJS []byte
