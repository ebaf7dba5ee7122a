package main

import (
	"html/template"
	"net/http"

	"github.com/tomz197/makemelaugh/internal/loop/server"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Make Me Laugh</title>
<style>
body { background: #111; color: #eee; font-family: monospace; max-width: 40em; margin: 3em auto; }
code { background: #222; padding: .3em .6em; }
td { padding: 0 1em; }
</style>
</head>
<body>
<h1>Make Me Laugh!</h1>
<p>Play in your terminal:</p>
<p><code>ssh -t -p {{.Port}} {{.Host}}</code></p>
<h2>Top laughs</h2>
{{if .Top}}
<table>
{{range $i, $e := .Top}}<tr><td>{{inc $i}}.</td><td>{{$e.Username}}</td><td>{{$e.Score}}s</td></tr>
{{end}}</table>
{{else}}
<p>No games finished yet.</p>
{{end}}
<p>{{.Sessions}} playing now</p>
</body>
</html>
`))

type pageData struct {
	Host     string
	Port     string
	Top      []server.TopScoreEntry
	Sessions int
}

// newScoreboardHandler serves the landing page with the live leaderboard.
func newScoreboardHandler(board *server.Scoreboard, displayHost, sshPort string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{
			Host:     displayHost,
			Port:     sshPort,
			Top:      board.Top(),
			Sessions: board.Sessions(),
		}
		if err := pageTemplate.Execute(w, data); err != nil {
			http.Error(w, "rendering page", http.StatusInternalServerError)
		}
	})
	return mux
}
