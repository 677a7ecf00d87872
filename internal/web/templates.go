package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/bitboard-tic-tac-toe/internal/app"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/domain"
	"github.com/jaminalder/bitboard-tic-tac-toe/internal/render"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(st domain.State, column, row int) string {
			c, err := st.Cell(column, row)
			if err != nil || c == domain.Empty {
				return ""
			}
			return c.String()
		},
		"status": render.Status,
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1>
<form action="/game" method="post">
  <select name="mode">
    <option value="single">Play the computer</option>
    <option value="multiplayer">Two players</option>
  </select>
  <button>Create</button>
</form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		log.Error().Err(err).Str("template", t.Name()).Msg("render failed")
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <p class="status">{{status .State}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{$id := .ID}}{{$st := .State}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      <form hx-post="/game/{{$id}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="c" value="{{$c}}">
        <input type="hidden" name="r" value="{{$r}}">
        <button type="submit">{{cellSymbol $st $c $r}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
</div>
`

type boardData struct {
	ID    string
	State domain.State
	Error string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
	return boardData{ID: gs.ID, State: gs.Game.State(), Error: errMsg}
}

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := app.NewPlayerID()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
	return v
}
