package netproc

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/logging"
	"github.com/muurk/slhttpd/internal/token"
)

// MonitorPath is where websocket clients receive token events.
const MonitorPath = "/__sl/monitor"

// maxFormSize bounds a POST body, matching the processor's small receive
// buffer.
const maxFormSize = 2048

var pagePool bytebufferpool.Pool

// Handler returns the emulated HTTP server's request handler.
func (p *Processor) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(MonitorPath, p.serveMonitor)
	mux.HandleFunc("/", p.servePage)
	return mux
}

func (p *Processor) serveMonitor(w http.ResponseWriter, r *http.Request) {
	if !p.Settings().Monitor {
		http.NotFound(w, r)
		return
	}
	p.monitor.ServeHTTP(w, r)
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (p *Processor) servePage(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
	}()

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		p.serveGet(rec, r)
	case http.MethodPost:
		p.servePost(rec, r)
	default:
		rec.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(rec, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (p *Processor) serveGet(w http.ResponseWriter, r *http.Request) {
	settings := p.Settings()
	name := cleanPagePath(r.URL.Path)

	data, err := readPage(settings.PageDir, name)
	if err != nil {
		if name == "index.html" && settings.ROMPages {
			data, err = p.romIndex()
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}

	ctype := contentType(name)
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "no-cache")

	html := strings.HasPrefix(ctype, "text/html")
	if r.Method == http.MethodHead {
		// HEAD raises no token events, so the length of a page with
		// tokens is unknown.
		if !html {
			w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	if html {
		buf := pagePool.Get()
		defer pagePool.Put(buf)
		p.substitute(buf, data)
		data = buf.B
	}

	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// substitute copies page into buf, replacing every user GET token that the
// event handler answers. Unanswered tokens are copied through unchanged.
func (p *Processor) substitute(buf *bytebufferpool.ByteBuffer, page []byte) {
	prefix := []byte(token.GetPrefix)
	nameLen := len(prefix) + token.Width

	for {
		i := bytes.Index(page, prefix)
		if i < 0 || len(page)-i < nameLen {
			_, _ = buf.Write(page)
			return
		}
		_, _ = buf.Write(page[:i])

		name := page[i : i+nameLen]
		resp := p.raise(&firmware.Event{
			Kind:      firmware.EventGetToken,
			TokenName: name,
		})
		if resp.Kind == firmware.ResponseSetTokenValue {
			value := resp.Value
			if len(value) > firmware.MaxTokenValueLen {
				value = value[:firmware.MaxTokenValueLen]
			}
			_, _ = buf.Write(value)
		} else {
			_, _ = buf.Write(name)
		}
		page = page[i+nameLen:]
	}
}

func (p *Processor) servePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	raised := 0
	for key, values := range r.PostForm {
		if _, ok := token.FromPostName([]byte(key)); !ok {
			continue
		}
		for _, v := range values {
			value := []byte(v)
			if len(value) > firmware.MaxTokenValueLen {
				value = value[:firmware.MaxTokenValueLen]
			}
			p.raise(&firmware.Event{
				Kind:       firmware.EventPostToken,
				TokenName:  []byte(key),
				TokenValue: value,
			})
			raised++
		}
	}

	logging.Debug("POST form processed",
		zap.String("path", r.URL.Path),
		zap.Int("tokens", raised),
	)

	target := r.Header.Get("Referer")
	if target == "" {
		target = r.URL.Path
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// cleanPagePath maps a URL path onto a page file name relative to the page
// root. Directory paths resolve to their index.html.
func cleanPagePath(urlPath string) string {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" || strings.HasSuffix(urlPath, "/") {
		name = path.Join(name, "index.html")
	}
	return name
}

func readPage(root, name string) ([]byte, error) {
	if root == "" {
		return nil, os.ErrNotExist
	}
	full := filepath.Join(root, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		full = filepath.Join(full, "index.html")
	}
	return os.ReadFile(full)
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

var romIndexTemplate = template.Must(template.New("rom").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Hostname}}</title></head>
<body>
<h1>{{.Hostname}}</h1>
<p>SimpleLink HTTP server on port {{.Port}}.</p>
<p>mDNS: {{if .MDNS}}on{{else}}off{{end}}</p>
{{- if .Get}}
<h2>GET tokens</h2>
<table>
{{- range .Get}}
<tr><td>{{.}}</td><td>__SL_G_U{{.}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- if .Post}}
<h2>POST tokens</h2>
{{- range .Post}}
<form method="post" action="/"><label>{{.}} <input name="__SL_P_U{{.}}"></label> <button>Send</button></form>
{{- end}}
{{- end}}
</body>
</html>
`))

type romIndexData struct {
	Settings
	Get  []string
	Post []string
}

// SetIndexTokens sets the token ids listed on the built-in index page. GET
// ids are rendered as token references, so the page shows live values.
func (p *Processor) SetIndexTokens(get, post []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexGet = append([]string(nil), get...)
	p.indexPost = append([]string(nil), post...)
}

func (p *Processor) romIndex() ([]byte, error) {
	p.mu.Lock()
	data := romIndexData{Settings: p.settings, Get: p.indexGet, Post: p.indexPost}
	p.mu.Unlock()

	var b bytes.Buffer
	if err := romIndexTemplate.Execute(&b, data); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
