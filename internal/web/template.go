package web

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"time"

	"github.com/smorrow/strikewatch/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Strikewatch</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.lightning { color: #b8860b; font-weight: bold; }
.muted { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>⚡ Strikewatch</h1>

<table>
<tr><th>Last event</th><td>
{{- if .LastEvent -}}
<span {{if eq (printf "%s" .LastEvent.Kind) "LIGHTNING"}}class="lightning"{{end}}>{{.LastEvent.Kind}}</span>
{{- if .LastEvent.DistanceKnown}} at {{.LastEvent.DistanceKm}} km{{end}}
 ({{rfc3339 .LastEvent.ObservedAt}}{{if .LastEvent.Alerted}}, alerted{{end}})
{{- else -}}
<span class="muted">none yet</span>
{{- end -}}
</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{rfc3339 .StartTime}}</td></tr>
</table>

<table>
<tr><th>Lightning</th><td>{{.Counts.Lightning}}</td></tr>
<tr><th>Disturbers</th><td>{{.Counts.Disturber}}</td></tr>
<tr><th>Noise</th><td>{{.Counts.Noise}}</td></tr>
<tr><th>Debounce drops</th><td>{{.Counts.DebounceDrops}}</td></tr>
<tr><th>Decode errors</th><td>{{.Counts.DecodeErrors}}</td></tr>
</table>

<table>
<tr><th>Alerts sent</th><td>{{.Dispatch.Sent}}</td></tr>
<tr><th>Alerts failed</th><td>{{.Dispatch.Failed}}</td></tr>
<tr><th>Alerts timed out</th><td>{{.Dispatch.TimedOut}}</td></tr>
</table>

<table>
<tr><th>Channels</th><td>{{range $i, $c := .Config.Channels}}{{if $i}}, {{end}}{{$c}}{{end}}</td></tr>
<tr><th>Threshold</th><td>{{.Config.ThresholdKm}} km</td></tr>
<tr><th>Quiet window</th><td>{{.Config.QuietWindowMs}} ms</td></tr>
<tr><th>Channel timeout</th><td>{{.Config.PerChannelTimeoutMs}} ms</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td><span class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</span> ({{.Config.Broker}})</td></tr>{{end}}
</table>

<p class="muted"><a href="/index.json">JSON</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		slog.Warn("render status page", "error", err)
	}
}
