package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/climate-controller/internal/logic"
	"github.com/sweeney/climate-controller/internal/status"
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
	"state": func(on bool) string {
		return string(logic.StateOf(on))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Climate Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.editing { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Climate Controller</h1>

<h2>Readings</h2>
<table>
<tr><th>Temperature</th><td id="temperature">{{if .Ready}}{{.Reading.Temperature}} &deg;C{{else}}-{{end}}</td></tr>
<tr><th>Humidity</th><td id="humidity">{{if .Ready}}{{.Reading.Humidity}} %{{else}}-{{end}}</td></tr>
<tr><th>Mode</th><td class="{{if eq (printf "%s" .Mode) "EDITING"}}editing{{end}}">{{.Mode}}{{if eq (printf "%s" .Mode) "EDITING"}} ({{.Selection}}){{end}}</td></tr>
</table>

<h2>Outputs</h2>
<table>
<tr><th>Irrigation</th><td id="irrigation" class="{{if .Actuators.Irrigate}}on{{else}}off{{end}}">{{state .Actuators.Irrigate}}</td></tr>
<tr><th>Cooling</th><td id="cooling" class="{{if .Actuators.Cool}}on{{else}}off{{end}}">{{state .Actuators.Cool}}</td></tr>
<tr><th>Heating</th><td id="heating" class="{{if .Actuators.Heat}}on{{else}}off{{end}}">{{state .Actuators.Heat}}</td></tr>
</table>

<h2>Thresholds</h2>
<table>
<tr><th>Temperature min</th><td>{{.Thresholds.TempMin}}</td></tr>
<tr><th>Temperature max</th><td>{{.Thresholds.TempMax}}</td></tr>
<tr><th>Humidity min</th><td>{{.Thresholds.HumidMin}}</td></tr>
<tr><th>Humidity max</th><td>{{.Thresholds.HumidMax}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Irrigation ON</th><td>{{.Counts.IrrigationOn}}</td></tr>
<tr><th>Irrigation OFF</th><td>{{.Counts.IrrigationOff}}</td></tr>
<tr><th>Cooling ON</th><td>{{.Counts.CoolingOn}}</td></tr>
<tr><th>Cooling OFF</th><td>{{.Counts.CoolingOff}}</td></tr>
<tr><th>Heating ON</th><td>{{.Counts.HeatingOn}}</td></tr>
<tr><th>Heating OFF</th><td>{{.Counts.HeatingOff}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Backend</th><td>{{.Config.Backend}}</td></tr>
<tr><th>Dwell</th><td>{{.Config.DwellMs}}ms</td></tr>
<tr><th>Hold</th><td>{{.Config.HoldMs}}ms</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
