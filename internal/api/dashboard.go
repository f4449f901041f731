package api

import (
	"fmt"
	"net/http"

	"github.com/banshee-data/lanesim/internal/version"
)

// dashboardHTML is the root page. The highway iframe reloads itself every
// two seconds so the live simulation is visible without the Svelte UI.
const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>lanesim</title>
<style>
body { background: #0f1012; color: #ddd; font-family: sans-serif; margin: 1rem; }
h1 { font-size: 1.2rem; }
a { color: #2e86ab; }
iframe { border: 1px solid #333; background: #111; width: 100%%; display: block; margin-bottom: 1rem; }
.links { margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>lanesim <small>%s</small></h1>
<div class="links">
<a href="/api/sim">sim state</a> &middot;
<a href="/api/sim/cars">cars</a> &middot;
<a href="/api/sweep/status">sweep status</a> &middot;
<a href="/api/sweeps">stored sweeps</a> &middot;
<a href="/debug/">debug</a>
</div>
<iframe id="highway" src="/charts/highway" height="420"></iframe>
<iframe src="/charts/jam-probability" height="1000"></iframe>
<script>
setInterval(function () {
	var f = document.getElementById("highway");
	f.src = f.src;
}, 2000);
</script>
</body>
</html>`

// handleDashboard renders the root dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	doc := fmt.Sprintf(dashboardHTML, version.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}
