package http

import nethttp "net/http"

func dashboardHandler(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		nethttp.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte(dashboardHTML))
}

func faviconHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.WriteHeader(nethttp.StatusNoContent)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>QDash Calibration Dashboard</title>
  <style>
    :root {
      --qd-purple: #3a2e6e;
      --qd-purple-2: #5a4aa8;
      --bg: #f6f6f9;
      --paper: #fff;
      --text: #2d2d34;
      --muted: #76767f;
      --line: #ddd;
      --line-soft: #eee;
      --head: #f0f0f4;
      --ok-bg: #dff0d8;
      --ok-text: #3c763d;
      --bad-bg: #f2dede;
      --bad-text: #a94442;
    }

    * { box-sizing: border-box; }

    body {
      margin: 0;
      background: var(--bg);
      color: var(--text);
      font-family: "Helvetica Neue", Helvetica, Arial, sans-serif;
      font-size: 14px;
      line-height: 1.45;
    }

    a { color: #5a4aa8; text-decoration: none; }
    a:hover { text-decoration: underline; }

    header {
      background: linear-gradient(to right, var(--qd-purple) 0, var(--qd-purple-2) 100%);
      box-shadow: 0 2px 5px rgba(0, 0, 0, 0.15);
    }

    .container {
      margin: 0 auto;
      padding: 0 15px;
      width: 100%;
      max-width: 1480px;
    }

    .header-inner {
      min-height: 64px;
      display: flex;
      align-items: center;
      justify-content: space-between;
      gap: 16px;
    }

    .navbar-brand { color: #fff; font-size: 22px; font-weight: 300; }
    .navbar-brand strong { font-weight: 600; }
    .navbar-note { color: rgba(255, 255, 255, 0.85); font-size: 13px; text-align: right; }

    main { padding: 18px 0 32px; }

    .tabs {
      display: flex;
      flex-wrap: wrap;
      gap: 8px;
      margin-bottom: 14px;
      border-bottom: 1px solid var(--line);
      padding-bottom: 8px;
    }

    .tab-btn {
      border: 1px solid #cfc9e5;
      background: #fff;
      color: var(--qd-purple);
      padding: 6px 12px;
      border-radius: 4px;
      cursor: pointer;
      font-size: 13px;
    }
    .tab-btn.active { background: var(--qd-purple); color: #fff; }

    .tab-pane { display: none; }
    .tab-pane.active { display: block; }

    .panel {
      background: var(--paper);
      border: 1px solid var(--line);
      border-radius: 4px;
      margin-bottom: 16px;
    }
    .panel-heading {
      background: var(--head);
      border-bottom: 1px solid var(--line);
      padding: 8px 12px;
    }
    .panel-heading h3 { margin: 0; font-size: 15px; font-weight: 600; }
    .panel-body { padding: 12px; overflow-x: auto; }

    .filter-row {
      display: flex;
      flex-wrap: wrap;
      gap: 10px;
      align-items: center;
      margin-bottom: 10px;
    }
    .filter-row label { color: var(--muted); font-size: 13px; }
    .filter-row select, .filter-row input {
      padding: 4px 6px;
      border: 1px solid var(--line);
      border-radius: 3px;
      font-size: 13px;
    }

    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid var(--line-soft); padding: 6px 8px; text-align: left; font-size: 13px; }
    th { background: var(--head); }

    .pill { padding: 1px 8px; border-radius: 10px; font-size: 12px; }
    .pill.ok { background: var(--ok-bg); color: var(--ok-text); }
    .pill.bad { background: var(--bad-bg); color: var(--bad-text); }

    .mono { font: 12px/1.35 Menlo, Monaco, Consolas, monospace; }
    .hint { color: var(--muted); font-size: 12px; margin-top: 6px; }
    canvas { max-width: 100%; }
  </style>
</head>
<body>
  <header>
    <div class="container header-inner">
      <div class="navbar-brand"><strong>QDash</strong> Calibration Dashboard</div>
      <div class="navbar-note">Chip calibration browsing, analysis, and agent monitoring</div>
    </div>
  </header>

  <main>
    <div class="container">
      <div class="tabs">
        <button class="tab-btn active" data-tab="chip">Chip</button>
        <button class="tab-btn" data-tab="execution">Executions</button>
        <button class="tab-btn" data-tab="analysis">Analysis</button>
        <button class="tab-btn" data-tab="cdf">CDF</button>
        <button class="tab-btn" data-tab="histogram">Histogram</button>
        <button class="tab-btn" data-tab="views">Saved Views</button>
        <button class="tab-btn" data-tab="services">Services</button>
      </div>

      <section id="tab-chip" class="tab-pane active">
        <article class="panel">
          <div class="panel-heading"><h3>Chip Browser</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <label for="chip-select">Chip</label>
              <select id="chip-select"></select>
              <label for="chip-task">Task</label>
              <select id="chip-task">
                <option value="CheckRabi">CheckRabi</option>
                <option value="CheckT1">CheckT1</option>
                <option value="CheckT2Echo">CheckT2Echo</option>
                <option value="CheckRamsey">CheckRamsey</option>
              </select>
              <label for="chip-date">Date</label>
              <input id="chip-date" type="text" placeholder="latest or YYYY-MM-DD" size="12" />
            </div>
            <table>
              <thead><tr><th>QID</th><th>Task</th><th>Status</th><th>Started</th><th>Message</th></tr></thead>
              <tbody id="chip-body"><tr><td colspan="5">Loading...</td></tr></tbody>
            </table>
            <div class="hint">Canonical URL: <span class="mono" id="chip-canonical"></span></div>
          </div>
        </article>
        <article class="panel">
          <div class="panel-heading"><h3>Known Chips</h3></div>
          <div class="panel-body">
            <table>
              <thead><tr><th>Chip</th><th>Qubits</th><th>Installed</th><th>Last calibrated</th></tr></thead>
              <tbody id="chips-body"><tr><td colspan="4">Loading...</td></tr></tbody>
            </table>
          </div>
        </article>
      </section>

      <section id="tab-execution" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Running Executions</h3></div>
          <div class="panel-body">
            <table>
              <thead><tr><th>Execution</th><th>Chip</th><th>Status</th><th>Started</th><th>Tasks</th></tr></thead>
              <tbody id="running-body"><tr><td colspan="5">Loading...</td></tr></tbody>
            </table>
          </div>
        </article>
        <article class="panel">
          <div class="panel-heading"><h3>Completed Executions (click row for detail)</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <label for="exec-chip">Chip</label>
              <input id="exec-chip" type="text" placeholder="all chips" size="12" />
            </div>
            <table>
              <thead><tr><th>Execution</th><th>Chip</th><th>Status</th><th>Elapsed</th><th>Failed</th></tr></thead>
              <tbody id="completed-body"><tr><td colspan="5">Loading...</td></tr></tbody>
            </table>
            <pre class="mono" id="exec-detail"></pre>
          </div>
        </article>
      </section>

      <section id="tab-analysis" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Parameter Timeseries</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <label for="ana-param">Parameter</label>
              <select id="ana-param"></select>
              <label for="ana-tag">Tag</label>
              <select id="ana-tag">
                <option value="daily">daily</option>
                <option value="weekly">weekly</option>
                <option value="manual">manual</option>
              </select>
            </div>
            <canvas id="ana-chart" width="760" height="240"></canvas>
            <div class="hint">Canonical URL: <span class="mono" id="ana-canonical"></span></div>
          </div>
        </article>
      </section>

      <section id="tab-cdf" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Cumulative Distributions</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <label for="cdf-range">Range</label>
              <select id="cdf-range">
                <option value="24h">24h</option>
                <option value="7d" selected>7d</option>
                <option value="30d">30d</option>
                <option value="all">all</option>
              </select>
            </div>
            <canvas id="cdf-chart" width="760" height="240"></canvas>
            <div class="hint">Canonical URL: <span class="mono" id="cdf-canonical"></span></div>
          </div>
        </article>
      </section>

      <section id="tab-histogram" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Parameter Histogram</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <label for="hist-param">Parameter</label>
              <select id="hist-param"></select>
              <label for="hist-threshold">Threshold</label>
              <input id="hist-threshold" type="text" placeholder="none" size="10" />
            </div>
            <canvas id="hist-chart" width="760" height="240"></canvas>
            <div class="hint">Canonical URL: <span class="mono" id="hist-canonical"></span></div>
          </div>
        </article>
      </section>

      <section id="tab-views" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Saved Views</h3></div>
          <div class="panel-body">
            <div class="filter-row">
              <input id="sv-name" type="text" placeholder="view name" size="18" />
              <button class="tab-btn" id="sv-save">Save current page state</button>
            </div>
            <table>
              <thead><tr><th>Name</th><th>Page</th><th>Query</th><th>Updated</th><th>Share</th></tr></thead>
              <tbody id="views-body"><tr><td colspan="5">Loading...</td></tr></tbody>
            </table>
          </div>
        </article>
      </section>

      <section id="tab-services" class="tab-pane">
        <article class="panel">
          <div class="panel-heading"><h3>Service Status</h3></div>
          <div class="panel-body">
            <table>
              <thead><tr><th>Service</th><th>Status</th><th>Detail</th></tr></thead>
              <tbody id="services-body"><tr><td colspan="3">Loading...</td></tr></tbody>
            </table>
          </div>
        </article>
        <article class="panel">
          <div class="panel-heading"><h3>Calibration Agents</h3></div>
          <div class="panel-body">
            <table>
              <thead><tr><th>Target</th><th>OK</th><th>Ping</th><th>Uptime</th><th>Mem</th><th>Goroutines</th></tr></thead>
              <tbody id="agents-body"><tr><td colspan="6">Loading...</td></tr></tbody>
            </table>
          </div>
        </article>
      </section>
    </div>
  </main>

  <script>
    "use strict";

    function qs(id) { return document.getElementById(id); }
    function esc(s) {
      return String(s == null ? "" : s)
        .replaceAll("&", "&amp;").replaceAll("<", "&lt;").replaceAll(">", "&gt;");
    }

    async function getJSON(url) {
      const resp = await fetch(url, { headers: { Accept: "application/json" } });
      const body = await resp.json();
      if (!resp.ok) throw new Error(body && body.error ? body.error : ("HTTP " + resp.status));
      return body;
    }

    // The address bar mirrors the API's default-elided canonical URL, so a
    // copied link reproduces exactly the non-default choices.
    function syncAddressBar(canonical) {
      if (!canonical) return;
      const i = canonical.indexOf("?");
      const search = i >= 0 ? canonical.slice(i) : "";
      if (window.location.search !== search) {
        history.replaceState(null, "", window.location.pathname + search);
      }
    }

    function pageQuery() {
      return window.location.search.replace(/^\?/, "");
    }

    document.querySelectorAll(".tab-btn[data-tab]").forEach((btn) => {
      btn.addEventListener("click", () => {
        document.querySelectorAll(".tab-btn[data-tab]").forEach((b) => b.classList.remove("active"));
        document.querySelectorAll(".tab-pane").forEach((p) => p.classList.remove("active"));
        btn.classList.add("active");
        qs("tab-" + btn.dataset.tab).classList.add("active");
        refreshTab(btn.dataset.tab);
      });
    });

    function activeTab() {
      const btn = document.querySelector(".tab-btn[data-tab].active");
      return btn ? btn.dataset.tab : "chip";
    }

    function drawLine(canvas, points) {
      const ctx = canvas.getContext("2d");
      ctx.clearRect(0, 0, canvas.width, canvas.height);
      if (!points || points.length < 2) return;
      const xs = points.map((p) => p[0]);
      const ys = points.map((p) => p[1]);
      const xMin = Math.min(...xs), xMax = Math.max(...xs);
      const yMin = Math.min(...ys), yMax = Math.max(...ys);
      const pad = 24;
      const sx = (x) => pad + ((x - xMin) / (xMax - xMin || 1)) * (canvas.width - 2 * pad);
      const sy = (y) => canvas.height - pad - ((y - yMin) / (yMax - yMin || 1)) * (canvas.height - 2 * pad);
      ctx.strokeStyle = "#5a4aa8";
      ctx.beginPath();
      points.forEach((p, i) => { i ? ctx.lineTo(sx(p[0]), sy(p[1])) : ctx.moveTo(sx(p[0]), sy(p[1])); });
      ctx.stroke();
    }

    function drawBars(canvas, bins) {
      const ctx = canvas.getContext("2d");
      ctx.clearRect(0, 0, canvas.width, canvas.height);
      if (!bins || !bins.length) return;
      const max = Math.max(...bins.map((b) => b.count)) || 1;
      const pad = 24;
      const bw = (canvas.width - 2 * pad) / bins.length;
      ctx.fillStyle = "#5a4aa8";
      bins.forEach((b, i) => {
        const h = ((canvas.height - 2 * pad) * b.count) / max;
        ctx.fillRect(pad + i * bw + 1, canvas.height - pad - h, bw - 2, h);
      });
    }

    async function loadParameters() {
      try {
        const body = await getJSON("/api/v1/parameters");
        const opts = body.data.map((p) =>
          '<option value="' + esc(p.name) + '">' + esc(p.display_name) + "</option>").join("");
        qs("ana-param").innerHTML = opts;
        qs("hist-param").innerHTML = opts;
      } catch (e) { /* parameter list is static; leave empty on failure */ }
    }

    async function loadChips() {
      const tbody = qs("chips-body");
      try {
        const body = await getJSON("/api/v1/chips");
        qs("chip-select").innerHTML = body.data.map((c) =>
          '<option value="' + esc(c.chip_id) + '">' + esc(c.chip_id) + "</option>").join("");
        tbody.innerHTML = body.data.map((c) =>
          "<tr><td>" + esc(c.chip_id) + "</td><td>" + esc(c.num_qubits) + "</td><td>" +
          esc(c.installed_at || "") + "</td><td>" + esc(c.last_calibrated_ago || "never") + "</td></tr>"
        ).join("") || '<tr><td colspan="4">No chips</td></tr>';
      } catch (e) {
        tbody.innerHTML = '<tr><td colspan="4">' + esc(e.message) + "</td></tr>";
      }
    }

    async function loadChipView() {
      const tbody = qs("chip-body");
      const params = new URLSearchParams();
      if (qs("chip-select").value) params.set("chip", qs("chip-select").value);
      if (qs("chip-task").value) params.set("task", qs("chip-task").value);
      if (qs("chip-date").value) params.set("date", qs("chip-date").value);
      try {
        const body = await getJSON("/api/v1/chip/view?" + params.toString());
        qs("chip-canonical").textContent = body.meta.canonical_url;
        syncAddressBar(body.meta.canonical_url);
        tbody.innerHTML = (body.data || []).map((t) =>
          "<tr><td>" + esc(t.qid) + "</td><td>" + esc(t.task_name) + "</td><td>" + esc(t.status) +
          "</td><td>" + esc(t.started_at || "") + "</td><td>" + esc(t.message || "") + "</td></tr>"
        ).join("") || '<tr><td colspan="5">No results</td></tr>';
      } catch (e) {
        tbody.innerHTML = '<tr><td colspan="5">' + esc(e.message) + "</td></tr>";
      }
    }

    async function loadExecutions() {
      try {
        const body = await getJSON("/api/v1/executions/running");
        qs("running-body").innerHTML = body.data.map((x) =>
          '<tr><td class="mono">' + esc(x.execution_id) + "</td><td>" + esc(x.chip_id) + "</td><td>" +
          esc(x.status) + "</td><td>" + esc(x.started_ago || "") + "</td><td>" + esc(x.task_count) + "</td></tr>"
        ).join("") || '<tr><td colspan="5">Nothing running</td></tr>';
      } catch (e) {
        qs("running-body").innerHTML = '<tr><td colspan="5">' + esc(e.message) + "</td></tr>";
      }

      const params = new URLSearchParams();
      if (qs("exec-chip").value) params.set("chip", qs("exec-chip").value);
      try {
        const body = await getJSON("/api/v1/executions/completed?" + params.toString());
        syncAddressBar(body.meta.canonical_url);
        qs("completed-body").innerHTML = body.data.map((x) =>
          '<tr data-id="' + esc(x.execution_id) + '"><td class="mono">' + esc(x.execution_id) +
          "</td><td>" + esc(x.chip_id) + "</td><td>" + esc(x.status) + "</td><td>" +
          esc(x.elapsed_seconds || "") + 's</td><td>' + esc(x.failed_tasks) + "</td></tr>"
        ).join("") || '<tr><td colspan="5">No completed executions</td></tr>';
        qs("completed-body").querySelectorAll("tr[data-id]").forEach((tr) => {
          tr.addEventListener("click", async () => {
            const body = await getJSON("/api/v1/executions/" + tr.dataset.id + "/detail");
            qs("exec-detail").textContent = JSON.stringify(body.data, null, 2);
          });
        });
      } catch (e) {
        qs("completed-body").innerHTML = '<tr><td colspan="5">' + esc(e.message) + "</td></tr>";
      }
    }

    async function loadAnalysis() {
      const params = new URLSearchParams();
      if (qs("chip-select").value) params.set("chip", qs("chip-select").value);
      if (qs("ana-param").value) params.set("parameter", qs("ana-param").value);
      if (qs("ana-tag").value) params.set("tag", qs("ana-tag").value);
      try {
        const body = await getJSON("/api/v1/analysis/timeseries?" + params.toString());
        qs("ana-canonical").textContent = body.meta.canonical_url;
        syncAddressBar(body.meta.canonical_url);
        const series = body.data.series[qs("ana-param").value] || [];
        drawLine(qs("ana-chart"), series.map((p) => [Date.parse(p.calibrated_at), p.value]));
      } catch (e) {
        qs("ana-canonical").textContent = e.message;
      }
    }

    async function loadCDF() {
      const params = new URLSearchParams();
      if (qs("chip-select").value) params.set("chip", qs("chip-select").value);
      if (qs("cdf-range").value) params.set("range", qs("cdf-range").value);
      try {
        const body = await getJSON("/api/v1/analysis/cdf?" + params.toString());
        qs("cdf-canonical").textContent = body.meta.canonical_url;
        syncAddressBar(body.meta.canonical_url);
        const first = Object.values(body.data.curves)[0] || [];
        drawLine(qs("cdf-chart"), first.map((p) => [p.value, p.fraction]));
      } catch (e) {
        qs("cdf-canonical").textContent = e.message;
      }
    }

    async function loadHistogram() {
      const params = new URLSearchParams();
      if (qs("chip-select").value) params.set("chip", qs("chip-select").value);
      if (qs("hist-param").value) params.set("param", qs("hist-param").value);
      if (qs("hist-threshold").value) params.set("threshold", qs("hist-threshold").value);
      try {
        const body = await getJSON("/api/v1/analysis/histogram?" + params.toString());
        qs("hist-canonical").textContent = body.meta.canonical_url;
        syncAddressBar(body.meta.canonical_url);
        drawBars(qs("hist-chart"), body.data.bins);
      } catch (e) {
        qs("hist-canonical").textContent = e.message;
      }
    }

    async function loadSavedViews() {
      const tbody = qs("views-body");
      try {
        const body = await getJSON("/api/v1/views");
        tbody.innerHTML = body.data.map((v) =>
          "<tr><td>" + esc(v.name) + "</td><td>" + esc(v.page) + '</td><td class="mono">' +
          esc(v.query_string) + "</td><td>" + esc(v.updated_ago || "") + '</td><td><a href="' +
          esc(v.share_url) + '">' + esc(v.token.slice(0, 8)) + "</a></td></tr>"
        ).join("") || '<tr><td colspan="5">No saved views</td></tr>';
      } catch (e) {
        tbody.innerHTML = '<tr><td colspan="5">' + esc(e.message) + "</td></tr>";
      }
    }

    qs("sv-save").addEventListener("click", async () => {
      const name = qs("sv-name").value.trim();
      if (!name) return;
      const pages = { chip: "chip", execution: "execution", analysis: "analysis",
        cdf: "cdf", histogram: "histogram" };
      const page = pages[activeTab()] || "chip";
      await fetch("/api/v1/views", {
        method: "POST",
        headers: { "Content-Type": "application/json" },
        body: JSON.stringify({ name: name, page: page, query_string: pageQuery() }),
      });
      loadSavedViews();
    });

    async function loadServices() {
      const tbody = qs("services-body");
      const agents = qs("agents-body");
      try {
        const body = await getJSON("/api/v1/status/services");
        const rows = [];
        for (const [name, svc] of Object.entries(body.data)) {
          if (name === "agents") continue;
          const pill = !svc.enabled ? "disabled"
            : svc.ok ? '<span class="pill ok">ok</span>' : '<span class="pill bad">error</span>';
          rows.push("<tr><td>" + esc(name) + "</td><td>" + pill + '</td><td class="mono">' +
            esc(JSON.stringify(svc.stats || svc.error || "")) + "</td></tr>");
        }
        tbody.innerHTML = rows.join("");

        const probes = (body.data.agents && body.data.agents.probes) || [];
        agents.innerHTML = probes.map((p) =>
          '<tr><td class="mono">' + esc(p.target) + "</td><td>" +
          (p.ok ? '<span class="pill ok">up</span>' : '<span class="pill bad">down</span>') +
          "</td><td>" + esc(p.ping_ms) + "ms</td><td>" + esc(p.uptime_seconds) + "s</td><td>" +
          esc(p.memory_mb.toFixed ? p.memory_mb.toFixed(1) : p.memory_mb) + "MB</td><td>" +
          esc(p.goroutines) + "</td></tr>"
        ).join("") || '<tr><td colspan="6">Agent monitoring disabled</td></tr>';
      } catch (e) {
        tbody.innerHTML = '<tr><td colspan="3">' + esc(e.message) + "</td></tr>";
      }
    }

    function refreshTab(tab) {
      switch (tab) {
        case "chip": loadChipView(); break;
        case "execution": loadExecutions(); break;
        case "analysis": loadAnalysis(); break;
        case "cdf": loadCDF(); break;
        case "histogram": loadHistogram(); break;
        case "views": loadSavedViews(); break;
        case "services": loadServices(); break;
      }
    }

    ["chip-select", "chip-task", "chip-date"].forEach((id) =>
      qs(id).addEventListener("change", loadChipView));
    qs("exec-chip").addEventListener("change", loadExecutions);
    ["ana-param", "ana-tag"].forEach((id) => qs(id).addEventListener("change", loadAnalysis));
    qs("cdf-range").addEventListener("change", loadCDF);
    ["hist-param", "hist-threshold"].forEach((id) => qs(id).addEventListener("change", loadHistogram));

    (async function init() {
      await loadParameters();
      await loadChips();
      refreshTab(activeTab());
      setInterval(() => refreshTab(activeTab()), 30000);
    })();
  </script>
</body>
</html>
`
