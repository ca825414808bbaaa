package server

// DashboardHTML is the embedded single-page dashboard for trailmark.
// It connects via WebSocket and displays recorder flushes in real time.
const DashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Trailmark Dashboard</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: #0d1117; color: #c9d1d9; padding: 20px;
  }
  h1 { color: #58a6ff; margin-bottom: 4px; font-size: 1.5em; }
  .subtitle { color: #8b949e; margin-bottom: 20px; font-size: 0.9em; }
  .status-bar {
    display: flex; gap: 20px; margin-bottom: 20px; padding: 12px 16px;
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
  }
  .status-item { display: flex; flex-direction: column; }
  .status-label { font-size: 0.75em; color: #8b949e; text-transform: uppercase; }
  .status-value { font-size: 1.1em; font-weight: 600; }
  .status-value.connected { color: #3fb950; }
  .status-value.disconnected { color: #f85149; }
  .stats {
    display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px; margin-bottom: 20px;
  }
  .stat-card {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    padding: 16px; text-align: center;
  }
  .stat-number { font-size: 2em; font-weight: 700; color: #58a6ff; }
  .stat-label { font-size: 0.8em; color: #8b949e; margin-top: 4px; }
  .event-log {
    background: #161b22; border: 1px solid #30363d; border-radius: 6px;
    max-height: 500px; overflow-y: auto;
  }
  .event-header {
    padding: 12px 16px; border-bottom: 1px solid #30363d;
    font-weight: 600; color: #58a6ff; position: sticky; top: 0;
    background: #161b22; display: flex; justify-content: space-between;
  }
  .event-row {
    display: grid; grid-template-columns: 120px 300px 90px 90px 90px 1fr;
    padding: 8px 16px; border-bottom: 1px solid #21262d;
    font-size: 0.85em; align-items: center;
  }
  .event-row:hover { background: #1c2128; }
  .time-cell, .ua-cell { color: #8b949e; overflow: hidden; white-space: nowrap; text-overflow: ellipsis; }
  .empty-state { text-align: center; padding: 60px 20px; color: #8b949e; }
  #clear-btn {
    background: #21262d; color: #c9d1d9; border: 1px solid #30363d;
    padding: 4px 12px; border-radius: 4px; cursor: pointer; font-size: 0.8em;
  }
</style>
</head>
<body>
<h1>Trailmark Dashboard</h1>
<p class="subtitle">Live behavior snapshots from PageView sessions</p>

<div class="status-bar">
  <div class="status-item">
    <span class="status-label">Connection</span>
    <span class="status-value disconnected" id="conn-status">Disconnected</span>
  </div>
</div>

<div class="stats">
  <div class="stat-card"><div class="stat-number" id="stat-flushes">0</div><div class="stat-label">Flushes</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-sessions">0</div><div class="stat-label">Sessions</div></div>
  <div class="stat-card"><div class="stat-number" id="stat-clicks">0</div><div class="stat-label">Clicks (latest)</div></div>
</div>

<div class="event-log">
  <div class="event-header">
    <span>Flushes</span>
    <button id="clear-btn" onclick="clearEvents()">Clear</button>
  </div>
  <div id="events">
    <div class="empty-state"><p>Waiting for flushes...</p></div>
  </div>
</div>

<script>
let flushes = 0;
const latest = {};
const eventsDiv = document.getElementById('events');
const MAX_EVENTS = 200;

function connect() {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws');
  const status = document.getElementById('conn-status');
  ws.onopen = () => { status.textContent = 'Connected'; status.className = 'status-value connected'; };
  ws.onclose = () => {
    status.textContent = 'Disconnected'; status.className = 'status-value disconnected';
    setTimeout(connect, 2000);
  };
  ws.onmessage = (e) => addFlush(JSON.parse(e.data));
}

function addFlush(ev) {
  const empty = eventsDiv.querySelector('.empty-state');
  if (empty) empty.remove();

  const r = ev.results;
  flushes++;
  latest[ev.session] = r;
  updateStats();

  const row = document.createElement('div');
  row.className = 'event-row';
  const time = new Date(ev.time).toLocaleTimeString('en-US', {hour12: false});
  row.innerHTML =
    '<span class="time-cell">' + time + '</span>' +
    '<span>' + escHtml(ev.session) + '</span>' +
    '<span>' + r.clicks.clickCount + ' clicks</span>' +
    '<span>' + r.mouseMovements.length + ' moves</span>' +
    '<span>' + r.time.timeOnPage + '/' + r.time.totalTime + 's</span>' +
    '<span class="ua-cell">' + escHtml(r.userInfo.userAgent || '') + '</span>';
  eventsDiv.insertBefore(row, eventsDiv.firstChild);

  while (eventsDiv.children.length > MAX_EVENTS) {
    eventsDiv.removeChild(eventsDiv.lastChild);
  }
}

function updateStats() {
  const sessions = Object.keys(latest);
  let clicks = 0;
  sessions.forEach(s => { clicks += latest[s].clicks.clickCount; });
  document.getElementById('stat-flushes').textContent = flushes;
  document.getElementById('stat-sessions').textContent = sessions.length;
  document.getElementById('stat-clicks').textContent = clicks;
}

function clearEvents() {
  flushes = 0;
  for (const k in latest) delete latest[k];
  eventsDiv.innerHTML = '<div class="empty-state"><p>Waiting for flushes...</p></div>';
  updateStats();
}

function escHtml(s) {
  const d = document.createElement('div');
  d.textContent = s;
  return d.innerHTML;
}

connect();
</script>
</body>
</html>`
