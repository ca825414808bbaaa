package server

// PageHTML is the PageView served at "/". Its script forwards document
// events over /ws/behavior and asks for a flush when Show Results is
// clicked. The contact form has no submission handler.
const PageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Apple Products Sales</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: #111; }
  header, footer { background: #1f2937; color: #fff; text-align: center; padding: 16px; }
  header h1 { font-size: 1.9em; }
  section { padding: 32px 16px; text-align: center; }
  section h2 { font-size: 1.5em; margin-bottom: 16px; }
  section p { max-width: 40em; margin: 0 auto; }
  .contact { background: #f3f4f6; }
  #show-results {
    padding: 12px 24px; background: #16a34a; color: #fff; border: 0;
    border-radius: 999px; cursor: pointer; font-size: 1em;
  }
  #show-results:hover { background: #15803d; }
  form { max-width: 28em; margin: 0 auto; display: flex; flex-direction: column; gap: 12px; }
  input, textarea { padding: 8px; border: 1px solid #d1d5db; border-radius: 4px; font: inherit; }
  form button { padding: 8px; background: #2563eb; color: #fff; border: 0; border-radius: 4px; }
  #results {
    text-align: left; max-width: 48em; margin: 16px auto 0; max-height: 320px; overflow: auto;
    background: #0d1117; color: #c9d1d9; padding: 12px; border-radius: 6px; font-size: 0.8em;
  }
  #results:empty { display: none; }
  .session { color: #6b7280; font-size: 0.8em; margin-top: 8px; }
</style>
</head>
<body>
<header><h1>Apple Products Sales</h1></header>

<section>
  <button id="show-results">Show Results</button>
  <p class="session">session <span id="session-id">connecting...</span></p>
  <pre id="results"></pre>
</section>

<section>
  <h2>About Us</h2>
  <p>We are dedicated to providing the best Apple products at the most
  competitive prices. Our team is passionate about technology and
  customer satisfaction.</p>
</section>

<section class="contact">
  <h2>Contact Us</h2>
  <form id="contact-form" data-trailmark-action="submit">
    <input type="text" placeholder="Name">
    <input type="email" placeholder="Email">
    <textarea placeholder="Message" rows="4"></textarea>
    <button type="submit">Send</button>
  </form>
</section>

<footer><p>&copy; 2023 Apple Products Sales. All rights reserved.</p></footer>

<script>
(function () {
  const proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  const ws = new WebSocket(proto + '//' + location.host + '/ws/behavior');
  const pending = [];

  function send(msg) {
    msg.ts = msg.ts || Date.now();
    const data = JSON.stringify(msg);
    if (ws.readyState === WebSocket.OPEN) ws.send(data);
    else pending.push(data);
  }

  ws.onopen = function () {
    ws.send(JSON.stringify({
      type: 'hello',
      ts: Date.now(),
      navigator: {
        appCodeName: navigator.appCodeName,
        appName: navigator.appName,
        vendor: navigator.vendor,
        platform: navigator.platform,
        userAgent: navigator.userAgent
      }
    }));
    while (pending.length) ws.send(pending.shift());
  };

  ws.onmessage = function (e) {
    const msg = JSON.parse(e.data);
    if (msg.type === 'session') {
      document.getElementById('session-id').textContent = msg.session;
    } else if (msg.type === 'results') {
      console.log('User behavior data:', msg.results);
      document.getElementById('results').textContent = JSON.stringify(msg.results, null, 2);
    }
  };

  document.addEventListener('mouseup', function (e) {
    send({ type: 'mouseup', x: e.pageX, y: e.pageY, target: e.target.outerHTML });
  });
  document.addEventListener('mousemove', function (e) {
    send({ type: 'mousemove', x: e.pageX, y: e.pageY });
  });
  document.addEventListener('visibilitychange', function () {
    send({ type: 'visibilitychange', state: document.visibilityState });
  });
  document.addEventListener('paste', function (e) {
    const text = (e.clipboardData || window.clipboardData).getData('text/plain');
    send({ type: 'paste', text: text });
  });
  document.addEventListener('keyup', function (e) {
    send({ type: 'keyup', keyCode: e.keyCode, key: e.key });
  });

  document.getElementById('show-results').addEventListener('click', function () {
    send({ type: 'flush' });
  });

  document.querySelectorAll('[data-trailmark-action]').forEach(function (el) {
    el.getAttribute('data-trailmark-action').split(',').forEach(function (name) {
      name = name.trim();
      el.addEventListener(name, function (ev) {
        if (name === 'submit') ev.preventDefault();
        send({ type: name, selector: '#' + el.id });
      });
    });
  });
})();
</script>
</body>
</html>`
