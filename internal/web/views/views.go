// Package views renders the HTML surface of the grid editor as templ
// components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Page is the single-page grid editor: a table-name input, the editable
// grid, and the load/save status lines.
func Page(title string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, pageHead, templ.EscapeString(title), templ.EscapeString(title)); err != nil {
			return err
		}
		_, err := io.WriteString(w, pageBody)
		return err
	})
}

// StatusLine renders a load/save status message. Kind is "ok" or "error".
func StatusLine(kind, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p class="status %s">%s</p>`,
			templ.EscapeString(kind), templ.EscapeString(message))
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: 'Roboto', sans-serif; margin: 2rem; }
h1 { text-align: center; color: #f18900; }
#table-name-input { width: 300px; margin: 10px 0 20px; padding: 6px; }
button { background-color: #f18900; color: white; border: none; padding: 8px 15px;
         font-size: 16px; cursor: pointer; width: 150px; margin-top: 10px; }
table { border-collapse: collapse; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
td input { border: none; width: 100%%; font: inherit; }
td.keyed { background-color: rgba(241, 137, 0, 0.2); }
.status.error { color: #b00020; }
.status.ok { color: #2e7d32; }
</style>
</head>
<body>
<h1>%s</h1>
`

const pageBody = `<input id="table-name-input" type="text" placeholder="Enter table name">
<button id="load-data-button">Load Data</button>
<div id="loading-output-1" class="status"></div>
<div id="grid"></div>
<button id="saving-button">Save</button>
<div id="loading-output-2" class="status"></div>
<script>
let session = null;

function setStatus(id, msg, isError) {
  const el = document.getElementById(id);
  el.textContent = msg;
  el.className = 'status ' + (isError ? 'error' : 'ok');
}

async function api(method, path, body) {
  const res = await fetch(path, {
    method: method,
    headers: {'Content-Type': 'application/json'},
    body: body === undefined ? undefined : JSON.stringify(body),
  });
  const data = await res.json().catch(() => ({}));
  if (!res.ok) { throw new Error(data.message || data.error || res.statusText); }
  return data;
}

function renderGrid(columnDefs, rows) {
  const grid = document.getElementById('grid');
  grid.textContent = '';
  const table = document.createElement('table');
  const head = table.createTHead().insertRow();
  for (const def of columnDefs) {
    const th = document.createElement('th');
    th.textContent = def.headerName;
    head.appendChild(th);
  }
  const body = table.createTBody();
  rows.forEach((row, rowIndex) => {
    const tr = body.insertRow();
    columnDefs.forEach((def, colIndex) => {
      const td = tr.insertCell();
      if (def.keyed) { td.className = 'keyed'; }
      if (def.editable) {
        const input = document.createElement('input');
        input.value = row[colIndex];
        input.addEventListener('change', () => onCellEdit(rowIndex, def.field, input.value));
        td.appendChild(input);
      } else {
        td.textContent = row[colIndex];
      }
    });
  });
  grid.appendChild(table);
}

async function loadTable() {
  const name = document.getElementById('table-name-input').value.trim();
  if (!name) { setStatus('loading-output-1', 'no table was selected', true); return; }
  try {
    const data = await api('POST', '/api/sessions', {table: name});
    session = data.sessionId;
    renderGrid(data.columnDefs, data.rows);
    setStatus('loading-output-1', data.status, false);
    setStatus('loading-output-2', '', false);
  } catch (err) {
    session = null;
    document.getElementById('grid').textContent = '';
    setStatus('loading-output-1', 'Error loading data: ' + err.message, true);
  }
}

async function onCellEdit(rowIndex, column, value) {
  if (!session) { return; }
  try {
    await api('POST', '/api/sessions/' + session + '/edits',
      {cells: [{rowIndex: rowIndex, column: column, value: value}]});
  } catch (err) {
    setStatus('loading-output-2', err.message, true);
  }
}

async function saveChanges() {
  if (!session) { setStatus('loading-output-2', 'No Changes to be saved.', true); return; }
  try {
    const data = await api('POST', '/api/sessions/' + session + '/save');
    setStatus('loading-output-2', data.status, false);
  } catch (err) {
    setStatus('loading-output-2', 'Error with saving data: ' + err.message, true);
  }
}

document.getElementById('load-data-button').addEventListener('click', loadTable);
document.getElementById('table-name-input').addEventListener('keydown', e => {
  if (e.key === 'Enter') { loadTable(); }
});
document.getElementById('saving-button').addEventListener('click', saveChanges);
</script>
</body>
</html>
`
