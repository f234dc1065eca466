package template

import (
	"strings"

	"github.com/hostbay/caddex/internal/errors"
)

// PlaceholderWebSocket marks where the websocket passthrough headers are
// spliced into a proxy block.
const PlaceholderWebSocket = "{{websocket_headers}}"

// webSocketSnippet is the reusable header block spliced in at every
// occurrence of PlaceholderWebSocket, re-indented to match the
// occurrence's column.
const webSocketSnippet = `header_up Host {host}
header_up X-Real-IP {remote_host}
header_up Upgrade {http.request.header.Upgrade}
header_up Connection {http.request.header.Connection}`

// Render interpolates variables into the named template.
//
// The websocket-header snippet is expanded first: on every line containing
// PlaceholderWebSocket, the snippet's first line replaces the placeholder
// in place and each subsequent line is prefixed with the leading whitespace
// of the original line, so the spliced block stays aligned at any nesting
// depth.
//
// Unmatched {{key}} placeholders are left verbatim in the output. That is
// a deliberate debugging aid: a forgotten variable shows up as-is in the
// generated file instead of silently disappearing.
func (s *Store) Render(name string, vars map[string]string) (string, error) {
	text, ok := s.templates[name]
	if !ok {
		return "", errors.TemplateNotFound(name)
	}

	text = expandWebSocketHeaders(text)

	for key, value := range vars {
		text = strings.ReplaceAll(text, "{{"+key+"}}", value)
	}

	return text, nil
}

// expandWebSocketHeaders splices the websocket snippet into every line
// that contains its placeholder, preserving the line's indentation.
func expandWebSocketHeaders(text string) string {
	if !strings.Contains(text, PlaceholderWebSocket) {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, PlaceholderWebSocket) {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		snippet := strings.ReplaceAll(webSocketSnippet, "\n", "\n"+indent)
		lines[i] = strings.Replace(line, PlaceholderWebSocket, snippet, 1)
	}
	return strings.Join(lines, "\n")
}
