package trace

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// MaxTextDetailWidth bounds the detail column of text events. Symbol
// names of generic code can run to hundreds of columns.
const MaxTextDetailWidth = 96

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick from the output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(ev)
	default:
		return formatText(ev)
	}
}

// formatNDJSON formats an event as newline-delimited JSON.
func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time     string            `json:"time"`
		Seq      uint64            `json:"seq"`
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		SpanID   uint64            `json:"span_id,omitempty"`
		ParentID uint64            `json:"parent_id,omitempty"`
		GID      uint64            `json:"gid,omitempty"`
		Name     string            `json:"name"`
		Detail   string            `json:"detail,omitempty"`
		Extra    map[string]string `json:"extra,omitempty"`
	}

	j := jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	}

	data, _ := json.Marshal(j)
	data = append(data, '\n')
	return data
}

// formatText formats an event as human-readable text.
// Format: [seq] [g<gid>] →/←/• scope:name (detail) {k=v, ...}
func formatText(ev *Event) []byte {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%06d] ", ev.Seq))
	if ev.GID != 0 {
		sb.WriteString(fmt.Sprintf("g%d ", ev.GID))
	}

	if ev.ParentID > 0 {
		sb.WriteString("  ")
	}

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("\u2192 ") // →
	case KindSpanEnd:
		sb.WriteString("\u2190 ") // ←
	case KindPoint:
		sb.WriteString("\u2022 ") // •
	}

	sb.WriteString(ev.Scope.String())
	sb.WriteString(":")
	sb.WriteString(ev.Name)

	if ev.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(truncate(ev.Detail, MaxTextDetailWidth))
		sb.WriteString(")")
	}

	// Keys are sorted so that dumps of the same run compare equal.
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(ev.Extra[k])
		}
		sb.WriteString("}")
	}

	sb.WriteString("\n")
	return []byte(sb.String())
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
