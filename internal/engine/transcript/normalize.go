package transcript

import (
	"encoding/json"
	"strconv"

	"github.com/anatolykoptev/go_watchless/internal/engine"
)

// Normalize maps source records onto engine.Segment. Missing fields default
// to "" and 0; nil records are dropped. Source order is kept.
func Normalize(records []Record) []engine.Segment {
	out := make([]engine.Segment, 0, len(records))
	for _, rec := range records {
		switch v := rec.(type) {
		case nil:
			continue
		case engine.Segment:
			out = append(out, v)
		case *engine.Segment:
			if v != nil {
				out = append(out, *v)
			}
		case SegmentRecord:
			out = append(out, engine.Segment{
				Text:     v.SegmentText(),
				Start:    v.SegmentStart(),
				Duration: v.SegmentDuration(),
			})
		case map[string]any:
			out = append(out, fromMap(v))
		default:
			out = append(out, engine.Segment{})
		}
	}
	return out
}

func fromMap(m map[string]any) engine.Segment {
	text, _ := m["text"].(string)
	return engine.Segment{
		Text:     text,
		Start:    toFloat(m["start"]),
		Duration: toFloat(m["duration"]),
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
