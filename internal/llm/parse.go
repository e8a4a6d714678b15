package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnparsable is returned when every parsing strategy failed
var ErrUnparsable = errors.New("llm: unparsable response")

// DecodeJSON unwraps a structured result from raw collaborator output.
// Strategies, in order: strict unmarshal, unmarshal of the embedded JSON
// region, unmarshal after truncation repair. Collaborators routinely wrap
// JSON in prose or cut it off mid-array, so all three are needed.
func DecodeJSON(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	region, ok := jsonRegion(raw)
	if !ok {
		return ErrUnparsable
	}

	if err := json.Unmarshal([]byte(region), v); err == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(repairJSON(region)), v); err == nil {
		return nil
	}

	return ErrUnparsable
}

// jsonRegion slices out the first JSON object or array embedded in raw text
func jsonRegion(raw string) (string, bool) {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	start := objStart
	closer := byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start < 0 {
		return "", false
	}

	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		// Truncated output, hand the open-ended region to the repairer
		return raw[start:], true
	}
	return raw[start : end+1], true
}

// repairJSON closes unterminated strings, strips a trailing comma, and
// appends whatever closing braces/brackets are missing.
func repairJSON(s string) string {
	var stack []byte
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, ch)
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	out := s
	if inString {
		out += `"`
	}
	out = strings.TrimRight(out, " \t\r\n")
	out = strings.TrimSuffix(out, ",")

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			out += "}"
		} else {
			out += "]"
		}
	}

	return out
}

var (
	reQuoted = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"`)
)

// ExtractStrings is the last-resort fragment strategy: pull every quoted
// string out of otherwise unparsable output.
func ExtractStrings(raw string) []string {
	matches := reQuoted.FindAllStringSubmatch(raw, -1)
	var out []string
	for _, m := range matches {
		s := strings.TrimSpace(m[1])
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExtractField pulls a single string field out of malformed JSON by regex
func ExtractField(raw, field string) string {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	if m := re.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// ExtractNumberField pulls a single numeric field out of malformed JSON
func ExtractNumberField(raw, field string) (float64, bool) {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*(-?\d+(?:\.\d+)?)`)
	if m := re.FindStringSubmatch(raw); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
