package values

import (
	"fmt"
	"strconv"
)

// Positional converts a JSON object keyed by decimal positions ({"0": 7})
// into the raw map the tagger consumes.
func Positional(payload map[string]any) (map[int]any, error) {
	out := make(map[int]any, len(payload))
	for key, value := range payload {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("values: invalid position key %q", key)
		}
		out[idx] = value
	}
	return out, nil
}
