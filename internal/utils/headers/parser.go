package headers

import (
	"fmt"
	"strings"
)

// ParseHeaders converts an array of header strings ("Key: Value") into a map.
// Entries without a colon or with an empty name are rejected.
func ParseHeaders(h []string) (map[string]string, error) {
	m := make(map[string]string, len(h))
	for _, hdr := range h {
		parts := strings.SplitN(hdr, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header %q: expected \"Name: value\"", hdr)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf("invalid header name in %q", hdr)
		}
		m[name] = strings.TrimSpace(parts[1])
	}
	return m, nil
}
