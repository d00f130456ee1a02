package relationship

import "strings"

// NormalizeURL canonicalizes a route so that a concrete call like
// /api/users/123 and a declared pattern like /api/users/{userId} compare
// equal. Scheme, host, query string, and fragment are stripped; any path
// segment that is purely numeric or carries a placeholder becomes {id};
// trailing slashes are removed.
func NormalizeURL(raw string) string {
	s := raw

	if idx := strings.Index(s, "://"); idx >= 0 {
		rest := s[idx+3:]
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			s = rest[slash:]
		} else {
			s = "/"
		}
	}
	if idx := strings.IndexByte(s, '?'); idx >= 0 {
		s = s[:idx]
	}
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		s = s[:idx]
	}

	parts := strings.Split(s, "/")
	for i, part := range parts {
		if isPlaceholderSegment(part) {
			parts[i] = "{id}"
		}
	}
	s = strings.Join(parts, "/")

	for len(s) > 1 && strings.HasSuffix(s, "/") {
		s = s[:len(s)-1]
	}
	return s
}

// isPlaceholderSegment reports whether a path segment stands for a route
// parameter: purely numeric, a {param} or ${expr} placeholder, an
// Express-style :param, or the {*} token the frontend extractor emits for
// concatenated URLs.
func isPlaceholderSegment(part string) bool {
	if part == "" {
		return false
	}
	if strings.ContainsAny(part, "{}") {
		return true
	}
	if part[0] == ':' && len(part) > 1 {
		return true
	}
	for i := 0; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return false
		}
	}
	return true
}

// APIKey is the verb-qualified component name under which an API endpoint is
// registered, e.g. "GET_/api/users/{id}".
func APIKey(verb, url string) string {
	v := strings.ToUpper(strings.TrimSpace(verb))
	if v == "" {
		v = "GET"
	}
	return v + "_" + NormalizeURL(url)
}
