package schema

import (
	"net/url"
	"strings"
)

// trackingParams are query keys removed by CleanURL in addition to any key
// starting with "utm_".
var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
}

func isTrackingParam(key string) bool {
	k := strings.ToLower(key)
	return strings.HasPrefix(k, "utm_") || trackingParams[k]
}

// CleanURL removes campaign tracking parameters (utm_*, gclid, fbclid) and the
// fragment from raw. Other parameters survive in their original order and
// encoding. Unparseable input is returned unchanged.
func CleanURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		var kept []string
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key, _, _ := strings.Cut(pair, "=")
			if k, err := url.QueryUnescape(key); err == nil {
				key = k
			}
			if !isTrackingParam(key) {
				kept = append(kept, pair)
			}
		}
		u.RawQuery = strings.Join(kept, "&")
	}
	u.ForceQuery = false
	return u.String()
}

// absoluteURL resolves a page URL against the site root. Absolute URLs pass
// through; root-relative paths are joined to root.
func absoluteURL(root, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isAbsoluteURL(raw) {
		return raw
	}
	if root == "" {
		return ""
	}
	base, err := url.Parse(root)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
