package orchestrate

import (
	"net/url"
	"strings"
)

// canonicalURL normalizes an article URL into the dedup key shared by
// the aggregator and the store: lower-cased host, no fragment, no
// default port, and common tracking parameters removed.
func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Hostname()
	}
	q := u.Query()
	for _, p := range []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "utm_id", "gclid", "fbclid"} {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
