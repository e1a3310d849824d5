package probe

import "net/url"

// volatileParams are query parameters that change between requests for the
// same stream and must not split the probe cache.
var volatileParams = []string{"t", "time", "timestamp", "r", "random", "nonce", "token"}

// NormalizeURL returns the cache key for a stream URL: scheme, host, path
// and the remaining query parameters, without fragment. URLs that fail to
// parse are returned unchanged.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range volatileParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
