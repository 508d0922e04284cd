package connstr

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPoolerTLD     = "com"
	defaultConnectionTLD = "co"
	poolerDomain         = "pooler.supabase."
)

// PoolerTLD extracts the top-level domain of the pooler host from a
// connection string template, e.g. "com" from
// "...@aws-0-eu-west-1.pooler.supabase.com:6543/postgres".
func PoolerTLD(template string) string {
	_, rest, ok := strings.Cut(template, poolerDomain)
	if !ok {
		return defaultPoolerTLD
	}
	tld, _, _ := strings.Cut(rest, ":"+strconv.Itoa(TransactionPort))
	if i := strings.IndexAny(tld, ":/?"); i >= 0 {
		tld = tld[:i]
	}
	if tld == "" {
		return defaultPoolerTLD
	}
	return tld
}

// ConnectionTLD returns the last label of the project's API host, falling
// back to "co" when the URL is missing or malformed.
func ConnectionTLD(restURL string) string {
	if restURL == "" {
		return defaultConnectionTLD
	}
	u, err := url.Parse(restURL)
	if err != nil || u.Hostname() == "" {
		return defaultConnectionTLD
	}
	labels := strings.Split(u.Hostname(), ".")
	if tld := labels[len(labels)-1]; tld != "" {
		return tld
	}
	return defaultConnectionTLD
}
