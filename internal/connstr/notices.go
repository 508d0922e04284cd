package connstr

// Notice is an informational banner shown above the connection strings.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Notice kinds.
const (
	NoticeIPv4Deprecation    = "ipv4_deprecation"
	NoticeIPv4AddonDirect    = "ipv4_addon_direct"
	NoticeDefaultSessionMode = "default_session_mode"
	NoticeSQLAlchemy         = "sqlalchemy"
)

// Notices lists the banners for the current selection. hasIPv4Addon is
// whether the project bought the dedicated IPv4 address add-on.
func Notices(tab Tab, pooling *Pooling, usePooler, hasIPv4Addon bool) []Notice {
	var out []Notice
	if !usePooler {
		if hasIPv4Addon {
			out = append(out, Notice{
				Kind:    NoticeIPv4AddonDirect,
				Message: "Your project has the IPv4 add-on, so the direct connection is reachable over IPv4.",
			})
		} else {
			out = append(out, Notice{
				Kind:    NoticeIPv4Deprecation,
				Message: "Direct connections resolve to IPv6 only. Use the pooler if your network does not support IPv6.",
			})
		}
	}
	if pooling != nil && pooling.PoolMode == PoolModeSession {
		out = append(out, Notice{
			Kind:    NoticeDefaultSessionMode,
			Message: "The pooler on port 6543 is configured for session mode. Transaction mode is recommended for serverless workloads.",
		})
	}
	if tab == TabPython {
		out = append(out, Notice{
			Kind:    NoticeSQLAlchemy,
			Message: `Use postgresql:// instead of postgres:// as the dialect when connecting via SQLAlchemy, e.g. create_engine("postgresql+psycopg2://...").`,
		})
	}
	return out
}
