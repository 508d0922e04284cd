// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package connstr

import "strconv"

// Options carries the contextual values of the Connect panel.
type Options struct {
	ProjectRef    string
	CloudProvider string
	Region        string
	RestURL       string   // project API URL, source of the direct-connection TLD
	UsePooler     bool     // pooling toggle from the dashboard state
	PoolMode      PoolMode // explicit mode selection; empty follows the pooler config
}

// Result is everything the Connect panel displays for one request.
type Result struct {
	Tab           Tab            `json:"tab"`
	Strings       Set            `json:"connection_strings"`
	Session       map[Tab]string `json:"session"`
	Syntax        []Fragment     `json:"syntax"`
	PoolMode      PoolMode       `json:"pool_mode"`
	PoolerTLD     string         `json:"pooler_tld"`
	ConnectionTLD string         `json:"connection_tld"`
}

// Direct returns the direct connection string of the selected tab.
func (r Result) Direct() string { return r.Strings.Direct[r.Tab] }

// Transaction returns the transaction-pooler string of the selected tab.
func (r Result) Transaction() string { return r.Strings.Pooler[r.Tab] }

// SessionPooler returns the session-pooler string of the selected tab.
func (r Result) SessionPooler() string { return r.Session[r.Tab] }

// Compose derives the full Connect panel result. pooling may be nil while
// the pooler configuration is still loading; the result is then fully
// populated with empty strings and an empty syntax.
func Compose(info ConnectionInfo, pooling *Pooling, tab Tab, opts Options) Result {
	res := Result{
		Tab:           tab,
		Strings:       Strings(info, pooling, opts.ProjectRef),
		Session:       make(map[Tab]string, len(Tabs)),
		Syntax:        []Fragment{},
		PoolMode:      effectiveMode(pooling, opts.PoolMode),
		PoolerTLD:     defaultPoolerTLD,
		ConnectionTLD: ConnectionTLD(opts.RestURL),
	}
	for _, t := range Tabs {
		res.Session[t.ID] = SessionString(res.Strings.Pooler[t.ID])
	}
	if pooling == nil {
		return res
	}

	res.PoolerTLD = PoolerTLD(pooling.ConnectionString)

	syn := Syntax{
		Tab:           tab,
		UsePooler:     opts.UsePooler,
		Ref:           opts.ProjectRef,
		CloudProvider: opts.CloudProvider,
		Region:        opts.Region,
		TLD:           res.ConnectionTLD,
		Port:          portString(info.Port),
	}
	if opts.UsePooler {
		syn.TLD = res.PoolerTLD
		if res.PoolMode == PoolModeTransaction {
			syn.Port = portString(pooling.resolved(opts.ProjectRef).Port)
		} else {
			syn.Port = strconv.Itoa(SessionPort)
		}
	}
	res.Syntax = SyntaxFor(pooling.ConnectionString, syn)
	return res
}

// effectiveMode starts in transaction mode and switches to session when the
// pooler is configured for it; an explicit selection wins.
func effectiveMode(pooling *Pooling, selected PoolMode) PoolMode {
	if selected != "" {
		return selected
	}
	if pooling != nil && pooling.PoolMode == PoolModeSession {
		return PoolModeSession
	}
	return PoolModeTransaction
}
