// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package connstr

import "strings"

// Fragment is one piece of a connection string. Fragments with a Tooltip
// are placeholders the user substitutes (user, database name, ...).
type Fragment struct {
	Value   string `json:"value"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Join concatenates the fragment values.
func Join(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.Value)
	}
	return b.String()
}

func lit(v string) []Fragment {
	return []Fragment{{Value: v}}
}

// parts are the substitutable pieces of a connection string. ref is set
// only for md5 poolers, which take the tenant in an options parameter.
type parts struct {
	user     []Fragment
	password []Fragment
	host     []Fragment
	port     []Fragment
	name     []Fragment
	ref      []Fragment
}

// layout arranges parts in the syntax of one client library. Strings and
// SyntaxFor share it, so the annotated template always matches the
// concrete string shape.
func layout(tab Tab, p parts) []Fragment {
	var out []Fragment
	add := func(groups ...[]Fragment) {
		for _, g := range groups {
			out = append(out, g...)
		}
	}
	md5 := len(p.ref) > 0

	uri := func() {
		add(lit("postgresql://"), p.user, lit(":"), p.password, lit("@"), p.host, lit(":"), p.port, lit("/"), p.name)
		if md5 {
			add(lit("?options=reference%3D"), p.ref)
		}
	}

	switch tab {
	case TabURI:
		uri()
	case TabNodeJS:
		add(lit("DATABASE_URL="))
		uri()
	case TabPSQL:
		if md5 {
			add(lit(`psql "`))
			uri()
			add(lit(`"`))
		} else {
			add(lit("psql -h "), p.host, lit(" -p "), p.port, lit(" -d "), p.name, lit(" -U "), p.user)
		}
	case TabGolang:
		add(lit("user="), p.user, lit(" password="), p.password, lit(" host="), p.host, lit(" port="), p.port, lit(" dbname="), p.name)
		if md5 {
			add(lit(" options=reference="), p.ref)
		}
	case TabPython:
		add(lit("user="), p.user, lit("\npassword="), p.password, lit("\nhost="), p.host, lit("\nport="), p.port, lit("\ndbname="), p.name)
		if md5 {
			add(lit("\noptions=reference="), p.ref)
		}
	case TabJDBC:
		add(lit("jdbc:postgresql://"), p.host, lit(":"), p.port, lit("/"), p.name, lit("?user="), p.user)
		if md5 {
			add(lit("&options=reference%3D"), p.ref)
		}
		add(lit("&password="), p.password)
	case TabDotNet:
		add(lit("User Id="), p.user, lit(";Password="), p.password, lit(";Server="), p.host, lit(";Port="), p.port, lit(";Database="), p.name)
		if md5 {
			add(lit(";Options=reference="), p.ref)
		}
	case TabPHP:
		add(lit("DB_HOST="), p.host, lit("\nDB_PORT="), p.port, lit("\nDB_DATABASE="), p.name, lit("\nDB_USERNAME="), p.user, lit("\nDB_PASSWORD="), p.password)
		if md5 {
			add(lit("\nDB_OPTIONS=reference="), p.ref)
		}
	}
	return out
}

// Syntax holds what the annotated template needs to know beyond the tab.
type Syntax struct {
	Tab           Tab
	UsePooler     bool
	Ref           string
	CloudProvider string
	Region        string
	TLD           string
	Port          string
}

const (
	tipUser     = "Database user (e.g postgres)"
	tipPassword = "Database password"
	tipDBName   = "Database name (e.g postgres)"
	tipRef      = "Project's reference ID"
	tipProvider = "Cloud provider"
	tipRegion   = "Project's region"
	tipPort     = "Port number (Use 5432 if using prepared statements)"
)

// SyntaxFor builds the annotated template explaining how to switch to a
// different database or user. The connection string template decides
// whether the pooler is md5 (tenant passed in options).
func SyntaxFor(template string, s Syntax) []Fragment {
	md5 := strings.Contains(template, "options=reference")

	p := parts{
		user:     []Fragment{{Value: "[user]", Tooltip: tipUser}},
		password: []Fragment{{Value: "[password]", Tooltip: tipPassword}},
		name:     []Fragment{{Value: "[db-name]", Tooltip: tipDBName}},
		port:     []Fragment{{Value: s.Port, Tooltip: tipPort}},
	}

	if s.UsePooler {
		p.host = []Fragment{
			{Value: strings.ToLower(s.CloudProvider), Tooltip: tipProvider},
			{Value: "-0-"},
			{Value: s.Region, Tooltip: tipRegion},
			{Value: ".pooler.supabase." + s.TLD},
		}
		if md5 {
			p.ref = []Fragment{{Value: s.Ref, Tooltip: tipRef}}
		} else {
			p.user = append(p.user, Fragment{Value: "."}, Fragment{Value: s.Ref, Tooltip: tipRef})
		}
	} else {
		p.host = []Fragment{
			{Value: "db."},
			{Value: s.Ref, Tooltip: tipRef},
			{Value: ".supabase." + s.TLD},
		}
	}

	return merge(layout(s.Tab, p))
}

// merge folds adjacent untooltipped fragments into one, so renderers emit
// one span per literal run.
func merge(frags []Fragment) []Fragment {
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		if f.Value == "" && f.Tooltip == "" {
			continue
		}
		if n := len(out); n > 0 && f.Tooltip == "" && out[n-1].Tooltip == "" {
			out[n-1].Value += f.Value
			continue
		}
		out = append(out, f)
	}
	return out
}
