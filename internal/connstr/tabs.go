// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package connstr

import (
	"errors"
	"fmt"
)

// ErrUnknownTab is returned by ParseTab for a value outside the tab set.
var ErrUnknownTab = errors.New("unknown connection type")

// Tab selects which client-library syntax a connection string is shown in.
type Tab string

const (
	TabURI    Tab = "uri"
	TabPSQL   Tab = "psql"
	TabGolang Tab = "golang"
	TabJDBC   Tab = "jdbc"
	TabDotNet Tab = "dotnet"
	TabNodeJS Tab = "nodejs"
	TabPHP    Tab = "php"
	TabPython Tab = "python"
)

// TabInfo pairs a tab with the label shown in the type selector.
type TabInfo struct {
	ID    Tab
	Label string
}

// Tabs lists every connection type in display order.
var Tabs = []TabInfo{
	{ID: TabURI, Label: "URI"},
	{ID: TabPSQL, Label: "PSQL"},
	{ID: TabGolang, Label: "Golang"},
	{ID: TabJDBC, Label: "JDBC"},
	{ID: TabDotNet, Label: ".NET"},
	{ID: TabNodeJS, Label: "Node.js"},
	{ID: TabPHP, Label: "PHP"},
	{ID: TabPython, Label: "Python"},
}

// DefaultTab is the tab selected when none is requested.
const DefaultTab = TabURI

// ParseTab validates a tab identifier. An empty string yields DefaultTab.
func ParseTab(s string) (Tab, error) {
	if s == "" {
		return DefaultTab, nil
	}
	for _, t := range Tabs {
		if string(t.ID) == s {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Label returns the display label of a tab, or "" for an unknown tab.
func Label(tab Tab) string {
	for _, t := range Tabs {
		if t.ID == tab {
			return t.Label
		}
	}
	return ""
}
