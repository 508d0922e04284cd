// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts guide and reference Markdown into HTML using
// goldmark, and splits YAML frontmatter off guide sources.
package markdown

import (
	"bytes"
	"fmt"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(), // heading anchors for the table of contents
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // docs embed raw HTML (admonitions, video iframes)
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var fence = []byte("---")

// SplitFrontmatter separates a leading "---" delimited YAML block from the
// Markdown body and decodes it into meta. Sources without frontmatter are
// returned unchanged and meta is left untouched.
func SplitFrontmatter(source []byte, meta any) ([]byte, error) {
	src := bytes.TrimPrefix(source, []byte("\ufeff"))
	if !bytes.HasPrefix(src, fence) {
		return source, nil
	}
	rest := src[len(fence):]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return source, nil
	}
	rest = rest[nl+1:]

	end := bytes.Index(rest, append([]byte("\n"), fence...))
	var block []byte
	switch {
	case bytes.HasPrefix(rest, fence):
		end = 0
	case end < 0:
		return nil, fmt.Errorf("frontmatter: missing closing ---")
	default:
		block = rest[:end]
		end++
	}

	body := rest[end+len(fence):]
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	if err := yaml.Unmarshal(block, meta); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	return body, nil
}
