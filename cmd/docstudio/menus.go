package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docstudio/internal/docs"
	"docstudio/internal/navmenu"
)

func newMenusCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "menus",
		Short: "Inspect the docs navigation menus",
	}
	cmd.PersistentFlags().StringVar(&dir, "docs-dir", "", "content tree to read instead of the configured one")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every menu of the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadMenus(cmd.Context(), dir)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tPATH\tTITLE")
			for _, m := range table.Menus() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Type, dash(m.Path), m.Title)
			}
			return tw.Flush()
		},
	}

	var strict bool
	resolve := &cobra.Command{
		Use:   "resolve <menu-id>",
		Short: "Show the menu variant a page with this id gets",
		Long: `Print the menu element rendered for a menu id. Unknown ids fall back to
the home menu unless --strict is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := loadMenus(cmd.Context(), dir)
			if err != nil {
				return err
			}
			id := navmenu.MenuID(args[0])
			menu, err := table.Lookup(id)
			if err != nil {
				if strict {
					return err
				}
				menu = table.Resolve(id)
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %v, using %q\n", color.YellowString("warning:"), err, menu.ID)
			}
			el, err := table.Element(menu, nil)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Variant navmenu.Type    `json:"variant"`
				Element navmenu.Element `json:"element"`
			}{el.Variant(), el})
		},
	}
	resolve.Flags().BoolVar(&strict, "strict", false, "fail on an unknown menu id")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check that every menu, guide and reference page loads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, table, err := loadMenus(cmd.Context(), dir)
			if err != nil {
				return err
			}
			pages, warnings, problems := checkContent(src, table)
			out := cmd.OutOrStdout()
			for _, w := range warnings {
				fmt.Fprintf(out, "%s %s\n", color.YellowString("!"), w)
			}
			for _, p := range problems {
				fmt.Fprintf(out, "%s %s\n", color.RedString("✗"), p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) in %s", len(problems), src.Name)
			}
			fmt.Fprintf(out, "%s %d menus, %d pages in %s\n", color.GreenString("✓"), len(table.Menus()), pages, src.Name)
			return nil
		},
	}

	cmd.AddCommand(list, resolve, validate)
	return cmd
}

// checkContent loads every page the site can serve. A guide menu without
// content is a warning: its pages answer 404 until content is pushed.
func checkContent(src docs.Source, table *navmenu.Table) (pages int, warnings, problems []string) {
	libs, err := docs.LoadLibraries(src.FS, table)
	if err != nil {
		return 0, nil, []string{err.Error()}
	}
	for _, m := range table.OfType(navmenu.TypeReference) {
		ref, ok := libs.Get(strings.TrimPrefix(m.Path, "/"))
		if !ok {
			problems = append(problems, fmt.Sprintf("reference %s: library not loaded", m.ID))
			continue
		}
		for _, slug := range ref.StaticPaths() {
			if _, err := ref.StaticProps(slug); err != nil {
				problems = append(problems, fmt.Sprintf("reference %s/%s: %v", m.ID, slug, err))
				continue
			}
			pages++
		}
	}

	guides := docs.NewGuides(src.FS, "")
	for _, m := range table.OfType(navmenu.TypeGuide) {
		section := strings.TrimPrefix(m.Path, "/guides/")
		slugs, err := guides.StaticPaths(section)
		if errors.Is(err, docs.ErrNotFound) {
			warnings = append(warnings, fmt.Sprintf("guide %s: no content under guides/%s", m.ID, section))
			continue
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("guide %s: %v", m.ID, err))
			continue
		}
		for _, slug := range slugs {
			if _, err := guides.StaticProps(section, slug); err != nil {
				problems = append(problems, fmt.Sprintf("guide %s/%s: %v", section, slug, err))
				continue
			}
			pages++
		}
	}
	return pages, warnings, problems
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
