package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"docstudio/internal/connstr"
)

// interactive reports whether prompts can be shown. Tests replace it.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

type connStringOptions struct {
	ref            string
	provider       string
	region         string
	restURL        string
	host           string
	port           int
	user           string
	name           string
	poolerTemplate string
	poolMode       string
	usePooler      bool
	ipv4Addon      bool
	tab            string
	asJSON         bool
}

func newConnStringCmd() *cobra.Command {
	o := &connStringOptions{}
	cmd := &cobra.Command{
		Use:   "connstring",
		Short: "Print the connection strings of a project database",
		Long: `Build the connection strings the studio Connect panel shows, from
flags instead of the project database. Without --tab an interactive
terminal is asked for the connection type; otherwise URI is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnString(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.ref, "ref", "", "project reference")
	f.StringVar(&o.provider, "provider", "AWS", "cloud provider of the pooler")
	f.StringVar(&o.region, "region", "us-east-1", "project region")
	f.StringVar(&o.restURL, "rest-url", "", "project API URL, decides the direct-connection TLD")
	f.StringVar(&o.host, "host", "", "database host (default db.<ref>.supabase.co)")
	f.IntVar(&o.port, "port", connstr.SessionPort, "database port")
	f.StringVar(&o.user, "user", "postgres", "database user")
	f.StringVar(&o.name, "db", "postgres", "database name")
	f.StringVar(&o.poolerTemplate, "pooler-template", "", "pooler connection string template (default derived from --provider and --region)")
	f.StringVar(&o.poolMode, "pool-mode", "", "pool mode: transaction or session (default follows the pooler)")
	f.BoolVar(&o.usePooler, "use-pooler", false, "show pooler strings instead of the direct connection")
	f.BoolVar(&o.ipv4Addon, "ipv4-addon", false, "the project has the dedicated IPv4 add-on")
	f.StringVar(&o.tab, "tab", "", "connection type: uri, psql, golang, jdbc, dotnet, nodejs, php, python")
	f.BoolVar(&o.asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("ref")
	return cmd
}

func runConnString(cmd *cobra.Command, o *connStringOptions) error {
	tab, err := chooseTab(o.tab)
	if err != nil {
		return err
	}

	var mode connstr.PoolMode
	switch o.poolMode {
	case "":
	case string(connstr.PoolModeTransaction), string(connstr.PoolModeSession):
		mode = connstr.PoolMode(o.poolMode)
	default:
		return fmt.Errorf("unknown pool mode %q", o.poolMode)
	}

	host := o.host
	if host == "" {
		host = "db." + o.ref + ".supabase.co"
	}
	template := o.poolerTemplate
	if template == "" {
		template = fmt.Sprintf("postgres://postgres.%s:%s@%s-0-%s.pooler.supabase.com:%d/postgres",
			o.ref, connstr.Password, strings.ToLower(o.provider), o.region, connstr.TransactionPort)
	}

	pooling := &connstr.Pooling{
		Identifier:       o.ref,
		PoolMode:         connstr.PoolModeTransaction,
		ConnectionString: template,
	}
	if mode != "" {
		pooling.PoolMode = mode
	}

	res := connstr.Compose(
		connstr.ConnectionInfo{Host: host, Port: o.port, User: o.user, Name: o.name},
		pooling,
		tab,
		connstr.Options{
			ProjectRef:    o.ref,
			CloudProvider: o.provider,
			Region:        o.region,
			RestURL:       o.restURL,
			UsePooler:     o.usePooler,
			PoolMode:      mode,
		},
	)
	notices := connstr.Notices(tab, pooling, o.usePooler, o.ipv4Addon)

	out := cmd.OutOrStdout()
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			connstr.Result
			Notices []connstr.Notice `json:"notices"`
		}{res, notices})
	}
	printConnStrings(out, res, o.usePooler, notices)
	return nil
}

// chooseTab parses flag, or prompts for a tab when flag is empty and the
// terminal is interactive.
func chooseTab(flag string) (connstr.Tab, error) {
	if flag != "" || !interactive() {
		return connstr.ParseTab(flag)
	}

	labels := make([]string, len(connstr.Tabs))
	for i, t := range connstr.Tabs {
		labels[i] = t.Label
	}
	prompt := promptui.Select{
		Label: "Connection type",
		Items: labels,
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %v", err)
	}
	return connstr.Tabs[i].ID, nil
}

func printConnStrings(w io.Writer, res connstr.Result, usePooler bool, notices []connstr.Notice) {
	heading := color.New(color.Bold).SprintFunc()
	placeholder := color.New(color.FgCyan).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s (%s)\n", heading("Connection string"), connstr.Label(res.Tab))
	if usePooler {
		fmt.Fprintf(w, "  transaction: %s\n", res.Transaction())
		fmt.Fprintf(w, "  session:     %s\n", res.SessionPooler())
	} else {
		fmt.Fprintf(w, "  direct:      %s\n", res.Direct())
	}

	fmt.Fprintf(w, "\n%s\n  ", heading("Syntax"))
	for _, f := range res.Syntax {
		if f.Tooltip != "" {
			fmt.Fprint(w, placeholder(f.Value))
		} else {
			fmt.Fprint(w, f.Value)
		}
	}
	fmt.Fprintln(w)
	for _, f := range res.Syntax {
		if f.Tooltip != "" {
			fmt.Fprintf(w, "  %s  %s\n", placeholder(f.Value), f.Tooltip)
		}
	}

	for _, n := range notices {
		fmt.Fprintf(w, "\n%s %s\n", warn("!"), n.Message)
	}
}
