package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/config"
	"github.com/wurlab/sparq/query"
	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

// buildEngine assembles a query engine from the loaded configuration and
// the command line overrides.
func buildEngine(cmd *cobra.Command, service string) (*query.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	e := query.FromConfig(cfg)
	if service != "" {
		e.SetService(service)
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		e.SetDebug(true)
	}
	return e, nil
}

// readQuery returns the query string: the single positional argument, or
// stdin when the argument is "-".
func readQuery(args []string) (string, error) {
	if args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	return string(data), nil
}

// ensureForm checks that the query's form matches what the command runs,
// steering misrouted queries to the right subcommand.
func ensureForm(querystring string, want sparql.Form) error {
	form, err := sparql.DetectForm(querystring)
	if err != nil {
		return err
	}
	if form != want {
		name := strings.ToLower(form.String())
		if form == sparql.FormSelect {
			name = "query"
		}
		return fmt.Errorf("this is a %s query; use 'sparq %s'", form, name)
	}
	return nil
}

// loadGraph reads an N-Quads file into an in-process graph.
func loadGraph(path string) (*rdf.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	g, err := rdf.ReadNQuads(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return g, nil
}
