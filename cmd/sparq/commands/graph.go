package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

var (
	graphService string
	graphData    string
	graphOutput  string
)

// ConstructCmd runs CONSTRUCT queries.
var ConstructCmd = &cobra.Command{
	Use:   "construct <sparql|->",
	Short: "Run a CONSTRUCT query and print the graph as N-Quads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGraphQuery(cmd, args, sparql.FormConstruct)
	},
}

// DescribeCmd runs DESCRIBE queries.
var DescribeCmd = &cobra.Command{
	Use:   "describe <sparql|->",
	Short: "Run a DESCRIBE query and print the graph as N-Quads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGraphQuery(cmd, args, sparql.FormDescribe)
	},
}

func init() {
	for _, c := range []*cobra.Command{ConstructCmd, DescribeCmd} {
		c.Flags().StringVar(&graphService, "service", "", "SPARQL service URL (default: configured endpoint)")
		c.Flags().StringVar(&graphData, "data", "", "N-Quads file to query in process instead of a service")
		c.Flags().StringVar(&graphOutput, "output", "", "Write N-Quads to this file instead of stdout")
	}
}

func runGraphQuery(cmd *cobra.Command, args []string, form sparql.Form) error {
	querystring, err := readQuery(args)
	if err != nil {
		return err
	}
	if err := ensureForm(querystring, form); err != nil {
		return err
	}
	e, err := buildEngine(cmd, graphService)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var out *rdf.Graph
	if graphData != "" {
		g, err := loadGraph(graphData)
		if err != nil {
			return err
		}
		if form == sparql.FormConstruct {
			out, err = e.LocalConstruct(ctx, g, querystring)
		} else {
			out, err = e.LocalDescribe(ctx, g, querystring)
		}
		if err != nil {
			return err
		}
	} else {
		if form == sparql.FormConstruct {
			out, err = e.Construct(ctx, querystring)
		} else {
			out, err = e.Describe(ctx, querystring)
		}
		if err != nil {
			return err
		}
	}

	w := os.Stdout
	if graphOutput != "" {
		f, err := os.Create(graphOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := rdf.WriteNQuads(w, out); err != nil {
		return err
	}
	if graphOutput != "" {
		pterm.Success.Printf("wrote %d statements to %s\n", out.Len(), graphOutput)
	}
	return nil
}
