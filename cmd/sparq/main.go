package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/cmd/sparq/commands"
	"github.com/wurlab/sparq/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sparq",
	Short: "sparq - SPARQL query engine for local graphs and remote endpoints",
	Long: `sparq - SPARQL query engine for local graphs and remote endpoints.

Queries run against a remote SPARQL service (the configured endpoint by
default) or, with --data, against an N-Quads file loaded in process.

Available commands:
  query    - Run a SELECT query and print bindings
  ask      - Run an ASK query and print the answer
  construct - Run a CONSTRUCT query and print the graph as N-Quads
  describe - Run a DESCRIBE query and print the graph as N-Quads
  config   - Inspect the sparq configuration
  version  - Show version information

Examples:
  sparq query 'SELECT ?s ?p ?o WHERE { ?s ?p ?o } LIMIT 10'
  sparq query --data triples.nq --key name 'SELECT ?name WHERE { ?s <http://xmlns.com/foaf/0.1/name> ?name }'
  sparq ask --service http://localhost:8890/sparql/ 'ASK { ?s ?p ?o }'
  sparq config show`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		if err := logger.Initialize(false, debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log queries, services and extracted bindings")

	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.AskCmd)
	rootCmd.AddCommand(commands.ConstructCmd)
	rootCmd.AddCommand(commands.DescribeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
