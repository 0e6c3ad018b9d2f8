package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/sparql"
)

var (
	askService string
	askData    string
)

// AskCmd runs ASK queries.
var AskCmd = &cobra.Command{
	Use:   "ask <sparql|->",
	Short: "Run an ASK query and print the answer",
	Long: `Run an ASK query and print whether any solution matches.

Exits non-zero on query failure, zero otherwise; the answer itself is
printed, not encoded in the exit status.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	AskCmd.Flags().StringVar(&askService, "service", "", "SPARQL service URL (default: configured endpoint)")
	AskCmd.Flags().StringVar(&askData, "data", "", "N-Quads file to query in process instead of a service")
}

func runAsk(cmd *cobra.Command, args []string) error {
	querystring, err := readQuery(args)
	if err != nil {
		return err
	}
	if err := ensureForm(querystring, sparql.FormAsk); err != nil {
		return err
	}
	e, err := buildEngine(cmd, askService)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var answer bool
	if askData != "" {
		g, err := loadGraph(askData)
		if err != nil {
			return err
		}
		answer, err = e.LocalAsk(ctx, g, querystring)
		if err != nil {
			return err
		}
	} else {
		answer, err = e.Ask(ctx, querystring)
		if err != nil {
			return err
		}
	}

	if answer {
		pterm.Success.Println("true")
	} else {
		pterm.Info.Println("false")
	}
	return nil
}
