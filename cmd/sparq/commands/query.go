package commands

import (
	"encoding/json"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

var (
	queryService string
	queryData    string
	queryKey     string
	queryKeys    []string
	queryJSON    bool
)

// QueryCmd runs SELECT queries.
var QueryCmd = &cobra.Command{
	Use:   "query <sparql|->",
	Short: "Run a SELECT query and print bindings",
	Long: `Run a SELECT query and print its bindings.

The query runs against the configured endpoint, an explicit --service
URL, or a local --data N-Quads file. Pass "-" to read the query from
stdin.

With --key, only that variable's values are printed, one per line,
skipping solutions where it is unbound. With --keys, one row per
solution is printed with the fields in the given order; unbound keys
are omitted from their row.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	QueryCmd.Flags().StringVar(&queryService, "service", "", "SPARQL service URL (default: configured endpoint)")
	QueryCmd.Flags().StringVar(&queryData, "data", "", "N-Quads file to query in process instead of a service")
	QueryCmd.Flags().StringVar(&queryKey, "key", "", "Print only this variable's values")
	QueryCmd.Flags().StringSliceVar(&queryKeys, "keys", nil, "Print rows with these variables, in this order")
	QueryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output rows as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	querystring, err := readQuery(args)
	if err != nil {
		return err
	}
	if err := ensureForm(querystring, sparql.FormSelect); err != nil {
		return err
	}
	e, err := buildEngine(cmd, queryService)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var rs *sparql.Results
	if queryData != "" {
		g, err := loadGraph(queryData)
		if err != nil {
			return err
		}
		rs, err = e.LocalSelect(ctx, g, querystring)
		if err != nil {
			return err
		}
	} else {
		rs, err = e.Select(ctx, querystring)
		if err != nil {
			return err
		}
	}
	defer rs.Close()

	switch {
	case queryKey != "":
		values, err := e.Collect(rs, queryKey, nil)
		if err != nil {
			return err
		}
		return printValues(values)
	case len(queryKeys) > 0:
		tuples, err := e.CollectTuples(rs, queryKeys, nil)
		if err != nil {
			return err
		}
		return printTuples(queryKeys, tuples)
	default:
		return printSolutions(rs)
	}
}

func printValues(values []string) error {
	if queryJSON {
		return json.NewEncoder(os.Stdout).Encode(values)
	}
	for _, v := range values {
		pterm.Println(v)
	}
	return nil
}

func printTuples(keys []string, tuples [][]string) error {
	if queryJSON {
		return json.NewEncoder(os.Stdout).Encode(tuples)
	}
	data := pterm.TableData{keys}
	for _, tuple := range tuples {
		data = append(data, tuple)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printSolutions renders the full binding table, keeping unbound
// variables as empty cells so columns stay aligned.
func printSolutions(rs *sparql.Results) error {
	vars := rs.Vars()
	var rows [][]string
	for rs.Next() {
		soln := rs.Solution()
		row := make([]string, len(vars))
		for i, name := range vars {
			if node := soln.Get(name); node != nil {
				row[i] = rdf.TermString(node)
			}
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return err
	}

	if queryJSON {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]string, len(vars))
			for i, name := range vars {
				if row[i] != "" {
					m[name] = row[i]
				}
			}
			out = append(out, m)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	data := pterm.TableData{vars}
	for _, row := range rows {
		data = append(data, row)
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("%d solutions\n", len(rows))
	return nil
}
