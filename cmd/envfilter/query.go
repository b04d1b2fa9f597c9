package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/JakWdo/envfilter/internal/filter"
	"github.com/JakWdo/envfilter/internal/output"
	"github.com/JakWdo/envfilter/internal/store"
)

var (
	queryDB      string
	queryEnv     string
	queryType    string
	queryLimit   int
	queryJSON    bool
	queryExplain bool
)

var queryCmd = &cobra.Command{
	Use:   "query <dsl>",
	Short: "Run a filter query against a local database",
	Long:  `Parse a query expression and evaluate it against the resources of an environment.`,
	Args:  cobra.ExactArgs(1),
	Example: `  envfilter query -e env-1 'dem:age-25-34 AND geo:warsaw'
  envfilter query -e env-1 -t workflow -j 'NOT psy:low-openness'
  envfilter query --explain 'a:1 AND b:2 OR c:3'`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryDB, "db", "d", "envfilter.db", "Path to the sqlite database")
	queryCmd.Flags().StringVarP(&queryEnv, "env", "e", "", "Environment id")
	queryCmd.Flags().StringVarP(&queryType, "type", "t", "persona", "Resource type (persona or workflow)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "Maximum rows to display (0 = all)")
	queryCmd.Flags().BoolVarP(&queryJSON, "json", "j", false, "Output in JSON format")
	queryCmd.Flags().BoolVar(&queryExplain, "explain", false, "Print the parsed expression and exit")
}

func runQuery(cmd *cobra.Command, args []string) error {
	expr, err := filter.Parse(args[0])
	if err != nil {
		return err
	}

	if queryExplain {
		fmt.Println(expr.String())
		return nil
	}

	if queryEnv == "" {
		return fmt.Errorf("--env is required")
	}
	typ, err := store.ParseResourceType(queryType)
	if err != nil {
		return err
	}

	st, err := store.OpenSQLite(queryDB)
	if err != nil {
		return err
	}
	defer st.Close()

	resources, err := st.ListResources(cmd.Context(), queryEnv, typ)
	if err != nil {
		return err
	}

	list := buildResultList(resources, expr, queryLimit)

	format := output.FormatText
	if queryJSON {
		format = output.FormatJSON
	}
	result, err := output.FormatOutput(list, format)
	if err != nil {
		return err
	}
	fmt.Println(result)

	return nil
}

// buildResultList evaluates the expression over the resources and converts
// matches into display entries, keeping at most limit rows (0 keeps all).
// Count always reflects the total number of matches.
func buildResultList(resources []store.Resource, expr filter.Expr, limit int) *output.ResultList {
	list := &output.ResultList{}
	for _, r := range resources {
		if !expr.Eval(r.Tags) {
			continue
		}
		list.Count++
		if limit > 0 && len(list.Entries) >= limit {
			continue
		}
		tags := make([]string, 0, len(r.Tags))
		for t := range r.Tags {
			tags = append(tags, t.String())
		}
		sort.Strings(tags)
		list.Entries = append(list.Entries, output.ResultEntry{
			ID:   r.ID,
			Type: string(r.Type),
			Tags: tags,
		})
	}
	return list
}
