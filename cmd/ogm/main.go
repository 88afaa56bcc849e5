// Package main provides the ogm CLI, a debugging surface for the
// filter-to-Cypher compiler: it reads a filter document and prints the
// compiled clause, parameter map, and match fragments.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skaldic/ogm/pkg/cypher"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// output is what the compile command prints, as indented JSON.
type output struct {
	Match      string                 `json:"match,omitempty"`
	Clause     string                 `json:"clause"`
	Parameters map[string]interface{} `json:"parameters"`
	Options    string                 `json:"options,omitempty"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "ogm",
		Short: "Compile filter documents to parameterized Cypher",
		Long: `ogm compiles MongoDB-style filter documents into parameterized
Cypher WHERE fragments and match patterns.

Filter documents are read as YAML, which accepts JSON input unchanged.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newPatternCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ogm %s (%s)\n", version, commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newCompileCmd() *cobra.Command {
	var (
		ref     string
		relRef  string
		context string
		sort    []string
		order   string
		skip    int64
		limit   int64
	)

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a filter document to a WHERE clause",
		Long: `Compile reads a filter document from the given file (or stdin when the
argument is omitted or "-") and prints the compiled clause plus its
parameter map as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args)
			if err != nil {
				return err
			}

			builder := cypher.NewBuilder(ref)
			var out output

			switch context {
			case "node":
				compiled, err := builder.NodeFilters(doc)
				if err != nil {
					return err
				}
				out.Clause, out.Parameters = compiled.Clause, compiled.Parameters
			case "relationship":
				compiled, err := builder.RelationshipFilters(doc)
				if err != nil {
					return err
				}
				out.Clause, out.Parameters = compiled.Clause, compiled.Parameters
			case "relationship-property":
				compiled, err := builder.RelationshipPropertyFilters(doc, relRef)
				if err != nil {
					return err
				}
				out.Clause, out.Parameters = compiled.Clause, compiled.Parameters
			case "multi-hop":
				compiled, err := builder.MultiHopFilters(doc)
				if err != nil {
					return err
				}
				out.Match = compiled.Match
				out.Clause, out.Parameters = compiled.Clause, compiled.Parameters
			default:
				return fmt.Errorf("unknown filter context %q", context)
			}

			if len(sort) > 0 || order != "" || skip >= 0 || limit > 0 {
				opts := cypher.QueryOptions{Sort: toInterfaceSlice(sort)}
				if order != "" {
					opts.Order = cypher.Order(strings.ToUpper(order))
				}
				if skip >= 0 {
					opts.Skip = skip
				}
				if limit > 0 {
					opts.Limit = limit
				}
				out.Options = opts.Render(ref)
			}

			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "n", "reference name the clause compiles against")
	cmd.Flags().StringVar(&relRef, "rel-ref", "r", "relationship reference for relationship-property filters")
	cmd.Flags().StringVar(&context, "context", "node", "filter context: node, relationship, relationship-property, multi-hop")
	cmd.Flags().StringSliceVar(&sort, "sort", nil, "properties to sort by")
	cmd.Flags().StringVar(&order, "order", "", "sort order: asc or desc")
	cmd.Flags().Int64Var(&skip, "skip", -1, "number of results to skip")
	cmd.Flags().Int64Var(&limit, "limit", 0, "maximum number of results")
	return cmd
}

func newPatternCmd() *cobra.Command {
	var (
		ref         string
		relType     string
		direction   string
		startRef    string
		startLabels []string
		endRef      string
		endLabels   []string
		minHops     int64
		maxHops     string
	)

	cmd := &cobra.Command{
		Use:   "pattern",
		Short: "Render a relationship match pattern",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := cypher.Pattern{
				Ref:         ref,
				Type:        relType,
				Direction:   cypher.Direction(strings.ToUpper(direction)),
				StartRef:    startRef,
				StartLabels: startLabels,
				EndRef:      endRef,
				EndLabels:   endLabels,
			}
			if minHops >= 0 {
				p.MinHops = minHops
			}
			if maxHops != "" {
				if maxHops == cypher.HopsWildcard {
					p.MaxHops = maxHops
				} else {
					var n int64
					if _, err := fmt.Sscanf(maxHops, "%d", &n); err != nil {
						return fmt.Errorf("%w: %q", cypher.ErrInvalidHops, maxHops)
					}
					p.MaxHops = n
				}
			}

			rendered, err := p.Render()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "r", "relationship reference name")
	cmd.Flags().StringVar(&relType, "type", "", "relationship type")
	cmd.Flags().StringVar(&direction, "direction", string(cypher.DirectionBoth), "direction: incoming, outgoing, both")
	cmd.Flags().StringVar(&startRef, "start-ref", "", "start node reference")
	cmd.Flags().StringSliceVar(&startLabels, "start-labels", nil, "start node labels")
	cmd.Flags().StringVar(&endRef, "end-ref", "", "end node reference")
	cmd.Flags().StringSliceVar(&endLabels, "end-labels", nil, "end node labels")
	cmd.Flags().Int64Var(&minHops, "min-hops", -1, "minimum hop count")
	cmd.Flags().StringVar(&maxHops, "max-hops", "", `maximum hop count, or "*"`)
	return cmd
}

// readDocument decodes a filter document from the file argument or stdin.
// YAML is a superset of JSON, so one decoder covers both formats.
func readDocument(args []string) (map[string]interface{}, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("reading filter document: %w", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding filter document: %w", err)
	}
	return doc, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func toInterfaceSlice(values []string) []interface{} {
	if len(values) == 0 {
		return nil
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
