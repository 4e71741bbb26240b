package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ffaudio/internal/filtergraph"
)

type graphOutput struct {
	Endpoint   string   `json:"endpoint"`
	Operation  string   `json:"operation"`
	Output     string   `json:"output"`
	Directives []string `json:"directives"`
	Complex    bool     `json:"complex"`
	Args       []string `json:"args"`
}

func newGraphCommand() *cobra.Command {
	var (
		params []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "graph <path>",
		Short: "Show the filter graph and engine arguments an endpoint would use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, ok := filtergraph.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown endpoint %q (see ffaudioctl endpoints)", args[0])
			}
			if ep.Operation == filtergraph.OpProbe {
				return fmt.Errorf("%s runs the metadata probe and has no filter graph", ep.Path)
			}

			p, err := parseParams(params)
			if err != nil {
				return err
			}

			g, err := buildGraph(ep, p)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, g)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Endpoint:  %s\n", g.Endpoint)
			fmt.Fprintf(out, "Operation: %s\n", g.Operation)
			fmt.Fprintf(out, "Output:    %s\n", g.Output)
			if len(g.Directives) == 0 {
				fmt.Fprintln(out, "Filters:   none")
			} else {
				for i, d := range g.Directives {
					fmt.Fprintf(out, "Filter %d:  %s\n", i+1, d)
				}
			}
			fmt.Fprintf(out, "Command:   ffmpeg %s\n", strings.Join(g.Args, " "))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Form parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func buildGraph(ep filtergraph.Endpoint, p filtergraph.Params) (graphOutput, error) {
	spec, err := filtergraph.Build(ep.Operation, ep.Format, p)
	if err != nil {
		return graphOutput{}, err
	}

	inputs := make([]string, 0, len(ep.Fields))
	for _, f := range ep.Fields {
		inputs = append(inputs, "<"+f+">")
	}
	output := "<output>" + spec.OutputFormat().Ext()

	argv, err := filtergraph.Args(spec, inputs, output)
	if err != nil {
		return graphOutput{}, err
	}

	return graphOutput{
		Endpoint:   ep.Method + " " + ep.Path,
		Operation:  string(spec.Operation),
		Output:     string(spec.OutputFormat()),
		Directives: spec.Directives,
		Complex:    spec.Complex,
		Args:       argv,
	}, nil
}

func parseParams(raw []string) (filtergraph.Params, error) {
	p := filtergraph.Params{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", kv)
		}
		p[k] = strings.TrimSpace(v)
	}
	return p, nil
}
