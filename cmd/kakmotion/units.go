package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/dshills/kakmotion/internal/app"
	"github.com/dshills/kakmotion/internal/unit"
)

var (
	unitsLanguage string
	unitsJSON     bool
)

// unitInfo describes one effective unit.
type unitInfo struct {
	Name     string   `json:"name"`
	Shape    string   `json:"shape"`
	Patterns []string `json:"patterns"`
	Layer    string   `json:"layer,omitempty"`
	Kind     string   `json:"kind"`
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List the effective motion units",
	Long: `List the motion units in effect for a language: the language's own units
followed by the generic ("*") units it does not override, with the
configuration layer each one comes from.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(opts)
		if err != nil {
			return err
		}
		defer application.Close()

		infos, err := effectiveUnits(application, unitsLanguage)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if unitsJSON {
			data, err := json.Marshal(infos)
			if err != nil {
				return err
			}
			_, err = out.Write(pretty.Pretty(data))
			return err
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSHAPE\tKIND\tLAYER\tPATTERN")
		for _, u := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.Name, u.Shape, u.Kind, u.Layer, strings.Join(u.Patterns, " | "))
		}
		return tw.Flush()
	},
}

func init() {
	unitsCmd.Flags().StringVarP(&unitsLanguage, "language", "l", "", "language identifier (default: generic units only)")
	unitsCmd.Flags().BoolVar(&unitsJSON, "json", false, "print JSON")
	rootCmd.AddCommand(unitsCmd)
}

func effectiveUnits(application *app.Application, language string) ([]unitInfo, error) {
	kind := language
	if kind == "" {
		kind = unit.GenericKind
	}
	reg := application.Units()

	infos := make([]unitInfo, 0)
	for _, name := range reg.Names(kind) {
		def, err := reg.Lookup(kind, name)
		if err != nil {
			return nil, err
		}
		from := kind
		layer, ok := application.Config().LayerOf(kind, name)
		if !ok {
			from = unit.GenericKind
			layer, _ = application.Config().LayerOf(unit.GenericKind, name)
		}
		infos = append(infos, unitInfo{
			Name:     name,
			Shape:    def.Shape().String(),
			Patterns: def.Source(),
			Layer:    layer,
			Kind:     from,
		})
	}
	return infos, nil
}
