package main

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chrisfenner/tpmwire/mu"
	"github.com/chrisfenner/tpmwire/tpm2"
)

func templateNames() []string {
	var names []string
	for n := range tpm2.Templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func NewEncodeCmd(root *cobra.Command, cfg config) *cobra.Command {
	c := &cobra.Command{
		Use:       "encode TEMPLATE",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: templateNames(),
		Short:     "Print the TPM2B_PUBLIC encoding of a key template",
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, ok := tpm2.Templates[args[0]]
			if !ok {
				return fmt.Errorf("unknown template %q", args[0])
			}
			area := tmpl()
			b, err := mu.EncodeOptions(tpm2.PublicOf(area), mu.Options{Logger: cfg.logger(cmd.ErrOrStderr())})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
			if name, _ := cmd.Flags().GetBool("name"); name {
				n, err := tpm2.ObjectName(area)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "name: %s\n", hex.EncodeToString(n))
			}
			return nil
		},
	}
	c.Flags().Bool("name", false, "Also print the object Name of the template")
	root.AddCommand(c)
	return c
}

func NewTypesCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "types",
		Args:  cobra.NoArgs,
		Short: "List the catalog types accepted by decode",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, n := range tpm2.TypeNames() {
				t, _ := tpm2.Lookup(n)
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %v\n", n, t.Kind())
			}
		},
	}
	root.AddCommand(c)
	return c
}
