package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/chrisfenner/tpmwire/mu"
	"github.com/chrisfenner/tpmwire/tpm2"
)

func NewDecodeCmd(root *cobra.Command, cfg config) *cobra.Command {
	c := &cobra.Command{
		Use:   "decode TYPE HEX",
		Args:  cobra.ExactArgs(2),
		Short: "Decode a hex string as a catalog type",
		Example: "  tpm2wire decode TPM2B_PUBLIC " +
			"001e0023000b000200720003aabbcc00100019000b0003001000000003aabbcc",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := tpm2.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown type %q (see 'tpm2wire types')", args[0])
			}
			b, err := parseHex(args[1])
			if err != nil {
				return err
			}
			opts := mu.Options{Logger: cfg.logger(cmd.ErrOrStderr())}
			if f := cmd.Flag("selector"); f.Changed {
				sel, err := strconv.ParseUint(f.Value.String(), 0, 64)
				if err != nil {
					return fmt.Errorf("selector: %w", err)
				}
				opts = opts.WithSelector(sel)
			}
			v, err := mu.DecodeOptions(b, t, opts)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			return render(cmd.OutOrStdout(), output, v)
		},
	}
	c.Flags().StringP("output", "o", "text", "Output format: text or yaml")
	c.Flags().String("selector", "", "Discriminant for a top-level union")
	root.AddCommand(c)
	return c
}

// parseHex accepts hex with optional whitespace and 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

func render(w io.Writer, format string, v mu.Value) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, mu.Format(v))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(yamlNode(v)); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

func key(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// yamlNode builds a document that keeps struct fields in wire order.
func yamlNode(v mu.Value) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case *mu.StructValue:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for i, f := range x.Type.Fields {
			n.Content = append(n.Content, key(f.Name), yamlNode(x.Fields[i]))
		}
		return n
	case *mu.SeqValue:
		if b, ok := x.Bytes(); ok && len(b) > 0 {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: hex.EncodeToString(b)}
		}
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, e := range x.Elems {
			n.Content = append(n.Content, yamlNode(e))
		}
		return n
	case *mu.UnionValue:
		name := fmt.Sprintf("%#x", x.Selector)
		if arm, ok := x.Variant(); ok {
			name = arm.Name
		}
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{key(name), yamlNode(x.Payload)}}
	case *mu.SizedValue:
		return yamlNode(x.Inner)
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(x)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", v)}
}
