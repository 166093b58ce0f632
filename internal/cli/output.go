package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// printer renders a decoded response tree.
type printer func(w io.Writer, v any) error

func newPrinter(format string) (printer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return printJSON, nil
	case "yaml", "yml":
		return printYAML, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected json or yaml)", format)
	}
}

var jsonOut = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

func printJSON(w io.Writer, v any) error {
	b, err := jsonOut.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlTree(v)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// yamlTree rewrites json.Number leaves as plain !!int/!!float scalars.
// yaml.v3 would otherwise quote them as strings. The literal text is kept so
// integers beyond float64 precision survive.
func yamlTree(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = yamlTree(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = yamlTree(e)
		}
		return out
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	default:
		return v
	}
}
