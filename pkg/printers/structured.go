package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"
)

// Structured output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted structured output formats.
var Formats = []string{FormatJSON, FormatYAML}

// Structured writes v as indented JSON or as YAML. A nil w writes to
// color.Output.
func Structured(w io.Writer, format string, v interface{}) error {
	if w == nil {
		w = color.Output
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		_, err = fmt.Fprintln(w, string(b))
		return err
	case FormatYAML:
		y, err := yaml.JSONToYAML(b)
		if err != nil {
			return err
		}
		_, err = w.Write(y)
		return err
	}
	return fmt.Errorf("unknown output format %q, expected one of %s", format, strings.Join(Formats, ", "))
}
