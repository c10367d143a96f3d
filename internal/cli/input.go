package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tangram-data/mql/clause"
	"github.com/tangram-data/mql/ir"
)

// ReadDocument reads a query document from a file, or from stdin when the
// path is "-". Files ending in .yaml or .yml are decoded as YAML, anything
// else as JSON.
func ReadDocument(path string, stdin io.Reader) (ir.Map, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if isYAMLPath(path) {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML document: %w", err)
		}
		n, err := ir.FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("parse YAML document: %w", err)
		}
		doc, ok := n.(ir.Map)
		if !ok {
			return nil, fmt.Errorf("query document must be a mapping, got %T", n)
		}
		return doc, nil
	}

	doc, err := ir.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse JSON document: %w", err)
	}
	return doc, nil
}

func isYAMLPath(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ParseKeypath parses a dot-separated keypath flag ("query.filter").
func ParseKeypath(s string) (clause.Keypath, error) {
	if s == "" {
		return nil, fmt.Errorf("keypath must not be empty")
	}
	for _, key := range strings.Split(s, ".") {
		if key == "" {
			return nil, fmt.Errorf("keypath %q contains an empty key", s)
		}
	}
	return clause.Path(strings.Split(s, ".")...), nil
}
