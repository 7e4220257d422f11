package frontmatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

// yamlIndent is the mapping and sequence indentation of rendered YAML.
const yamlIndent = 2

// fromNode converts a YAML node into notebook values.
func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.MappingNode:
		m := notebook.NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key is not a scalar", key.Line)
			}
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return items, nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func scalarValue(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return b, nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return json.Number(strconv.FormatInt(n, 10)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return node.Value, nil
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	default:
		// !!str, !!timestamp and anything custom keep their literal text.
		return node.Value, nil
	}
}

// toNode converts notebook values into a YAML node.
func toNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}, nil
	case string:
		node := &yaml.Node{Kind: yaml.ScalarNode, Value: val}
		// Strings that would read back as dates, numbers or booleans are
		// single-quoted, as PyYAML writes them.
		if node.ShortTag() != "!!str" {
			node.Style = yaml.SingleQuotedStyle
		}
		node.Tag = "!!str"
		return node, nil
	case json.Number:
		tag := "!!int"
		if _, err := val.Int64(); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(val)}, nil
	case *notebook.Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			child, err := toNode(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pair.Key, err)
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key}
			node.Content = append(node.Content, key, child)
		}
		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := toNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// encodeYAML renders fields as a block mapping ending in a newline.
func encodeYAML(fields *notebook.Map) (string, error) {
	node, err := toNode(fields)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front matter: %w", err)
	}
	return buf.String(), nil
}

// scalarText formats a scalar value for template substitution.
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", true
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case json.Number:
		return val.String(), true
	case int:
		return strconv.Itoa(val), true
	default:
		return "", false
	}
}
