package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned when a key path is empty.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key path into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid key path %q: empty segment", path)
		}
	}
	return parts, nil
}

// SetNestedValue sets a value at the given key path in a YAML document node,
// creating intermediate mappings as needed. Operating on yaml.Node rather
// than a map keeps existing comments and ordering intact.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	// An empty document gets a fresh mapping root.
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
		}
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	for i, key := range keyPath {
		last := i == len(keyPath)-1
		valueNode := findMapValue(node, key)

		if last {
			encoded, err := encodeScalar(value)
			if err != nil {
				return err
			}
			if valueNode != nil {
				*valueNode = *encoded
			} else {
				appendMapEntry(node, key, encoded)
			}
			return nil
		}

		if valueNode == nil {
			child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			appendMapEntry(node, key, child)
			node = child
			continue
		}
		if valueNode.Kind != yaml.MappingNode {
			return fmt.Errorf("key %q is not a mapping", strings.Join(keyPath[:i+1], "."))
		}
		node = valueNode
	}
	return nil
}

// GetNestedValue returns the value node at the given key path, or nil when
// any segment is missing.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if len(keyPath) == 0 {
		return nil
	}
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		node = findMapValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}

// SetConfigValue validates and persists one configuration key in a YAML file.
// The key must be registered in KnownKeys and the value must parse as the
// key's declared type. Missing files and directories are created.
func SetConfigValue(configPath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}

	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
	}

	if err := SetNestedValue(&root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", configPath, err)
	}
	return nil
}

// findMapValue returns the value node for key in a mapping node, or nil.
func findMapValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// appendMapEntry appends a key/value pair to a mapping node.
func appendMapEntry(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// encodeScalar converts a Go value into a YAML node.
func encodeScalar(value interface{}) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return nil, fmt.Errorf("encoding value %v: %w", value, err)
	}
	return &n, nil
}
