package parser

import (
	"encoding/json"
	"strings"
)

const jsonLDType = "application/ld+json"

// jsonLDTypes returns the @type values of a JSON-LD block.
// Malformed JSON contributes nothing.
func jsonLDTypes(raw string) []string {
	var payload any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil
	}

	types := []string{}
	collectTypes(payload, &types)

	return types
}

func collectTypes(node any, types *[]string) {
	switch value := node.(type) {
	case []any:
		for _, item := range value {
			collectTypes(item, types)
		}
	case map[string]any:
		switch schemaType := value["@type"].(type) {
		case string:
			appendType(types, schemaType)
		case []any:
			for _, item := range schemaType {
				if name, ok := item.(string); ok {
					appendType(types, name)
				}
			}
		}

		if graph, ok := value["@graph"]; ok {
			collectTypes(graph, types)
		}
	}
}

func appendType(types *[]string, schemaType string) {
	trimmed := strings.TrimSpace(schemaType)
	if trimmed != "" {
		*types = append(*types, trimmed)
	}
}

// microdataTypes returns the last path segment of each itemtype URL,
// e.g. "https://schema.org/Product" yields "Product".
func microdataTypes(itemtype string) []string {
	types := []string{}

	for _, field := range strings.Fields(itemtype) {
		trimmed := strings.TrimRight(field, "/")
		segment := trimmed[strings.LastIndex(trimmed, "/")+1:]
		if segment != "" {
			types = append(types, segment)
		}
	}

	return types
}
