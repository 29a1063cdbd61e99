package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// varPattern matches ${VAR_NAME} and ${VAR_NAME:-default}
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// EnvExpander expands ${VAR} references in configuration values. Only
// variables on the allow-list are expanded; anything else is left as written.
type EnvExpander struct {
	allowedVars []string
	lookup      func(string) (string, bool)
}

// NewEnvExpander creates an expander for the given allow-list. Entries are
// exact names or wildcards such as "LOG_*", "*_DIR" or "*".
func NewEnvExpander(allowedVars []string) *EnvExpander {
	return &EnvExpander{
		allowedVars: allowedVars,
		lookup:      os.LookupEnv,
	}
}

// ExpandString expands the variable references in s. An unset or empty
// variable takes its inline default when one is given and is otherwise
// left unexpanded.
func (e *EnvExpander) ExpandString(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := varPattern.FindStringSubmatch(match)
		varName, hasDefault, fallback := groups[1], groups[2] != "", groups[3]

		if !e.IsVarAllowed(varName) {
			return match
		}

		if value, ok := e.lookup(varName); ok && value != "" {
			return value
		}
		if hasDefault {
			return fallback
		}
		return match
	})
}

// ExpandMap expands variables in every string nested in m
func (e *EnvExpander) ExpandMap(m map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(m))

	for key, value := range m {
		expanded, err := e.expandValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to expand value for key %s: %w", key, err)
		}
		result[key] = expanded
	}

	return result, nil
}

func (e *EnvExpander) expandValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.ExpandString(v), nil
	case map[string]interface{}:
		return e.ExpandMap(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			expanded, err := e.expandValue(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			result[i] = expanded
		}
		return result, nil
	default:
		return value, nil
	}
}

// IsVarAllowed reports whether varName may be expanded
func (e *EnvExpander) IsVarAllowed(varName string) bool {
	for _, allowed := range e.allowedVars {
		if matchPattern(allowed, varName) {
			return true
		}
	}
	return false
}

// matchPattern supports a single leading or trailing wildcard
func matchPattern(pattern, varName string) bool {
	if pattern == varName {
		return true
	}

	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(varName, strings.TrimSuffix(pattern, "*"))
	}

	if strings.HasPrefix(pattern, "*") {
		return strings.HasSuffix(varName, strings.TrimPrefix(pattern, "*"))
	}

	return false
}

// References lists the distinct variable names referenced in s, in order
// of first appearance.
func References(s string) []string {
	var names []string
	seen := map[string]bool{}

	for _, groups := range varPattern.FindAllStringSubmatch(s, -1) {
		if !seen[groups[1]] {
			seen[groups[1]] = true
			names = append(names, groups[1])
		}
	}
	return names
}
