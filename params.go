package xbelmark

import (
	"fmt"
	"strings"
)

// ParameterMap maps stylesheet parameter names to string values.
type ParameterMap map[string]string

// ParseParamPairs builds a ParameterMap from alternating name and value
// tokens. An odd number of tokens is ErrMalformedParameterList.
// A repeated name keeps its last value.
func ParseParamPairs(tokens []string) (ParameterMap, error) {
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: %d tokens do not form name/value pairs", ErrMalformedParameterList, len(tokens))
	}

	params := make(ParameterMap, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		if tokens[i] == "" {
			return nil, fmt.Errorf("%w: empty name at position %d", ErrMalformedParameterList, i)
		}
		params[tokens[i]] = tokens[i+1]
	}
	return params, nil
}

// ParseParamAssignments builds a ParameterMap from name=value tokens.
// Each token is split on its first "="; a token without "=" or with an
// empty name is ErrMalformedParameterList. A repeated name keeps its last
// value.
func ParseParamAssignments(tokens []string) (ParameterMap, error) {
	params := make(ParameterMap, len(tokens))
	for _, token := range tokens {
		name, value, ok := strings.Cut(token, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q has no '='", ErrMalformedParameterList, token)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: %q has an empty name", ErrMalformedParameterList, token)
		}
		params[name] = value
	}
	return params, nil
}

// Merge returns a new map with the entries of p overridden by other.
func (p ParameterMap) Merge(other ParameterMap) ParameterMap {
	merged := make(ParameterMap, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
