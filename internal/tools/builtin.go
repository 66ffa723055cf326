package tools

import (
	"context"
	"fmt"

	"github.com/radutopala/seqmatch/internal/fuzzy"
	"github.com/radutopala/seqmatch/internal/temperature"
)

// Built-in tool names.
const (
	ToolFuzzyMatch          = "fuzzy_match"
	ToolFuzzyFilter         = "fuzzy_filter"
	ToolFahrenheitToCelsius = "fahrenheit_to_celsius"
)

// RegisterBuiltins installs the matcher and temperature tools.
func RegisterBuiltins(r *Registry) error {
	builtins := []*Tool{
		{
			Name:        ToolFuzzyMatch,
			Category:    "match",
			Description: "Report whether the characters of pattern appear in order within subject",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern": map[string]any{"type": "string", "description": "Characters to find, in order"},
					"subject": map[string]any{"type": "string", "description": "Text to search within"},
				},
				"required": []string{"pattern", "subject"},
			},
			Handler: handleFuzzyMatch,
		},
		{
			Name:        ToolFuzzyFilter,
			Category:    "match",
			Description: "Keep the candidates that contain pattern as an in-order subsequence",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern":    map[string]any{"type": "string", "description": "Characters to find, in order"},
					"candidates": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"required": []string{"pattern", "candidates"},
			},
			Handler: handleFuzzyFilter,
		},
		{
			Name:        ToolFahrenheitToCelsius,
			Category:    "temperature",
			Description: "Convert a Fahrenheit temperature to Celsius",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fahrenheit": map[string]any{"type": "number"},
				},
				"required": []string{"fahrenheit"},
			},
			Handler: handleFahrenheitToCelsius,
		},
	}

	for _, tool := range builtins {
		if err := r.Register(tool); err != nil {
			return fmt.Errorf("failed to register %s: %w", tool.Name, err)
		}
	}
	return nil
}

func handleFuzzyMatch(ctx context.Context, params map[string]any) (map[string]any, error) {
	pattern, err := stringArg(params, "pattern")
	if err != nil {
		return nil, err
	}
	subject, err := stringArg(params, "subject")
	if err != nil {
		return nil, err
	}

	return map[string]any{"matches": fuzzy.Match(pattern, subject)}, nil
}

func handleFuzzyFilter(ctx context.Context, params map[string]any) (map[string]any, error) {
	pattern, err := stringArg(params, "pattern")
	if err != nil {
		return nil, err
	}
	candidates, err := stringSliceArg(params, "candidates")
	if err != nil {
		return nil, err
	}

	matches := fuzzy.Filter(pattern, candidates)
	return map[string]any{"matches": matches, "count": len(matches)}, nil
}

func handleFahrenheitToCelsius(ctx context.Context, params map[string]any) (map[string]any, error) {
	fahrenheit, err := floatArg(params, "fahrenheit")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"fahrenheit": fahrenheit,
		"celsius":    temperature.FahrenheitToCelsius(fahrenheit),
	}, nil
}

func stringArg(params map[string]any, name string) (string, error) {
	raw, ok := params[name]
	if !ok {
		return "", fmt.Errorf("%w: missing %q", ErrInvalidArguments, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidArguments, name, raw)
	}
	return s, nil
}

func stringSliceArg(params map[string]any, name string) ([]string, error) {
	raw, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidArguments, name)
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %q[%d] must be a string, got %T", ErrInvalidArguments, name, i, item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q must be an array of strings, got %T", ErrInvalidArguments, name, raw)
	}
}

func floatArg(params map[string]any, name string) (float64, error) {
	raw, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing %q", ErrInvalidArguments, name)
	}

	// JSON numbers decode as float64; Go callers may pass ints
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %q must be a number, got %T", ErrInvalidArguments, name, raw)
	}
}
