package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/lifesim/internal/engine"
)

// marshalJSON encodes v as compact JSON TEXT with HTML escaping disabled.
// Map keys come out sorted, so equal values produce equal text.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline
	return strings.TrimSpace(buf.String()), nil
}

func marshalConfig(cfg engine.LifeConfig) (string, error) {
	data, err := marshalJSON(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func unmarshalConfig(data string) (engine.LifeConfig, error) {
	var cfg engine.LifeConfig
	if data == "" || data == "{}" {
		return cfg, nil
	}
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return engine.LifeConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func marshalDetail(detail map[string]any) (string, error) {
	if len(detail) == 0 {
		return "{}", nil
	}
	data, err := marshalJSON(detail)
	if err != nil {
		return "", fmt.Errorf("marshal detail: %w", err)
	}
	return data, nil
}

// unmarshalDetail decodes history detail. Numbers decode as json.Number so
// large money values keep their precision.
func unmarshalDetail(data string) (map[string]any, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("unmarshal detail: %w", err)
	}
	return m, nil
}
