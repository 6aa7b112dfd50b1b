package takt

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Positions serialize as their canonical tick index, a plain scalar. The
// bar/beat/tick view is derived state and is never persisted.

func (p Position) MarshalYAML() (interface{}, error) {
	return p.ticks, nil
}

func (p *Position) UnmarshalYAML(node *yaml.Node) error {
	var ticks float64
	if err := node.Decode(&ticks); err != nil {
		return err
	}
	*p = FromTicks(ticks)
	return nil
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ticks)
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var ticks float64
	if err := json.Unmarshal(data, &ticks); err != nil {
		return err
	}
	*p = FromTicks(ticks)
	return nil
}
