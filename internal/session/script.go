package session

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseScript reads a YAML list of intents. Unknown keys are rejected.
//
//	- op: add_rule
//	  target: g1
//	- op: set_value
//	  target: r2
//	  value: 30
func ParseScript(r io.Reader) ([]Intent, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var intents []Intent
	if err := dec.Decode(&intents); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}

	for i, in := range intents {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("intent %d: %w", i+1, err)
		}
	}
	return intents, nil
}
