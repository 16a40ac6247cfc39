package policy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load parses a policy from YAML. Unknown keys are rejected, and the
// result is validated before it is returned.
func Load(data []byte) (*Policy, error) {
	p := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}

	return p, nil
}

// LoadFile reads and parses a policy file.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	return Load(data)
}

// policySet is the on-disk shape of a multi-activity policy file.
type policySet struct {
	// Default applies to activities with no specific entry.
	Default *Policy `yaml:"default"`

	// Activities maps activity IDs to their policies.
	Activities map[string]*Policy `yaml:"activities"`
}

// LoadSet parses a multi-activity policy file. Every contained policy is
// validated; the first invalid one aborts the load.
func LoadSet(data []byte) (map[string]*Policy, *Policy, error) {
	var set policySet

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, nil, fmt.Errorf("failed to parse policy set: %w", err)
	}

	if set.Default == nil {
		set.Default = Default()
	}
	if err := Validate(set.Default); err != nil {
		return nil, nil, fmt.Errorf("default policy: %w", err)
	}

	for id, p := range set.Activities {
		if err := Validate(p); err != nil {
			return nil, nil, fmt.Errorf("activity %q: %w", id, err)
		}
	}

	return set.Activities, set.Default, nil
}
