// Package policy defines the institutional policy configuration the
// governance engine evaluates against.
//
// # Overview
//
// A Policy is an explicit struct with the exact recognized option set;
// loading is strict and unknown keys are rejected rather than silently
// ignored. Policies are supplied per activity or institution and are
// read-only inputs to the engine.
//
// # Loading
//
//	p, err := policy.LoadFile("policies/activity-42.yaml")
//	if err != nil {
//	    // covers both YAML errors and validation failures
//	}
//
// The FileProvider adds fsnotify-based live reload with debouncing, so a
// policy edit takes effect without a restart.
package policy
