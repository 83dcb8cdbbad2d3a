//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// Package resources contains the names operations declare as read and write
// targets.
package resources

import "strings"

// Name identifies a logical resource, e.g. "account-42". Names compare by
// exact string equality.
type Name string

// Set is an ordered collection of distinct names. The order is the order of
// first appearance.
type Set []Name

// NewSet builds a Set from names, dropping duplicates. Names are taken
// verbatim.
func NewSet(names ...string) Set {
	set := make(Set, 0, len(names))
	seen := make(map[Name]struct{}, len(names))
	for _, n := range names {
		name := Name(n)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		set = append(set, name)
	}
	return set
}

// ParseList splits every value on commas, trims whitespace, drops empty
// entries and removes duplicates.
func ParseList(values ...string) Set {
	var names []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}
	return NewSet(names...)
}

func (s Set) Contains(name Name) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

// Union returns the names of s followed by the names of other not in s.
func (s Set) Union(other Set) Set {
	out := make(Set, 0, len(s)+len(other))
	out = append(out, s...)
	for _, n := range other {
		if !s.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, n := range s {
		out[i] = string(n)
	}
	return out
}

func (s Set) String() string {
	return strings.Join(s.Strings(), ",")
}
