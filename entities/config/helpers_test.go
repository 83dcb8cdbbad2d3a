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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnabled(t *testing.T) {
	for value, expected := range map[string]bool{
		"on":      true,
		"Enabled": true,
		"1":       true,
		"TRUE":    true,
		" true ":  true,
		"off":     false,
		"0":       false,
		"":        false,
		"yes":     false,
	} {
		assert.Equal(t, expected, Enabled(value), "value %q", value)
	}
}

func TestDurationFromEnv(t *testing.T) {
	t.Run("go duration", func(t *testing.T) {
		t.Setenv("SOME_COOLDOWN", "750ms")
		d, ok := DurationFromEnv("SOME_COOLDOWN")
		assert.True(t, ok)
		assert.Equal(t, 750*time.Millisecond, d)
	})

	t.Run("plain integer is milliseconds", func(t *testing.T) {
		t.Setenv("SOME_COOLDOWN", "200")
		d, ok := DurationFromEnv("SOME_COOLDOWN")
		assert.True(t, ok)
		assert.Equal(t, 200*time.Millisecond, d)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Setenv("SOME_COOLDOWN", "soon")
		_, ok := DurationFromEnv("SOME_COOLDOWN")
		assert.False(t, ok)
	})

	t.Run("unset", func(t *testing.T) {
		_, ok := DurationFromEnv("SOME_COOLDOWN_THAT_IS_NOT_SET")
		assert.False(t, ok)
	})
}

func TestIntFromEnv(t *testing.T) {
	t.Setenv("SOME_INT", " 42")
	v, ok := IntFromEnv("SOME_INT")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	t.Setenv("SOME_INT", "forty-two")
	_, ok = IntFromEnv("SOME_INT")
	assert.False(t, ok)
}
