package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequentialIDGenerator_Sequence(t *testing.T) {
	gen := NewSequentialIDGenerator("life")

	assert.Equal(t, "life-1", gen.Generate())
	assert.Equal(t, "life-2", gen.Generate())
	assert.Equal(t, "life-3", gen.Generate())
}

func TestSequentialIDGenerator_EmptyPrefixDefault(t *testing.T) {
	gen := NewSequentialIDGenerator("")
	assert.Equal(t, "id-1", gen.Generate())
}

func TestSequentialIDGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialIDGenerator("x")

	done := make(chan map[string]bool)
	for i := 0; i < 10; i++ {
		go func() {
			seen := make(map[string]bool)
			for j := 0; j < 100; j++ {
				seen[gen.Generate()] = true
			}
			done <- seen
		}()
	}

	all := make(map[string]bool)
	for i := 0; i < 10; i++ {
		for id := range <-done {
			assert.False(t, all[id], "duplicate id %s", id)
			all[id] = true
		}
	}
	assert.Len(t, all, 1000)
}
