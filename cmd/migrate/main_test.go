package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandActions(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.ElementsMatch(t, []string{"up", "down", "step-up", "drop"}, names)

	up, _, err := cmd.Find([]string{"up"})
	require.NoError(t, err)
	require.Error(t, up.Args(up, []string{"extra"}))
}
