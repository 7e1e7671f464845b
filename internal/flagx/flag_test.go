package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValue(t *testing.T) {
	args := []string{"-a", "http://localhost:8080", "-x", "ignored"}
	got := FilterArgs(args, []string{"-a"})
	assert.Equal(t, []string{"-a", "http://localhost:8080"}, got)
}

func TestFilterArgs_EqualsForm(t *testing.T) {
	args := []string{"--api-url=http://h", "-other=1"}
	got := FilterArgs(args, []string{"--api-url"})
	assert.Equal(t, []string{"--api-url=http://h"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-v", "-a", "addr"}
	got := FilterArgs(args, []string{"-v"})
	assert.Equal(t, []string{"-v"}, got)
}

func TestFilterArgs_Empty(t *testing.T) {
	got := FilterArgs(nil, []string{"-a"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestJsonConfigFlags_ReadsShortFlag(t *testing.T) {
	old := os.Args
	t.Cleanup(func() { os.Args = old })

	os.Args = []string{"cli", "-c", "conf.json"}
	assert.Equal(t, "conf.json", JsonConfigFlags())
}

func TestJsonConfigFlags_AbsentReturnsEmpty(t *testing.T) {
	old := os.Args
	t.Cleanup(func() { os.Args = old })

	os.Args = []string{"cli"}
	assert.Equal(t, "", JsonConfigFlags())
}
