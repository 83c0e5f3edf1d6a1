package output

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorSchemes(t *testing.T) {
	for name, scheme := range map[string]*ColorScheme{
		"default": DefaultColorScheme(),
		"none":    NoColorScheme(),
		"forced":  ForceColorScheme(),
	} {
		for i, c := range scheme.all() {
			assert.NotNil(t, c, "%s scheme color %d", name, i)
		}
	}

	plain := NoColorScheme()
	assert.Equal(t, "GET", plain.Method.Sprint("GET"))

	forced := ForceColorScheme()
	assert.NotEqual(t, "GET", forced.Method.Sprint("GET"))
}

func TestColorScheme_Status(t *testing.T) {
	scheme := DefaultColorScheme()
	assert.Same(t, scheme.StatusOK, scheme.Status(204))
	assert.Same(t, scheme.StatusWarn, scheme.Status(302))
	assert.Same(t, scheme.StatusError, scheme.Status(404))
	assert.Same(t, scheme.StatusError, scheme.Status(503))
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "✓", SuccessIcon(true))
	assert.Equal(t, "✗", ErrorIcon(true))
	assert.Equal(t, "ℹ", InfoIcon(true))
	assert.Contains(t, SuccessIcon(false), "✓")
}

func TestUseColor(t *testing.T) {
	assert.False(t, UseColor(os.Stdout, true))
	assert.False(t, IsTerminal(nil))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor(os.Stdout, false))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	os.Unsetenv("NO_COLOR")
	assert.False(t, UseColor(f, false), "regular files are not terminals")
}
