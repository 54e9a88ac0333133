package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/pushsync/pkg/errors"
)

func TestInitAndShow(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	path := filepath.Join(t.TempDir(), "pushsync.yaml")

	require.NoError(t, showConfig(path))
	assert.True(t, strings.HasPrefix(out.String(), "# "+path+" doesn't exist."))
	assert.Contains(t, out.String(), "interval_minutes: 5")

	out.Reset()
	require.NoError(t, initConfig(path, false))
	assert.Equal(t, "Wrote the default config to "+path+"\n", out.String())

	err := initConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, errors.GetPrintableMessage(err), "already exists")

	out.Reset()
	require.NoError(t, showConfig(path))
	assert.False(t, strings.HasPrefix(out.String(), "#"))
	assert.Contains(t, out.String(), "name: gdrive")
}
