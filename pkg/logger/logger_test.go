package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("not-a-level", "").GetLevel())
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guardian.log")

	log := New("info", path)
	log.WithField("session_id", "abc").Info("SOS session started")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.Contains(t, string(data), "SOS session started")
}
