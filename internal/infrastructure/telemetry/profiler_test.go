package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddressAndName(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "bergizi"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestPyroscopeLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := pyroscopeLogger{logger: zap.New(core)}

	l.Infof("uploaded %d profiles", 3)
	l.Debugf("tick")
	l.Errorf("upload failed: %s", "timeout")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "uploaded 3 profiles", logs.All()[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[2].Level)
}
