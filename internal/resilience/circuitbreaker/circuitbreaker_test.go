package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          50 * time.Millisecond,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestExecute_Success(t *testing.T) {
	cb := New(testConfig())

	got, err := Execute(cb, func() (string, error) { return "ok", nil })

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "closed", cb.State())
}

func TestExecute_PassesErrorThrough(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	_, err := Execute(cb, func() (int, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
}

func TestExecute_TripsOpenAndRecovers(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, _ = Execute(cb, func() (int, error) { return 0, boom })
	}
	require.True(t, cb.IsOpen())

	called := false
	_, err := Execute(cb, func() (int, error) {
		called = true
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called, "fn must not run while open")

	time.Sleep(80 * time.Millisecond)

	got, err := Execute(cb, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, "closed", cb.State())
}

func TestExecute_IsSuccessfulExcludesErrors(t *testing.T) {
	benign := errors.New("benign")
	cfg := testConfig()
	cfg.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, benign) }
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_, err := Execute(cb, func() (int, error) { return 0, benign })
		assert.ErrorIs(t, err, benign)
	}
	assert.False(t, cb.IsOpen())
}

func TestPresetConfigs(t *testing.T) {
	assert.Equal(t, "scraper", ScraperConfig("scraper").Name)
	assert.InDelta(t, 0.8, ScraperConfig("scraper").FailureThreshold, 1e-9)
	assert.Equal(t, "bedrock", GenerationConfig("bedrock").Name)
	assert.Equal(t, uint32(5), GenerationConfig("x").MinRequests)
}
