package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	m "covrun.dev/pkg/covrun/internal/model"
)

func TestCoverTestCmdArgs(t *testing.T) {
	args := coverTestCmdArgs(CoverTestArgs{
		Target:  m.Path("./..."),
		Profile: m.Path("coverage.out"),
	})
	assert.Equal(t, []string{"test", "-coverprofile=coverage.out", "./..."}, args)
}

func TestCoverTestCmdArgs_CoverPkg(t *testing.T) {
	args := coverTestCmdArgs(CoverTestArgs{
		Target:   m.Path("./internal/..."),
		CoverPkg: []string{"./pkg/...", "./internal/..."},
		Profile:  m.Path("partial-0.out"),
	})
	assert.Equal(t, []string{
		"test",
		"-coverprofile=partial-0.out",
		"-coverpkg=./pkg/...,./internal/...",
		"./internal/...",
	}, args)
}

func TestNewLocalTestRunnerAdapterWithTimeout(t *testing.T) {
	adapter := NewLocalTestRunnerAdapterWithTimeout(time.Minute)
	assert.Equal(t, time.Minute, adapter.timeout)

	fallback := NewLocalTestRunnerAdapterWithTimeout(0)
	assert.Equal(t, DefaultTestTimeout, fallback.timeout)
}
