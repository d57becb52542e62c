package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"covrun.dev/pkg/covrun/internal/domain"
	m "covrun.dev/pkg/covrun/internal/model"
)

func TestDiffCmd_ComparesDatasets(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newDiffCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Diff", mock.Anything, mock.MatchedBy(func(args domain.DiffArgs) bool {
		return args.Before == m.Path("old.out") && args.After == m.Path("new.out")
	})).Return(nil)

	cmd.SetArgs([]string{"diff", "old.out", "new.out"})
	require.NoError(t, cmd.Execute())
}

func TestDiffCmd_BlockDeltaOutput(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newDiffCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	mockWorkflow.On("Diff", mock.Anything, mock.MatchedBy(func(args domain.DiffArgs) bool {
		return args.Output == m.Path("delta.out")
	})).Return(nil)

	cmd.SetArgs([]string{"diff", "old.out", "new.out", "--output", "delta.out"})
	require.NoError(t, cmd.Execute())
}

func TestDiffCmd_RequiresExactlyTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.AddCommand(newDiffCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"diff", "old.out"})
	require.Error(t, cmd.Execute())
}
