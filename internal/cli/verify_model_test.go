package cli

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyModel_CtrlCAbortsWithError(t *testing.T) {
	m := newVerifyModel("2025-02-03", 3, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	vm := updated.(verifyModel)

	require.NotNil(t, cmd)
	assert.True(t, vm.done)
	// Quitting must never look like a confirmed write.
	assert.ErrorIs(t, vm.err, errVerifyAborted)
}

func TestVerifyModel_DoneCarriesPollError(t *testing.T) {
	m := newVerifyModel("2025-02-03", 3, nil)
	pollErr := errors.New("no record yet")

	updated, _ := m.Update(verifyDoneMsg{err: pollErr})
	vm := updated.(verifyModel)

	assert.True(t, vm.done)
	assert.Equal(t, pollErr, vm.err)
}

func TestVerifyModel_CountdownUpdates(t *testing.T) {
	m := newVerifyModel("2025-02-03", 5, nil)

	updated, _ := m.Update(pollTickMsg(2))
	vm := updated.(verifyModel)

	assert.Equal(t, 2, vm.remaining)
	assert.Contains(t, vm.View(), "2/5")
}
