package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincon/fincon/pkg/console"
)

func TestNotifierTransientExpiry(t *testing.T) {
	var n Notifier
	cmd := n.Push(console.Notice{
		Title:    "Saved",
		Severity: console.SeveritySuccess,
		Timeout:  5 * time.Second,
	})
	require.NotNil(t, cmd, "transient notices schedule a sweep")
	assert.False(t, n.Empty())

	// Not yet expired.
	_ = n.Sweep(time.Now())
	assert.False(t, n.Empty())

	cmd = n.Sweep(time.Now().Add(6 * time.Second))
	assert.True(t, n.Empty())
	assert.Nil(t, cmd, "nothing left to sweep")
}

func TestNotifierPersistentSurvivesSweep(t *testing.T) {
	var n Notifier
	cmd := n.Push(console.Notice{Title: "Token secret", Severity: console.SeveritySuccess})
	assert.Nil(t, cmd, "persistent notices need no sweep")

	_ = n.Sweep(time.Now().Add(time.Hour))
	assert.False(t, n.Empty())

	n.DismissOldest()
	assert.True(t, n.Empty())
	n.DismissOldest() // idempotent on empty
}

func TestNotifierSweepKeepsReschedulingWhilePending(t *testing.T) {
	var n Notifier
	_ = n.Push(console.Notice{Title: "one", Timeout: time.Second})
	_ = n.Push(console.Notice{Title: "two", Timeout: time.Minute})

	cmd := n.Sweep(time.Now().Add(2 * time.Second))
	require.NotNil(t, cmd, "a transient notice is still pending")
	assert.Len(t, n.notices, 1)
	assert.Equal(t, "two", n.notices[0].notice.Title)
}

func TestNotifierViewStacksNotices(t *testing.T) {
	var n Notifier
	assert.Empty(t, n.View())
	_ = n.Push(console.Notice{Title: "Error", Message: "request failed", Severity: console.SeverityError})
	_ = n.Push(console.Notice{Title: "Success", Message: "saved", Severity: console.SeveritySuccess})
	view := n.View()
	assert.Contains(t, view, "request failed")
	assert.Contains(t, view, "saved")
}
