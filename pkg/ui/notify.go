// Package ui hosts the terminal application shell: login, the main
// screen with its resource tabs, account switching, and notifications.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fincon/fincon/pkg/console"
)

// noticeTickMsg drives expiry of transient notifications.
type noticeTickMsg time.Time

// activeNotice is a displayed notification. A zero deadline means the
// notice stays until manually dismissed.
type activeNotice struct {
	notice   console.Notice
	deadline time.Time
}

// Notifier holds the stack of visible notifications.
type Notifier struct {
	notices []activeNotice
}

// Push adds a notification. Transient notices get a deadline; a returned
// command schedules the expiry sweep.
func (n *Notifier) Push(notice console.Notice) tea.Cmd {
	entry := activeNotice{notice: notice}
	if notice.Timeout > 0 {
		entry.deadline = time.Now().Add(notice.Timeout)
	}
	n.notices = append(n.notices, entry)
	if notice.Timeout > 0 {
		return noticeTick(notice.Timeout)
	}
	return nil
}

// DismissOldest removes the oldest notification, persistent or not.
func (n *Notifier) DismissOldest() {
	if len(n.notices) > 0 {
		n.notices = n.notices[1:]
	}
}

// Sweep drops expired notices; reschedules itself while transient notices
// remain.
func (n *Notifier) Sweep(now time.Time) tea.Cmd {
	kept := n.notices[:0]
	pending := false
	for _, entry := range n.notices {
		if !entry.deadline.IsZero() && !entry.deadline.After(now) {
			continue
		}
		if !entry.deadline.IsZero() {
			pending = true
		}
		kept = append(kept, entry)
	}
	n.notices = kept
	if pending {
		return noticeTick(time.Second)
	}
	return nil
}

// Empty reports whether anything is displayed.
func (n *Notifier) Empty() bool { return len(n.notices) == 0 }

// View renders the notification stack.
func (n *Notifier) View() string {
	if len(n.notices) == 0 {
		return ""
	}
	var b strings.Builder
	for i, entry := range n.notices {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(console.RenderNotice(entry.notice))
	}
	return b.String()
}

func noticeTick(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(t time.Time) tea.Msg {
		return noticeTickMsg(t)
	})
}
