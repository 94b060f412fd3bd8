package console

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Guard wraps a command so a panic inside it surfaces as an error notice
// instead of tearing down the program. Every user-triggered command the
// shell dispatches passes through here.
func Guard(log *zap.Logger, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				if log != nil {
					log.Error("recovered panic in command", zap.Any("panic", r), zap.Stack("stack"))
				}
				msg = NoticeMsg(Notice{
					Title:    "Internal error",
					Message:  fmt.Sprintf("%v", r),
					Severity: SeverityError,
				})
			}
		}()
		return cmd()
	}
}
