package mocks

import (
	"fmt"

	"github.com/user/journalpage/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that records messages.
type Logger struct {
	Messages []string
}

func (m *Logger) log(level, msg string, args ...interface{}) {
	m.Messages = append(m.Messages, level+": "+fmt.Sprintf(msg, args...))
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.log("debug", msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.log("info", msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.log("warn", msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.log("error", msg, args...) }

func (m *Logger) WithComponent(component string) ports.Logger { return m }

var _ ports.Logger = (*Logger)(nil)
