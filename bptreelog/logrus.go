package bptreelog

import (
	"github.com/sirupsen/logrus"

	"github.com/riftlabs/bptree"
)

// Logrus wraps a *logrus.Logger to implement bptree.Logger.
type Logrus struct {
	logger *logrus.Logger
}

// NewLogrus adapts a *logrus.Logger into a bptree.Logger.
func NewLogrus(logger *logrus.Logger) bptree.Logger {
	return &Logrus{logger: logger}
}

func (l *Logrus) Error(msg string, args ...any) {
	l.logger.WithFields(argsToFields(args)).Error(msg)
}

func (l *Logrus) Warn(msg string, args ...any) {
	l.logger.WithFields(argsToFields(args)).Warn(msg)
}

func (l *Logrus) Info(msg string, args ...any) {
	l.logger.WithFields(argsToFields(args)).Info(msg)
}

func (l *Logrus) Debug(msg string, args ...any) {
	l.logger.WithFields(argsToFields(args)).Debug(msg)
}

func argsToFields(args []any) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
