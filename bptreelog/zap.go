package bptreelog

import (
	"go.uber.org/zap"

	"github.com/riftlabs/bptree"
)

// Zap wraps a *zap.Logger to implement bptree.Logger.
type Zap struct {
	logger *zap.Logger
}

// NewZap adapts a *zap.Logger into a bptree.Logger.
func NewZap(logger *zap.Logger) bptree.Logger {
	return &Zap{logger: logger}
}

func (z *Zap) Error(msg string, args ...any) {
	z.logger.Sugar().Errorw(msg, args...)
}

func (z *Zap) Warn(msg string, args ...any) {
	z.logger.Sugar().Warnw(msg, args...)
}

func (z *Zap) Info(msg string, args ...any) {
	z.logger.Sugar().Infow(msg, args...)
}

func (z *Zap) Debug(msg string, args ...any) {
	z.logger.Sugar().Debugw(msg, args...)
}
