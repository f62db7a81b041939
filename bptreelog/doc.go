// Package bptreelog provides bptree.Logger adapters for the two structured
// logging libraries most commonly already in use in a host application:
// logrus and zap. The core bptree module only depends on these via the
// minimal Logger interface, so pulling in this sub-module is opt-in.
package bptreelog
