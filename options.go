package bptree

import "bytes"

// Comparator defines the total order over keys. bytes.Compare, the default,
// gives byte-lexicographic order.
type Comparator func(a, b []byte) int

// Options configures a Tree. Open builds one from defaultOptions and the
// With* functions below passed to it; the zero value is never used
// directly.
type Options struct {
	MaxLeafSize      int
	MaxInternalSize  int
	Comparator       Comparator
	Logger           Logger
	StrictCorruption bool
	IDAllocator      IDAllocator
}

func defaultOptions() Options {
	return Options{
		MaxLeafSize:      32,
		MaxInternalSize:  32,
		Comparator:       bytes.Compare,
		Logger:           DiscardLogger{},
		StrictCorruption: false,
		IDAllocator:      CounterIDAllocator{},
	}
}

// Option mutates an Options value being built up by Open.
type Option func(*Options)

func WithMaxLeafSize(n int) Option {
	return func(o *Options) { o.MaxLeafSize = n }
}

func WithMaxInternalSize(n int) Option {
	return func(o *Options) { o.MaxInternalSize = n }
}

func WithComparator(cmp Comparator) Option {
	return func(o *Options) { o.Comparator = cmp }
}

func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func WithStrictCorruption(strict bool) Option {
	return func(o *Options) { o.StrictCorruption = strict }
}

func WithIDAllocator(a IDAllocator) Option {
	return func(o *Options) { o.IDAllocator = a }
}
