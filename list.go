package bptree

import "context"

// ListArgs bounds a List call. GT and GTE are mutually exclusive, as are LT
// and LTE; setting both of a pair is an invalid range (see Options.Logger
// and ErrInvalidRange).
type ListArgs struct {
	GT  []byte
	GTE []byte
	LT  []byte
	LTE []byte

	Limit   int
	Offset  int
	Reverse bool
}

// Entry is one (key, value) pair returned by List.
type Entry struct {
	Key   []byte
	Value []byte
}

func (a ListArgs) lowerBound() (key []byte, inclusive bool, set bool) {
	if a.GTE != nil {
		return a.GTE, true, true
	}
	if a.GT != nil {
		return a.GT, false, true
	}
	return nil, false, false
}

func (a ListArgs) upperBound() (key []byte, inclusive bool, set bool) {
	if a.LTE != nil {
		return a.LTE, true, true
	}
	if a.LT != nil {
		return a.LT, false, true
	}
	return nil, false, false
}

func (a ListArgs) valid() bool {
	if a.GT != nil && a.GTE != nil {
		return false
	}
	if a.LT != nil && a.LTE != nil {
		return false
	}
	return true
}

// List returns entries within the given bounds. Offset and Reverse are
// applied after the full qualifying range has been collected, in that
// order (drop the first Offset entries, then reverse), and Limit is
// applied last -- a deliberate, tested policy rather than an accident of
// implementation order, since combined with Limit across leaf boundaries
// the two orderings produce materially different results.
func (t *Tree) List(ctx context.Context, args ListArgs) ([]Entry, error) {
	if !args.valid() {
		t.opts.Logger.Warn("bptree: invalid range bounds", "args", args)
		return nil, nil
	}

	lowerKey, lowerIncl, hasLower := args.lowerBound()
	upperKey, upperIncl, hasUpper := args.upperBound()
	cmp := t.opts.Comparator

	if hasLower && hasUpper {
		c := cmp(lowerKey, upperKey)
		if c > 0 || (c == 0 && !(lowerIncl && upperIncl)) {
			t.opts.Logger.Warn("bptree: empty range bounds", "args", args)
			return nil, nil
		}
	}

	var leaf *leafNode
	var err error
	if hasLower {
		_, _, leaf, err = t.descend(ctx, lowerKey, nil)
	} else {
		_, leaf, err = t.descendLeftmost(ctx, t.rootID, 0)
	}
	if err != nil {
		return nil, err
	}

	// A forward scan with a plain Limit and no Offset can stop the moment
	// it has enough entries -- Offset/Reverse still need the full
	// qualifying range collected before they make sense (Reverse most
	// obviously: the last entries, not the first, end up in the result).
	shortCircuit := args.Limit > 0 && !args.Reverse && args.Offset == 0

	var out []Entry
	for {
		for i, k := range leaf.Keys {
			if hasLower {
				c := cmp(k, lowerKey)
				if c < 0 || (c == 0 && !lowerIncl) {
					continue
				}
			}
			if hasUpper {
				c := cmp(k, upperKey)
				if c > 0 || (c == 0 && !upperIncl) {
					goto done
				}
			}
			out = append(out, Entry{Key: k, Value: leaf.Values[i]})
			if shortCircuit && len(out) == args.Limit {
				goto done
			}
		}
		if leaf.Next == nil {
			break
		}
		next, _, err := t.getNode(ctx, leaf.Next, nil)
		if err != nil {
			return nil, err
		}
		leaf = next
	}
done:

	if args.Offset > 0 {
		if args.Offset >= len(out) {
			out = nil
		} else {
			out = out[args.Offset:]
		}
	}
	if args.Reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if args.Limit > 0 && len(out) > args.Limit {
		out = out[:args.Limit]
	}
	return out, nil
}
