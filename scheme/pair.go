// Copyright © 2024 The ELPS authors

package scheme

// Cons returns a new pair.
func Cons(car, cdr Datum) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

// List returns a proper list of items.  List returns Null when items is
// empty.
func List(items ...Datum) Datum {
	return ListTail(Null{}, items...)
}

// ListTail returns items consed onto tail.
func ListTail(tail Datum, items ...Datum) Datum {
	d := tail
	for i := len(items) - 1; i >= 0; i-- {
		d = &Pair{Car: items[i], Cdr: d}
	}
	return d
}

// IsNull reports whether d is the empty list.
func IsNull(d Datum) bool {
	_, ok := d.(Null)
	return ok
}

// IsProperPair reports whether d is a pair whose spine ends in Null.
func IsProperPair(d Datum) bool {
	p, ok := d.(*Pair)
	return ok && IsProperList(p)
}

// IsProperList reports whether d is Null or a pair whose spine ends in Null.
// Circular spines are not proper lists.
func IsProperList(d Datum) bool {
	_, ok := length(d)
	return ok
}

// Length returns the number of elements in a proper list.  The second result
// is false for improper or circular lists.
func Length(d Datum) (int, bool) {
	return length(d)
}

func length(d Datum) (int, bool) {
	n := 0
	fast, slow := d, d
	for {
		for i := 0; i < 2; i++ {
			p, ok := fast.(*Pair)
			if !ok {
				if IsNull(fast) {
					return n, true
				}
				return 0, false
			}
			fast = p.Cdr
			n++
		}
		slow = slow.(*Pair).Cdr
		if p, ok := fast.(*Pair); ok && p == slow {
			return 0, false
		}
	}
}

// Slice returns the elements of a proper list.  The second result is false
// when d is not a proper list.
func Slice(d Datum) ([]Datum, bool) {
	n, ok := length(d)
	if !ok {
		return nil, false
	}
	items := make([]Datum, 0, n)
	for p, isPair := d.(*Pair); isPair; p, isPair = p.Cdr.(*Pair) {
		items = append(items, p.Car)
	}
	return items, true
}

// SplitImproper returns the elements of a possibly improper list and its
// final cdr, which is Null for a proper list.  A circular spine is cut where
// it first repeats and the repeated pair is returned as the tail.
func SplitImproper(d Datum) ([]Datum, Datum) {
	var items []Datum
	seen := make(map[*Pair]bool)
	for {
		p, ok := d.(*Pair)
		if !ok || seen[p] {
			return items, d
		}
		seen[p] = true
		items = append(items, p.Car)
		d = p.Cdr
	}
}

// SetCar replaces the car of p.
func (p *Pair) SetCar(d Datum) { p.Car = d }

// SetCdr replaces the cdr of p.
func (p *Pair) SetCdr(d Datum) { p.Cdr = d }

// Tail returns the cdr of p.
func (p *Pair) Tail() Datum { return p.Cdr }

// CopyList returns a fresh copy of the spine of a list.  The final cdr of an
// improper list is shared.
func CopyList(d Datum) Datum {
	items, tail := SplitImproper(d)
	return ListTail(tail, items...)
}
