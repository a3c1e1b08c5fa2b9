package parser

// Map transforms the value of a successful parse.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(input string) (B, string, error) {
		a, rest, err := p(input)
		if err != nil {
			var zero B
			return zero, input, err
		}
		return f(a), rest, nil
	}
}

// Pair runs a then b on the remaining input.
func Pair[A, B any](a Parser[A], b Parser[B]) Parser[Tuple[A, B]] {
	return func(input string) (Tuple[A, B], string, error) {
		va, rest, err := a(input)
		if err != nil {
			return Tuple[A, B]{}, input, err
		}
		vb, rest, err := b(rest)
		if err != nil {
			return Tuple[A, B]{}, input, err
		}
		return Tuple[A, B]{First: va, Second: vb}, rest, nil
	}
}

// Preceded runs a then b and keeps the value of b.
func Preceded[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Pair(a, b), func(t Tuple[A, B]) B { return t.Second })
}

// Terminated runs a then b and keeps the value of a.
func Terminated[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Pair(a, b), func(t Tuple[A, B]) A { return t.First })
}

// SeparatedPair runs a, sep and b in order and keeps the values of a and b.
func SeparatedPair[A, S, B any](a Parser[A], sep Parser[S], b Parser[B]) Parser[Tuple[A, B]] {
	return Pair(Terminated(a, sep), b)
}

// Seq runs each parser in order, threading the remaining input forward,
// and collects their values. The first failure aborts the sequence.
func Seq[T any](ps ...Parser[T]) Parser[[]T] {
	return func(input string) ([]T, string, error) {
		out := make([]T, 0, len(ps))
		rest := input
		for _, p := range ps {
			v, r, err := p(rest)
			if err != nil {
				return nil, input, err
			}
			out = append(out, v)
			rest = r
		}
		return out, rest, nil
	}
}

// Alt tries each parser from the same position and returns the first
// success. If all fail, the error of the last alternative is returned.
// Alt panics if called without alternatives.
func Alt[T any](ps ...Parser[T]) Parser[T] {
	if len(ps) == 0 {
		panic("parser: Alt requires at least one alternative")
	}
	return func(input string) (T, string, error) {
		var zero T
		var err error
		for _, p := range ps {
			var v T
			var rest string
			v, rest, err = p(input)
			if err == nil {
				return v, rest, nil
			}
		}
		return zero, input, err
	}
}

// Opt makes p optional: on failure it succeeds with the zero value and
// consumes nothing.
func Opt[T any](p Parser[T]) Parser[T] {
	return func(input string) (T, string, error) {
		v, rest, err := p(input)
		if err != nil {
			var zero T
			return zero, input, nil
		}
		return v, rest, nil
	}
}

// SeparatedList0 parses zero or more elem separated by sep.
//
// Elements may be empty, so consecutive separators yield empty elements.
// A list that consumes no input is empty. A trailing separator that is not
// followed by an element is left unconsumed. SeparatedList0 never fails and
// always returns a non-nil slice.
func SeparatedList0[T, S any](elem Parser[T], sep Parser[S]) Parser[[]T] {
	return func(input string) ([]T, string, error) {
		out := []T{}
		v, rest, err := elem(input)
		if err != nil {
			return out, input, nil
		}
		out = append(out, v)
		for {
			_, afterSep, err := sep(rest)
			if err != nil {
				break
			}
			v, afterElem, err := elem(afterSep)
			if err != nil {
				break
			}
			out = append(out, v)
			rest = afterElem
		}
		if len(rest) == len(input) {
			return []T{}, input, nil
		}
		return out, rest, nil
	}
}
