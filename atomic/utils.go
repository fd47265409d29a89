package atomic

type nocmp [0]func()

// pair is never mutated after publication.
type pair[T any] struct {
	ref  *T
	mark bool
}

func packPair[T any](ref *T, mark bool) *pair[T] {
	return &pair[T]{ref: ref, mark: mark}
}

func unpackPair[T any](p *pair[T]) (*T, bool) {
	if p == nil {
		return nil, false
	}
	return p.ref, p.mark
}

func packV[T any](v T) *T {
	return &v
}

func unpackV[T any](p *T) T {
	if p == nil {
		var empty T
		return empty
	}
	return *p
}
