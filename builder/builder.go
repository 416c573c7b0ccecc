package builder

import "context"

type Builder[T any] interface {
	Build(ctx context.Context) (T, error)
}

// Func is an adapter to allow the use of ordinary functions as a Builder.
type Func[T any] func(ctx context.Context) (T, error)

func (f Func[T]) Build(ctx context.Context) (T, error) {
	return f(ctx)
}
