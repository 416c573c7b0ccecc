package factory

import "context"

type Factory[T any, P any] interface {
	Create(ctx context.Context, param P) (T, error)
}

// Func is an adapter to allow the use of ordinary functions as a Factory.
type Func[T any, P any] func(ctx context.Context, param P) (T, error)

func (f Func[T, P]) Create(ctx context.Context, param P) (T, error) {
	return f(ctx, param)
}
