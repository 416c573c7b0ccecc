package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunc(t *testing.T) {
	var f Factory[int, string] = Func[int, string](func(ctx context.Context, param string) (int, error) {
		if param == "" {
			return 0, errors.New("empty")
		}
		return len(param), nil
	})
	n, err := f.Create(context.Background(), "leo")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = f.Create(context.Background(), "")
	assert.Error(t, err)
}
