package bridge

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Typed adapts fn into a Handler that decodes the argument object into In.
// Type mismatches are reported as ErrInvalidArgs.
func Typed[In any, Out any](fn func(ctx context.Context, in In) (Out, error)) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		var in In
		if len(args) > 0 {
			if err := json.Unmarshal(args, &in); err != nil {
				return nil, errors.Wrap(ErrInvalidArgs, err.Error())
			}
		}
		return fn(ctx, in)
	}
}
