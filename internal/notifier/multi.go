package notifier

import (
	"context"
	"errors"
	"fmt"
)

// Multi sends every batch to all of its notifiers. A failing channel does
// not stop the others; the failures are joined into the returned error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, notices []Notice) error {
	if len(notices) == 0 {
		return nil
	}

	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, notices); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", n, err))
		}
	}
	return errors.Join(errs...)
}
