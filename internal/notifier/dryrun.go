package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be sent without contacting any channel
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out, or stdout
// when out is nil.
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the messages that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, notices []Notice) error {
	for i, notice := range notices {
		msg := formatNotice(notice)
		fmt.Fprintf(n.out, "--- Notice %d/%d ---\n", i+1, len(notices))
		fmt.Fprintln(n.out, msg)
		fmt.Fprintln(n.out)
	}
	return nil
}
