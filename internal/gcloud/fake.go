package gcloud

import (
	"context"
	"strings"
	"sync"
)

// Fake is an in-memory Runner keyed by the joined argument list.
// Unknown invocations return Err, or an empty output when Err is nil.
type Fake struct {
	mu      sync.Mutex
	Outputs map[string]string
	Errors  map[string]error
	Err     error
	Calls   []string
}

// Run records the invocation and returns the configured result.
func (f *Fake) Run(ctx context.Context, args ...string) ([]byte, error) {
	key := strings.Join(args, " ")

	f.mu.Lock()
	f.Calls = append(f.Calls, key)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errors[key]; ok {
		return nil, err
	}
	if out, ok := f.Outputs[key]; ok {
		return []byte(out), nil
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, nil
}
