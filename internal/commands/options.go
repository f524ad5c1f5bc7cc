package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/toasty/internal/core/toast"
)

const noExpiry = "none"

// toastOptions turns command line style values into show options. Empty
// values fall back to the engine defaults. The duration is a Go duration or
// "none" for a toast that never expires.
func toastOptions(position, status, duration string) ([]toast.Option, error) {
	var opts []toast.Option

	if position != "" {
		p, err := toast.ParsePosition(position)
		if err != nil {
			return nil, err
		}
		opts = append(opts, toast.WithPosition(p))
	}

	if status != "" {
		st, err := toast.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		opts = append(opts, toast.WithStatus(st))
	}

	switch d := strings.TrimSpace(duration); d {
	case "":
	case noExpiry:
		opts = append(opts, toast.WithoutExpiry())
	default:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		opts = append(opts, toast.WithDuration(parsed))
	}

	return opts, nil
}
