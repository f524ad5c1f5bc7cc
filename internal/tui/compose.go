package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/hay-kot/toasty/internal/core/styles"
	"github.com/hay-kot/toasty/internal/core/toast"
)

const noExpiryInput = "none"

// composeValues backs the compose form fields.
type composeValues struct {
	Message  string
	Position string
	Status   string
	Duration string // empty for the default, "none" for no expiry
}

func newComposeValues(d toast.Defaults) *composeValues {
	v := &composeValues{
		Position: string(d.Position),
		Status:   string(d.Status),
	}
	if v.Position == "" {
		v.Position = string(toast.DefaultPosition)
	}
	if v.Status == "" {
		v.Status = string(toast.StatusDefault)
	}
	return v
}

func newComposeForm(v *composeValues, width int) *huh.Form {
	positions := make([]huh.Option[string], 0, 6)
	for _, p := range toast.Positions() {
		positions = append(positions, huh.NewOption(string(p), string(p)))
	}

	statuses := huh.NewOptions(
		string(toast.StatusDefault),
		string(toast.StatusSuccess),
		string(toast.StatusWarning),
		string(toast.StatusError),
	)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Message").
				Validate(notBlank).
				Value(&v.Message),
			huh.NewSelect[string]().
				Title("Position").
				Options(positions...).
				Value(&v.Position),
			huh.NewSelect[string]().
				Title("Status").
				Options(statuses...).
				Value(&v.Status),
			huh.NewInput().
				Title("Duration").
				Description(`e.g. 3s or 1500ms, "none" stays until dismissed`).
				Placeholder("default").
				Validate(validateDuration).
				Value(&v.Duration),
		),
	).
		WithTheme(styles.FormTheme()).
		WithKeyMap(formKeyMap()).
		WithWidth(width).
		WithShowHelp(true)
}

// options converts the form values into show options.
func (v composeValues) options() ([]toast.Option, error) {
	opts := []toast.Option{
		toast.WithPosition(toast.Position(v.Position)),
		toast.WithStatus(toast.Status(v.Status)),
	}

	d := strings.TrimSpace(v.Duration)
	switch {
	case d == "":
	case strings.EqualFold(d, noExpiryInput):
		opts = append(opts, toast.WithoutExpiry())
	default:
		dur, err := time.ParseDuration(d)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		opts = append(opts, toast.WithDuration(dur))
	}

	return opts, nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("message is required")
	}
	return nil
}

func validateDuration(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, noExpiryInput) {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return errors.New("not a duration")
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}
