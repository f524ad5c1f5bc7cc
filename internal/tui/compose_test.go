package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/toasty/internal/core/toast"
)

func TestComposeValues_Options(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		want     time.Duration
		wantErr  bool
	}{
		{name: "default", duration: "", want: toast.DefaultDuration},
		{name: "explicit", duration: "1500ms", want: 1500 * time.Millisecond},
		{name: "no expiry", duration: "None", want: toast.NoExpiry},
		{name: "garbage", duration: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := composeValues{Message: "hi", Position: "top-left", Status: "warning", Duration: tt.duration}

			opts, err := v.options()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			rec, err := toast.New(v.Message, opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Duration)
			assert.Equal(t, toast.TopLeft, rec.Position)
			assert.Equal(t, toast.StatusWarning, rec.Status)
		})
	}
}

func TestNewComposeValues_UsesDefaults(t *testing.T) {
	v := newComposeValues(toast.Defaults{Position: toast.TopRight})
	assert.Equal(t, "top-right", v.Position)
	assert.Equal(t, "default", v.Status)
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, validateDuration(""))
	assert.NoError(t, validateDuration("none"))
	assert.NoError(t, validateDuration("2s"))
	assert.Error(t, validateDuration("0s"))
	assert.Error(t, validateDuration("-1s"))
	assert.Error(t, validateDuration("later"))
	assert.Error(t, notBlank("   "))
}
