package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sidkik/pushsync/pkg/errors"
)

func TestHandleFatalError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		expOutput string
	}{
		{
			name:      "Friendly",
			err:       errors.WithContext(errors.NewFriendlyError("Please fix %s.", "it"), "load"),
			expOutput: "Please fix it.\n",
		},
		{
			name:      "Plain",
			err:       errors.WithContext(errors.New("boom"), "load"),
			expOutput: "load: boom\n",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			var exitCode int
			stderr = &out
			exit = func(code int) { exitCode = code }

			HandleFatalError(test.err)
			assert.Equal(t, test.expOutput, out.String())
			assert.Equal(t, 1, exitCode)
		})
	}
}

func TestHandlePanic(t *testing.T) {
	var out bytes.Buffer
	stderr = &out

	assert.PanicsWithValue(t, "boom", func() {
		defer HandlePanic()
		panic("boom")
	})
	assert.Equal(t, "pushsync crashed unexpectedly: boom\n", out.String())
}
