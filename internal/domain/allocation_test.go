package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldWaitlist(t *testing.T) {
	cases := []struct {
		name                       string
		current, waiting, capacity int
		want                       bool
	}{
		{"empty session", 0, 0, 2, false},
		{"one seat left", 1, 0, 2, false},
		{"at capacity", 2, 0, 2, true},
		{"over capacity", 3, 0, 2, true},
		{"seat free but queue formed", 1, 1, 2, true},
		{"zero capacity", 0, 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldWaitlist(tc.current, tc.waiting, tc.capacity))
		})
	}
}
