package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapReviewState(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"approved", ReviewApproved},
		{"APPROVED", ReviewApproved},
		{"changes_requested", ReviewChangesRequested},
		{"CHANGES_REQUESTED", ReviewChangesRequested},
		{"Changes_Requested", ReviewChangesRequested},
		{"commented", ReviewCommented},
		{"dismissed", ReviewDismissed},
		{" approved ", ReviewApproved},
		{"pending", ReviewCommented},
		{"", ReviewCommented},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MapReviewState(tt.input))
		})
	}
}
