package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckClassificationFlags(t *testing.T) {
	tests := []struct {
		name       string
		havePairs  bool
		positional bool
		wantErr    string
	}{
		{name: "pairs only", havePairs: true},
		{name: "positional only", positional: true},
		{name: "both", havePairs: true, positional: true, wantErr: "cannot be combined"},
		{name: "neither", wantErr: "is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkClassificationFlags(tc.havePairs, tc.positional)
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
