package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("origin #3: %w", ErrUnknownNode), "unknown_node"},
		{fmt.Errorf("x: %w", ErrNameNotFound), "name_not_found"},
		{fmt.Errorf("x: %w", ErrAmbiguousStateName), "ambiguous_state_name"},
		{fmt.Errorf("x: %w", ErrTransitionNotFound), "transition_not_found"},
		{fmt.Errorf("x: %w", ErrNoDefaultLeaf), "no_default_leaf"},
		{fmt.Errorf("x: %w", ErrTargetNotDescendant), "target_not_descendant"},
		{fmt.Errorf("x: %w", ErrChartNotFound), "chart_not_found"},
		{errors.New("disk on fire"), "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err), "%v", tt.err)
	}
}
