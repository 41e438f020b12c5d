package models

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/bingdict/dict"
)

func TestClassify(t *testing.T) {
	coded := NewDictError(ErrCodeRateLimited, "slow down", nil)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"already coded", coded, ErrCodeRateLimited},
		{"page layout", dict.ErrPageLayout, ErrCodePageLayout},
		{"decode", fmt.Errorf("dict: parse %q: %w", "x", dict.ErrDecode), ErrCodeDecode},
		{"deadline", context.DeadlineExceeded, ErrCodeUpstreamTimeout},
		{"other", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Same(t, coded, Classify(fmt.Errorf("wrapped: %w", coded)))
}

func TestDictError(t *testing.T) {
	err := NewDictError(ErrCodeUpstream, "dictionary request failed", errors.New("reset"))
	assert.Equal(t, "UPSTREAM_FAILED: dictionary request failed: reset", err.Error())
	assert.Equal(t, &ErrorDetail{Code: ErrCodeUpstream, Message: "dictionary request failed"}, err.ToDetail())

	bare := NewDictError(ErrCodeInvalidInput, "query must not be empty", nil)
	assert.Equal(t, "INVALID_INPUT: query must not be empty", bare.Error())
}
