package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapping(t *testing.T) {
	base := errors.New("boom")

	cfg := &ConfigurationError{Field: "keywords", Err: base}
	assert.ErrorIs(t, cfg, base)
	assert.Contains(t, cfg.Error(), "keywords")

	timeout := &InteractionTimeoutError{Operation: "click", Timeout: (3 * time.Second).String(), Err: base}
	assert.ErrorIs(t, timeout, base)
	assert.Contains(t, timeout.Error(), "click")

	ctx := &ContextUnavailableError{Context: "frame[2]", Err: base}
	assert.ErrorIs(t, ctx, base)
	assert.Contains(t, ctx.Error(), "frame[2]")

	nav := &NavigationError{URL: "https://example.com", Err: base}
	assert.ErrorIs(t, nav, base)
	assert.Contains(t, nav.Error(), "https://example.com")

	invalid := &InvalidURLError{URL: "exa mple.com", Err: base}
	assert.ErrorIs(t, invalid, base)
	assert.Contains(t, invalid.Error(), "exa mple.com")
}

func TestErrorsAsDistinguishesTypes(t *testing.T) {
	var err error = &InteractionTimeoutError{Operation: "click", Err: errors.New("x")}

	var timeout *InteractionTimeoutError
	assert.True(t, errors.As(err, &timeout))

	var cfg *ConfigurationError
	assert.False(t, errors.As(err, &cfg))
}
