package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsChain(t *testing.T) {
	err := Wrapf(ErrKeyNotFound, "locate %q", "post")

	assert.Equal(t, `locate "post": key not found`, err.Error())
	assert.True(t, IsLocate(err))
	assert.False(t, IsNoMedia(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	assert.True(t, IsNoMedia(fmt.Errorf("outer: %w", Wrap(ErrNoMedia, "entry 3"))))
	assert.True(t, IsLocate(Wrap(ErrAmbiguousKey, "post")))
	assert.True(t, IsInvalidExtension(Wrap(ErrInvalidExtension, "p1")))
	assert.True(t, IsInvalidRecordShape(fmt.Errorf("like: %w", ErrInvalidRecordShape)))
	assert.False(t, IsInvalidRecordShape(ErrMediaIDParse))
}
