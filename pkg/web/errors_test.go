package web

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebErrorFormatting(t *testing.T) {
	err := &WebError{Op: "Inject", Entity: "node", ID: 7, Cause: ErrNodeNotFound}
	assert.Equal(t, "Inject node 7: node not found", err.Error())

	err = &WebError{Op: "Connect", Entity: "pair", Cause: ErrSelfEdge}
	assert.Equal(t, "Connect pair: edge endpoints are the same node", err.Error())
}

func TestWebErrorChain(t *testing.T) {
	err := nodeNotFoundError("NodeCharge", 3)

	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.NotErrorIs(t, err, ErrSelfEdge)
	assert.True(t, IsNotFound(err))

	// Chains through further wrapping.
	wrapped := fmt.Errorf("while dumping: %w", err)
	assert.True(t, IsNotFound(wrapped))

	var webErr *WebError
	assert.True(t, errors.As(err, &webErr))
	assert.Equal(t, "NodeCharge", webErr.Op)
	assert.Equal(t, 3, webErr.ID)
}
