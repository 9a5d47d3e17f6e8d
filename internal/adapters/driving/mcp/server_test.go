package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing router returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Corpus: &mockCorpus{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRouter)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := newTestServer(&mockRouter{}, &mockCorpus{})
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRouter)
	assert.ErrorIs(t, (&Ports{Router: &mockRouter{}}).Validate(), ErrMissingCorpus)
	assert.NoError(t, (&Ports{Router: &mockRouter{}, Corpus: &mockCorpus{}}).Validate())
}
