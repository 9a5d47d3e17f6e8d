package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "valid", uri: "skillroute://documents/M-PM-006", want: "M-PM-006"},
		{name: "synthetic id", uri: "skillroute://documents/0a1b2c3d4e5f", want: "0a1b2c3d4e5f"},
		{name: "wrong scheme", uri: "other://documents/x", want: ""},
		{name: "nested path", uri: "skillroute://documents/a/b", want: ""},
		{name: "no id", uri: "skillroute://documents/", want: ""},
		{name: "listing", uri: "skillroute://documents", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	server, err := newTestServer(&mockRouter{}, readyCorpus())
	require.NoError(t, err)

	result, err := server.handleStatusResource(context.Background(), makeReadResourceRequest(statusURI))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"state": "ready"`)
	assert.Contains(t, result.Contents[0].Text, `"generation": 3`)
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists documents", func(t *testing.T) {
		server, err := newTestServer(&mockRouter{}, readyCorpus())
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"id": "M-PM-006"`)
		assert.Contains(t, result.Contents[0].Text, "skillroute://documents/M-PM-006")
	})

	t.Run("not ready returns empty list", func(t *testing.T) {
		server, err := newTestServer(&mockRouter{}, &mockCorpus{})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		corpus := readyCorpus()
		corpus.docsErr = errors.New("boom")
		server, err := newTestServer(&mockRouter{}, corpus)
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()
	server, err := newTestServer(&mockRouter{}, readyCorpus())
	require.NoError(t, err)

	t.Run("returns markdown body", func(t *testing.T) {
		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest("skillroute://documents/M-PM-006"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
		assert.Equal(t, "# Risk Register\n\nTrack every risk.\n", result.Contents[0].Text)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("skillroute://documents/nope"))
		require.Error(t, err)
	})

	t.Run("invalid uri is not found", func(t *testing.T) {
		_, err := server.handleDocumentResource(ctx, makeReadResourceRequest("skillroute://other/x"))
		require.Error(t, err)
	})

	t.Run("not ready is not found", func(t *testing.T) {
		unready, err := newTestServer(&mockRouter{}, &mockCorpus{})
		require.NoError(t, err)

		_, err = unready.handleDocumentResource(ctx, makeReadResourceRequest("skillroute://documents/M-PM-006"))
		require.Error(t, err)
	})
}
