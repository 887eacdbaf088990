package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"Heading": "Retrieval-augmented generation",
	"AbstractText": "RAG is a technique for grounding model output in retrieved documents.",
	"AbstractURL": "https://en.wikipedia.org/wiki/RAG",
	"RelatedTopics": [
		{"Text": "LangChain - A framework for LLM applications.", "FirstURL": "https://example.com/langchain"},
		{"Name": "Related", "Topics": [
			{"Text": "Vector database - Storage for embeddings.", "FirstURL": "https://example.com/vectordb"}
		]},
		{"Text": "", "FirstURL": "https://example.com/skipped"},
		{"Text": "Reranking - Second-stage scoring.", "FirstURL": "https://example.com/rerank"}
	]
}`

func newTestServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.URL.Query().Get("q"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestSearchMapsAbstractAndTopics(t *testing.T) {
	srv := newTestServer(t, sampleResponse, http.StatusOK)
	defer srv.Close()

	client := NewDuckDuckGo(srv.URL)
	results, err := client.Search(context.Background(), "what is rag", 5)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "Retrieval-augmented generation", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/RAG", results[0].URL)

	// Topic titles are the leading segment of "Title - description"
	assert.Equal(t, "LangChain", results[1].Title)
	assert.Equal(t, "https://example.com/langchain", results[1].URL)

	// Nested topic groups are flattened in provider order
	assert.Equal(t, "Vector database", results[2].Title)
	assert.Equal(t, "Reranking", results[3].Title)
}

func TestSearchHonorsMaxResults(t *testing.T) {
	srv := newTestServer(t, sampleResponse, http.StatusOK)
	defer srv.Close()

	client := NewDuckDuckGo(srv.URL)
	results, err := client.Search(context.Background(), "what is rag", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchPropagatesUpstreamError(t *testing.T) {
	srv := newTestServer(t, "rate limited", http.StatusTooManyRequests)
	defer srv.Close()

	client := NewDuckDuckGo(srv.URL)
	_, err := client.Search(context.Background(), "what is rag", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
