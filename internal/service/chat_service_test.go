package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rag-qa-be/internal/dto"
	"rag-qa-be/pkg/llm"
	"rag-qa-be/pkg/rag"
	"rag-qa-be/pkg/websearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRetriever struct {
	docs  []rag.Document
	err   error
	calls int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string) ([]rag.Document, error) {
	f.calls++
	return f.docs, f.err
}

type fakeSearch struct {
	results []websearch.Result
	err     error
	calls   int
}

func (f *fakeSearch) Search(_ context.Context, _ string, max int) ([]websearch.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > max {
		return f.results[:max], nil
	}
	return f.results, nil
}

type fakeLLM struct {
	answer    string
	fragments []string
	err       error
	streamErr error
	prompts   []string
	calls     int
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeLLM) GenerateStream(_ context.Context, prompt string, onFragment llm.StreamHandler, _ ...llm.Option) error {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	for _, frag := range f.fragments {
		if err := onFragment(frag); err != nil {
			return err
		}
	}
	return f.streamErr
}

func newTestChatService(retriever *fakeRetriever, search *fakeSearch, generator *fakeLLM) IChatService {
	return NewChatService(retriever, search, generator, 5, nopLogger{})
}

func collectEvents(t *testing.T, svc IChatService, req *dto.ChatRequest) []dto.StreamEvent {
	t.Helper()
	var events []dto.StreamEvent
	err := svc.AnswerStream(context.Background(), req, func(ev dto.StreamEvent) error {
		events = append(events, ev)
		return nil
	})
	require.NoError(t, err)
	return events
}

func TestAnswerKnowledgeBaseMode(t *testing.T) {
	retriever := &fakeRetriever{docs: []rag.Document{
		{Text: "Body A", Title: "Doc A", Repo: "Product Docs"},
		{Text: "Body B", Title: "Doc B", Repo: "Product Docs"},
	}}
	search := &fakeSearch{}
	generator := &fakeLLM{answer: "the answer"}
	svc := newTestChatService(retriever, search, generator)

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "what is RAG?"})
	require.NoError(t, err)
	assert.Equal(t, "the answer", res.Answer)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, dto.SourceTypeKnowledgeBase, res.Sources[0].Type)
	assert.Equal(t, "Doc A", res.Sources[0].Title)
	assert.Equal(t, "Product Docs", res.Sources[0].Repo)
	assert.Empty(t, res.Sources[0].URL)

	// Web search never consulted in knowledge-base mode
	assert.Zero(t, search.calls)

	// Document bodies are concatenated blank-line separated in order
	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Body A\n\nBody B")
}

func TestKnowledgeBaseSourcesDedupedByTitle(t *testing.T) {
	retriever := &fakeRetriever{docs: []rag.Document{
		{Text: "v1", Title: "Update Log", Repo: "Repo One"},
		{Text: "v2", Title: "Update Log", Repo: "Repo Two"},
		{Text: "v3", Title: "Other", Repo: "Repo One"},
	}}
	svc := newTestChatService(retriever, &fakeSearch{}, &fakeLLM{answer: "ok"})

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "updates?"})
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	// First occurrence wins, duplicates dropped rather than merged
	assert.Equal(t, "Update Log", res.Sources[0].Title)
	assert.Equal(t, "Repo One", res.Sources[0].Repo)
	assert.Equal(t, "Other", res.Sources[1].Title)
}

func TestWebSearchSourcesNotDeduped(t *testing.T) {
	search := &fakeSearch{results: []websearch.Result{
		{Title: "Same Title", Snippet: "s1", URL: "https://a.example"},
		{Title: "Same Title", Snippet: "s2", URL: "https://b.example"},
	}}
	retriever := &fakeRetriever{}
	svc := newTestChatService(retriever, search, &fakeLLM{answer: "ok"})

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "q", UseWebSearch: true})
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, dto.SourceTypeWebSearch, res.Sources[0].Type)
	assert.Equal(t, "https://a.example", res.Sources[0].URL)
	assert.Equal(t, "https://b.example", res.Sources[1].URL)

	// Knowledge base never consulted in web-search mode
	assert.Zero(t, retriever.calls)
}

func TestHybridModeOrderingAndTruncation(t *testing.T) {
	retriever := &fakeRetriever{docs: []rag.Document{
		{Text: "k1", Title: "KB 1", Repo: "r"},
		{Text: "k2", Title: "KB 2", Repo: "r"},
		{Text: "k3", Title: "KB 3", Repo: "r"},
	}}
	search := &fakeSearch{results: []websearch.Result{
		{Title: "Web 1", URL: "u1"},
		{Title: "Web 2", URL: "u2"},
		{Title: "Web 3", URL: "u3"},
		{Title: "Web 4", URL: "u4"},
	}}
	svc := newTestChatService(retriever, search, &fakeLLM{answer: "ok"})

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "q", UseHybrid: true})
	require.NoError(t, err)

	// 3 kb + 4 web truncated to 5: all kb entries, then the first 2 web
	require.Len(t, res.Sources, 5)
	assert.Equal(t, "KB 1", res.Sources[0].Title)
	assert.Equal(t, "KB 2", res.Sources[1].Title)
	assert.Equal(t, "KB 3", res.Sources[2].Title)
	assert.Equal(t, "Web 1", res.Sources[3].Title)
	assert.Equal(t, "Web 2", res.Sources[4].Title)
}

func TestWebSearchWinsWhenBothFlagsSet(t *testing.T) {
	retriever := &fakeRetriever{}
	search := &fakeSearch{results: []websearch.Result{{Title: "W", URL: "u"}}}
	svc := newTestChatService(retriever, search, &fakeLLM{answer: "ok"})

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "q", UseWebSearch: true, UseHybrid: true})
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, dto.SourceTypeWebSearch, res.Sources[0].Type)
	assert.Zero(t, retriever.calls)
}

func TestBlankQuestionShortCircuitsAnswer(t *testing.T) {
	retriever := &fakeRetriever{}
	search := &fakeSearch{}
	generator := &fakeLLM{}
	svc := newTestChatService(retriever, search, generator)

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "   "})
	require.NoError(t, err)
	assert.Equal(t, emptyQuestionMessage, res.Answer)
	assert.Empty(t, res.Sources)

	// No collaborator is ever consulted
	assert.Zero(t, retriever.calls)
	assert.Zero(t, search.calls)
	assert.Zero(t, generator.calls)
}

func TestBlankQuestionShortCircuitsStream(t *testing.T) {
	retriever := &fakeRetriever{}
	search := &fakeSearch{}
	generator := &fakeLLM{}
	svc := newTestChatService(retriever, search, generator)

	events := collectEvents(t, svc, &dto.ChatRequest{Question: "\t "})
	require.Len(t, events, 1)
	assert.True(t, events[0].Done)
	assert.Equal(t, emptyQuestionMessage, events[0].Content)

	assert.Zero(t, retriever.calls)
	assert.Zero(t, search.calls)
	assert.Zero(t, generator.calls)
}

func TestStreamEmitsFragmentsThenSingleTerminal(t *testing.T) {
	retriever := &fakeRetriever{docs: []rag.Document{{Text: "ctx", Title: "Doc", Repo: "r"}}}
	generator := &fakeLLM{fragments: []string{"Hel", "lo ", "world"}}
	svc := newTestChatService(retriever, &fakeSearch{}, generator)

	events := collectEvents(t, svc, &dto.ChatRequest{Question: "hi"})
	require.Len(t, events, 4)

	var fragments []string
	for _, ev := range events[:3] {
		assert.False(t, ev.Done)
		fragments = append(fragments, ev.Content)
	}
	assert.Equal(t, "Hello world", strings.Join(fragments, ""))

	terminal := events[3]
	assert.True(t, terminal.Done)
	assert.Empty(t, terminal.Err)
	require.Len(t, terminal.Sources, 1)
	assert.Equal(t, "Doc", terminal.Sources[0].Title)
}

func TestStreamCollectionFailureYieldsErrorTerminal(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("vector store down")}
	generator := &fakeLLM{fragments: []string{"never"}}
	svc := newTestChatService(retriever, &fakeSearch{}, generator)

	events := collectEvents(t, svc, &dto.ChatRequest{Question: "hi"})
	require.Len(t, events, 1)
	assert.True(t, events[0].Done)
	assert.Contains(t, events[0].Err, "vector store down")
	assert.Zero(t, generator.calls)
}

func TestStreamMidGenerationFailureYieldsErrorTerminal(t *testing.T) {
	retriever := &fakeRetriever{docs: []rag.Document{{Text: "ctx", Title: "Doc", Repo: "r"}}}
	generator := &fakeLLM{fragments: []string{"partial"}, streamErr: errors.New("model crashed")}
	svc := newTestChatService(retriever, &fakeSearch{}, generator)

	events := collectEvents(t, svc, &dto.ChatRequest{Question: "hi"})
	require.Len(t, events, 2)
	assert.Equal(t, "partial", events[0].Content)
	assert.False(t, events[0].Done)

	terminal := events[1]
	assert.True(t, terminal.Done)
	assert.Contains(t, terminal.Err, "model crashed")
}

func TestStreamZeroFragmentsStillTerminates(t *testing.T) {
	retriever := &fakeRetriever{}
	generator := &fakeLLM{}
	svc := newTestChatService(retriever, &fakeSearch{}, generator)

	events := collectEvents(t, svc, &dto.ChatRequest{Question: "hi"})
	require.Len(t, events, 1)
	assert.True(t, events[0].Done)
}

func TestUpstreamFailurePropagatesInSingleShot(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("vector store down")}
	svc := newTestChatService(retriever, &fakeSearch{}, &fakeLLM{})

	_, err := svc.Answer(context.Background(), &dto.ChatRequest{Question: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector store down")
}
