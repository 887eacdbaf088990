package service

import (
	"context"
	"fmt"
	"strings"

	"rag-qa-be/internal/dto"
	"rag-qa-be/internal/pkg/logger"
	"rag-qa-be/pkg/llm"
	"rag-qa-be/pkg/rag"
	"rag-qa-be/pkg/websearch"
)

const (
	// maxSources bounds the combined provenance list, applied once after
	// knowledge-base and web entries are concatenated.
	maxSources = 5

	emptyQuestionMessage = "Please enter a question."
)

type searchMode string

const (
	modeKnowledgeBase searchMode = "knowledge_base"
	modeWebSearch     searchMode = "web_search"
	modeHybrid        searchMode = "hybrid"
)

type IChatService interface {
	Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	// AnswerStream pushes the answer through emit as it is generated. It
	// emits zero or more content events followed by exactly one terminal
	// event (Done true), even when collection or generation fails.
	AnswerStream(ctx context.Context, req *dto.ChatRequest, emit func(dto.StreamEvent) error) error
}

type chatService struct {
	retriever  rag.Retriever
	search     websearch.Client
	llm        llm.LLMProvider
	maxResults int
	logger     logger.ILogger
}

func NewChatService(retriever rag.Retriever, search websearch.Client, llmProvider llm.LLMProvider, maxResults int, log logger.ILogger) IChatService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &chatService{
		retriever:  retriever,
		search:     search,
		llm:        llmProvider,
		maxResults: maxResults,
		logger:     log,
	}
}

// resolveMode picks the retrieval strategy. use_web_search takes priority
// when both flags are set, matching the documented request contract.
func resolveMode(req *dto.ChatRequest) searchMode {
	if req.UseWebSearch {
		return modeWebSearch
	}
	if req.UseHybrid {
		return modeHybrid
	}
	return modeKnowledgeBase
}

func (s *chatService) Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return &dto.ChatResponse{Answer: emptyQuestionMessage}, nil
	}

	mode := resolveMode(req)
	prompt, sources, err := s.collect(ctx, question, mode)
	if err != nil {
		return nil, err
	}

	answer, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	s.logger.Info("chat", "answer produced", map[string]interface{}{
		"mode":    string(mode),
		"sources": len(sources),
	})

	return &dto.ChatResponse{
		Answer:  answer,
		Sources: sources,
	}, nil
}

func (s *chatService) AnswerStream(ctx context.Context, req *dto.ChatRequest, emit func(dto.StreamEvent) error) error {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		// Validation outcome, not an error: a single terminal event carrying
		// the fixed message.
		return emit(dto.StreamEvent{Content: emptyQuestionMessage, Done: true})
	}

	mode := resolveMode(req)
	prompt, sources, err := s.collect(ctx, question, mode)
	if err != nil {
		s.logger.Error("chat", "source collection failed", map[string]interface{}{
			"mode":  string(mode),
			"error": err.Error(),
		})
		return emit(dto.StreamEvent{Err: err.Error(), Done: true})
	}

	streamErr := s.llm.GenerateStream(ctx, prompt, func(fragment string) error {
		return emit(dto.StreamEvent{Content: fragment})
	})
	if streamErr != nil {
		if ctx.Err() != nil {
			// Client is gone; no one is listening for a terminal frame.
			return streamErr
		}
		s.logger.Error("chat", "stream generation failed", map[string]interface{}{
			"mode":  string(mode),
			"error": streamErr.Error(),
		})
		return emit(dto.StreamEvent{Err: streamErr.Error(), Done: true})
	}

	return emit(dto.StreamEvent{Done: true, Sources: sources})
}

// collect queries the collaborators for the selected mode and returns the
// assembled prompt together with the bounded provenance list. Collaborator
// failures propagate to the caller untouched.
func (s *chatService) collect(ctx context.Context, question string, mode searchMode) (string, []dto.SourceItem, error) {
	var prompt string
	var sources []dto.SourceItem

	switch mode {
	case modeWebSearch:
		results, err := s.search.Search(ctx, question, s.maxResults)
		if err != nil {
			return "", nil, fmt.Errorf("web search failed: %w", err)
		}
		sources = webSources(results)
		webContext := formatWebResults(results)
		prompt = fmt.Sprintf(
			"Answer the question based on the following web search results:\n\n%s\n\nQuestion: %s\n\nSummarize the answer concisely:",
			webContext, question)

	case modeHybrid:
		docs, err := s.retriever.Retrieve(ctx, question)
		if err != nil {
			return "", nil, fmt.Errorf("knowledge base retrieval failed: %w", err)
		}
		results, err := s.search.Search(ctx, question, s.maxResults)
		if err != nil {
			return "", nil, fmt.Errorf("web search failed: %w", err)
		}
		sources = append(kbSources(docs), webSources(results)...)
		prompt = fmt.Sprintf(
			"Answer the question using the following information:\n\n[Knowledge base]\n%s\n\n[Web search results]\n%s\n\nQuestion: %s\n\nCombine the information above in your answer:",
			kbContext(docs), formatWebResults(results), question)

	default: // knowledge base
		docs, err := s.retriever.Retrieve(ctx, question)
		if err != nil {
			return "", nil, fmt.Errorf("knowledge base retrieval failed: %w", err)
		}
		sources = kbSources(docs)
		prompt = fmt.Sprintf(
			"Answer the question using the following context:\n\n%s\n\nQuestion: %s\n\nAnswer:",
			kbContext(docs), question)
	}

	// One truncation over the combined list, never per source type.
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}
	return prompt, sources, nil
}

func kbContext(docs []rag.Document) string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	return strings.Join(texts, "\n\n")
}

// kbSources deduplicates by title, first occurrence wins. Later documents
// with the same title are dropped, not merged.
func kbSources(docs []rag.Document) []dto.SourceItem {
	var sources []dto.SourceItem
	seenTitles := make(map[string]bool)
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = "Untitled document"
		}
		if seenTitles[title] {
			continue
		}
		seenTitles[title] = true
		sources = append(sources, dto.SourceItem{
			Type:  dto.SourceTypeKnowledgeBase,
			Title: title,
			Repo:  doc.Repo,
		})
	}
	return sources
}

// webSources keeps provider order and does not deduplicate.
func webSources(results []websearch.Result) []dto.SourceItem {
	var sources []dto.SourceItem
	for _, res := range results {
		title := res.Title
		if title == "" {
			title = "Untitled result"
		}
		sources = append(sources, dto.SourceItem{
			Type:  dto.SourceTypeWebSearch,
			Title: title,
			URL:   res.URL,
		})
	}
	return sources
}

func formatWebResults(results []websearch.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Web search results (%d total):\n\n", len(results))
	for i, res := range results {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, res.Title)
		fmt.Fprintf(&b, "%s\n", res.Snippet)
		fmt.Fprintf(&b, "Source: %s\n\n", res.URL)
	}
	return b.String()
}
