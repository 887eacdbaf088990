package dto

const (
	SourceTypeKnowledgeBase = "knowledge_base"
	SourceTypeWebSearch     = "web_search"
)

type ChatRequest struct {
	// Question may be blank; blank questions short-circuit to a fixed
	// prompt-the-user answer instead of failing validation.
	Question string `json:"question"`
	// UseWebSearch wins when both flags are set (kept from the observed
	// behavior; clients are expected to set at most one).
	UseWebSearch bool `json:"use_web_search"`
	UseHybrid    bool `json:"use_hybrid"`
}

// SourceItem is one provenance record attached to an answer.
type SourceItem struct {
	Type  string `json:"type"` // "knowledge_base" or "web_search"
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`  // web_search only
	Repo  string `json:"repo,omitempty"` // knowledge_base only
}

type ChatResponse struct {
	Answer  string       `json:"answer"`
	Sources []SourceItem `json:"sources,omitempty"` // omitted when empty
}

// StreamEvent is one event of a streamed answer. Exactly one terminal event
// (Done true) is emitted per stream; content events never follow it.
type StreamEvent struct {
	Content string
	Done    bool
	Err     string
	Sources []SourceItem
}
