package rag

import "context"

// Document is one retrieved knowledge-base chunk, ready for prompt assembly.
type Document struct {
	Text  string
	Title string
	Repo  string
}

// Retriever is the knowledge-base collaborator: given a question it returns
// relevant documents in ranking order.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]Document, error)
}
