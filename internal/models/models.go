package models

// PromptResponse carries a grounded answer back to the caller: the question,
// the retrieved context it was grounded on, and the generated text.
type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
