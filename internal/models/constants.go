package models

// ContextSeparator joins retrieved chunks into the prompt context.
const ContextSeparator = "\n\n"

var RAGPromptTemplate = `Answer the question using only the context below.

Context:
%s

Question: %s

If the context does not contain the information needed to answer, reply exactly with "The answer is not available in the provided context."`
