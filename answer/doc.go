// Package answer turns retrieval results into grounded answers.
//
// The Engine type runs the question workflow: retrieve the most relevant
// chunks for a question, hand them to the chat model as excerpts and
// return the generated answer together with its deduplicated sources.
package answer
