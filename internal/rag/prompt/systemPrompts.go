package prompt

// Named answer styles. Unknown style names fall back to the default.
const (
	StyleDefault  = "default"
	StyleConcise  = "concise"
	StyleDetailed = "detailed"
)

const defaultSystemPrompt = `You are a helpful assistant that answers questions using the provided context documents.
Ground every claim in the context. If the context does not contain the answer, say so plainly instead of guessing.
Cite the chunk you drew each fact from when it helps the reader verify.`

const conciseSystemPrompt = `You are a helpful assistant that answers questions using the provided context documents.
Answer in at most three sentences. Ground every claim in the context; if the context does not contain the answer, say so.`

const detailedSystemPrompt = `You are a helpful assistant that answers questions using the provided context documents.
Give a thorough, structured answer: cover every relevant point in the context, quote key passages, and note any gaps or ambiguities.
If the context does not contain the answer, say so plainly instead of guessing.`

func SystemPrompt(style string) string {
	switch style {
	case StyleConcise:
		return conciseSystemPrompt
	case StyleDetailed:
		return detailedSystemPrompt
	default:
		return defaultSystemPrompt
	}
}
