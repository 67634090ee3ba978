package openai

import (
	"fmt"
	"strings"

	"github.com/gabrielramosasof/jurisrag/ai"
)

const answerSystemPrompt = `Você é um assistente jurídico especializado em legislação brasileira.

Responda à pergunta do usuário utilizando EXCLUSIVAMENTE os trechos de documentos fornecidos como contexto.

Regras:
- Baseie a resposta apenas nos trechos fornecidos. Não invente dispositivos legais, números de artigos ou jurisprudência que não estejam no contexto.
- Se os trechos não contêm informação suficiente para responder, diga claramente que os documentos disponíveis não tratam do assunto.
- Quando citar um trecho, mencione o documento de origem indicado em [Fonte: ...].
- Responda em português, de forma objetiva e tecnicamente precisa.
- Isto não substitui aconselhamento jurídico profissional.`

// buildAnswerPrompt assembles the user message: the retrieved excerpts,
// each labeled with its source document, followed by the question.
func buildAnswerPrompt(question string, excerpts []ai.Excerpt) string {
	var b strings.Builder

	b.WriteString("Trechos dos documentos:\n\n")
	for i, excerpt := range excerpts {
		fmt.Fprintf(&b, "--- Trecho %d [Fonte: %s] ---\n", i+1, excerpt.Source)
		b.WriteString(strings.TrimSpace(excerpt.Contents))
		b.WriteString("\n\n")
	}

	b.WriteString("Pergunta: ")
	b.WriteString(strings.TrimSpace(question))

	return b.String()
}
