package preaviso

import (
	"fmt"
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

const (
	promptReady     = "Ya tengo toda la información del pre-aviso. ¿Quieres que genere el documento?"
	promptCandidate = "Encontré varios folios reales: %s. ¿Cuál corresponde al inmueble de esta operación?"
	promptConflict  = "El vendedor indicado (%s) no coincide con el titular registral (%s). ¿Quién vende el inmueble?"
	promptDetected  = "En los documentos aparece %s. ¿Qué papel tiene en la operación (vendedor, comprador, cónyuge o coacreditado)?"
	promptGuidance  = "Sigo necesitando este dato para avanzar. %s Por ejemplo: \"%s\"."
	promptFallback  = "No pude interpretar tu respuesta. %s"
)

// SystemPrompt is the instruction sent to the language model.
const SystemPrompt = `Eres el asistente de una notaría que integra un pre-aviso de compraventa de inmueble.
Recibes el contexto de la operación, la etapa actual, los campos faltantes y la lista de comandos permitidos.
Responde solo con JSON: {"commands": [{"kind": "...", "payload": {...}}], "context_delta": {...}, "reply": "..."}.
Usa exclusivamente comandos de allowed_commands. No inventes datos que el usuario no haya dicho.
Si el usuario no aporta un dato nuevo, devuelve commands vacío y una pregunta breve en reply.`

// Prompt returns the next question for the user. With guidance set, the
// question carries a worked example of the expected answer.
func Prompt(s stage.Summary, tx *transaction.Context, guidance bool) string {
	if len(s.BlockingReasons) > 0 {
		b := s.BlockingReasons[0]
		if b.Code == ConflictSellerNotTitleHolder {
			return fmt.Sprintf(promptConflict, b.Declared, b.Recorded)
		}
		return fmt.Sprintf("Hay datos que no coinciden en %s: %q contra %q. ¿Cuál es el correcto?", b.Field, b.Declared, b.Recorded)
	}
	if s.Ready() {
		return promptReady
	}

	question := Question(s, tx)
	if len(tx.Unresolved) > 0 && personStage(s.CurrentStage) {
		question = fmt.Sprintf(promptDetected, tx.Unresolved[0].Name) + " " + question
	}
	if !guidance {
		return question
	}
	def, _ := table.Lookup(s.CurrentStage)
	return fmt.Sprintf(promptGuidance, question, def.Example)
}

// Question asks for the first missing field of the current stage.
func Question(s stage.Summary, tx *transaction.Context) string {
	if s.CurrentStage == StageProperty && len(tx.Property.FolioCandidates) > 1 {
		return fmt.Sprintf(promptCandidate, strings.Join(tx.Property.FolioCandidates, ", "))
	}
	def, ok := table.Lookup(s.CurrentStage)
	if !ok {
		return promptReady
	}
	for _, f := range s.MissingFields {
		if q, ok := def.Questions[f]; ok {
			return q
		}
	}
	// A pending stage waits on a fact owned by an earlier stage.
	for _, q := range def.Questions {
		return q
	}
	return promptReady
}

// FallbackPrompt is the reply when interpretation failed.
func FallbackPrompt(s stage.Summary, tx *transaction.Context) string {
	return fmt.Sprintf(promptFallback, Question(s, tx))
}

func personStage(id string) bool {
	return id == StageSeller || id == StageBuyer || id == StageSpouse || id == StageFinancing
}
