package facts

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// maxShortReplyWords bounds what counts as a short reply. Longer messages
// carry their own meaning and are not resolved by polarity.
const maxShortReplyWords = 4

// Polarity returns +1 for an affirmative short reply, -1 for a negative
// one and 0 when the reply is not a short yes/no. When lastPrompt contains
// an inverted cue ("is the property lien-free?") the polarity flips, so the
// result is always expressed relative to the positive form of the question.
func (v *Vocabulary) Polarity(reply, lastPrompt string) int {
	folded := Fold(strings.Trim(reply, " .!¡?¿,"))
	if folded == "" || len(strings.Fields(folded)) > maxShortReplyWords {
		return 0
	}

	padded := " " + folded + " "
	sign := 0
	switch {
	case hasAny(padded, v.negative):
		sign = -1
	case hasAny(padded, v.affirmative):
		sign = 1
	default:
		return 0
	}

	if v.InvertedPrompt(lastPrompt) {
		sign = -sign
	}
	return sign
}

// InvertedPrompt reports whether the prompt asks the negative form of a
// question.
func (v *Vocabulary) InvertedPrompt(prompt string) bool {
	return hasAny(" "+Fold(prompt)+" ", v.invertedCues)
}

// ReplyTriState converts a short reply into a tri-state answer relative to
// the positive form of the last question.
func (v *Vocabulary) ReplyTriState(reply, lastPrompt string) transaction.TriState {
	switch v.Polarity(reply, lastPrompt) {
	case 1:
		return transaction.Yes
	case -1:
		return transaction.No
	default:
		return transaction.Unknown
	}
}

func hasAny(padded string, words []string) bool {
	for _, w := range words {
		if containsWords(padded, w) {
			return true
		}
	}
	return false
}
