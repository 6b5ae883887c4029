package transaction

import "time"

// Source is where a captured fact came from.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceLLM           Source = "llm"
	SourceDocument      Source = "document"
	SourceSystem        Source = "system"
)

// IsValid returns true if the source is one of the defined constants.
func (s Source) IsValid() bool {
	switch s {
	case SourceDeterministic, SourceLLM, SourceDocument, SourceSystem:
		return true
	default:
		return false
	}
}

// Context is the accumulated fact base for one transaction. It is created
// empty, mutated only by command handlers through the executor, and
// persisted by an external store as an opaque JSON document.
type Context struct {
	TransactionID   string             `json:"transaction_id"`
	TransactionType string             `json:"transaction_type,omitempty"`
	Parties         Parties            `json:"parties"`
	Property        Property           `json:"property"`
	Payment         Payment            `json:"payment"`
	Financing       Financing          `json:"financing"`
	Encumbrance     Encumbrance        `json:"encumbrance"`
	StageMeta       StageMeta          `json:"stage_meta"`
	Unresolved      []UnresolvedPerson `json:"pending_unresolved_people,omitempty"`
	Documents       []DocumentRecord   `json:"documents,omitempty"`
	Sources         map[string]Source  `json:"sources,omitempty"`
}

// New returns an empty context for the given transaction.
func New(id, txType string) *Context {
	return &Context{TransactionID: id, TransactionType: txType}
}

// StageMeta is the orchestrator's bookkeeping of stage movement.
type StageMeta struct {
	CurrentStage   string         `json:"current_stage,omitempty"`
	PreviousStage  string         `json:"previous_stage,omitempty"`
	ReaskCounts    map[string]int `json:"reask_counts,omitempty"`
	LastTransition *Transition    `json:"last_transition,omitempty"`
}

// Transition records one observed stage change (or non-change).
type Transition struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Valid bool      `json:"valid"`
	Rule  string    `json:"rule,omitempty"`
	At    time.Time `json:"at"`
}

// UnresolvedPerson is someone detected in a document who has not been
// attributed to a role yet.
type UnresolvedPerson struct {
	Name           string `json:"name"`
	TaxID          string `json:"tax_id,omitempty"`
	SourceDocument string `json:"source_document,omitempty"`
	SuggestedRole  string `json:"suggested_role,omitempty"`
}

// DocumentStatus is the outcome of processing an uploaded document.
type DocumentStatus string

const (
	DocumentExtracted DocumentStatus = "extracted"
	DocumentFailed    DocumentStatus = "failed"
)

// DocumentRecord tracks one uploaded document by content hash.
type DocumentRecord struct {
	Hash      string         `json:"hash"`
	Type      string         `json:"type"`
	Status    DocumentStatus `json:"status"`
	Failure   string         `json:"failure,omitempty"`
	Passes    int            `json:"passes"`
	ObjectRef string         `json:"object_ref,omitempty"`
	At        time.Time      `json:"at"`
}

// Document returns the record for a content hash, or nil.
func (c *Context) Document(hash string) *DocumentRecord {
	for i := range c.Documents {
		if c.Documents[i].Hash == hash {
			return &c.Documents[i]
		}
	}
	return nil
}

// SetSource records the provenance of a field path.
func (c *Context) SetSource(path string, src Source) {
	if c.Sources == nil {
		c.Sources = make(map[string]Source)
	}
	c.Sources[path] = src
}

// SourceOf returns the provenance of a field path.
func (c *Context) SourceOf(path string) Source {
	return c.Sources[path]
}

// Clone returns a deep copy. Handlers always work on a clone so that a
// failed mutation can be discarded.
func (c *Context) Clone() *Context {
	if c == nil {
		return nil
	}
	out := &Context{
		TransactionID:   c.TransactionID,
		TransactionType: c.TransactionType,
		Parties: Parties{
			Sellers: cloneParties(c.Parties.Sellers),
			Buyers:  cloneParties(c.Parties.Buyers),
		},
		Property:    c.Property.clone(),
		Payment:     c.Payment,
		Financing:   c.Financing.clone(),
		Encumbrance: c.Encumbrance.clone(),
		StageMeta:   c.StageMeta.clone(),
	}
	if c.Unresolved != nil {
		out.Unresolved = append([]UnresolvedPerson(nil), c.Unresolved...)
	}
	if c.Documents != nil {
		out.Documents = append([]DocumentRecord(nil), c.Documents...)
	}
	if c.Sources != nil {
		out.Sources = make(map[string]Source, len(c.Sources))
		for k, v := range c.Sources {
			out.Sources[k] = v
		}
	}
	return out
}

func (m *StageMeta) clone() StageMeta {
	out := StageMeta{CurrentStage: m.CurrentStage, PreviousStage: m.PreviousStage}
	if m.ReaskCounts != nil {
		out.ReaskCounts = make(map[string]int, len(m.ReaskCounts))
		for k, v := range m.ReaskCounts {
			out.ReaskCounts[k] = v
		}
	}
	if m.LastTransition != nil {
		t := *m.LastTransition
		out.LastTransition = &t
	}
	return out
}
