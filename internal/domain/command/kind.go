// Package command defines the closed vocabulary of context mutations.
//
// A Command wraps exactly one Payload. Payload is a sealed interface: only
// the types in this package implement it, so a type switch over payloads
// in the handler package covers the whole vocabulary.
package command

// Kind names a command variant on the wire.
type Kind string

const (
	KindSetSellerName           Kind = "set_seller_name"
	KindSetBuyerName            Kind = "set_buyer_name"
	KindSetPartyKind            Kind = "set_party_kind"
	KindSetPartyTaxID           Kind = "set_party_tax_id"
	KindSetMaritalStatus        Kind = "set_marital_status"
	KindSetSpouseName           Kind = "set_spouse_name"
	KindSetSpouseParticipation  Kind = "set_spouse_participation"
	KindSetPaymentMethod        Kind = "set_payment_method"
	KindSetCreditInstitution    Kind = "set_credit_institution"
	KindSetCreditAmount         Kind = "set_credit_amount"
	KindAddCreditParticipant    Kind = "add_credit_participant"
	KindSetEncumbranceExists    Kind = "set_encumbrance_exists"
	KindSetLienDetails          Kind = "set_lien_details"
	KindConfirmLienCancellation Kind = "confirm_lien_cancellation"
	KindRegisterFolioCandidates Kind = "register_folio_candidates"
	KindSelectFolio             Kind = "select_folio"
	KindSetPropertyDetails      Kind = "set_property_details"
	KindSetTitleHolders         Kind = "set_title_holders"
	KindRegisterDetectedPeople  Kind = "register_detected_people"
	KindResolveDetectedPerson   Kind = "resolve_detected_person"
	KindApplyContextDelta       Kind = "apply_context_delta"
	KindRecordStageTransition   Kind = "record_stage_transition"
	KindRecordDocument          Kind = "record_document"
)

// AllKinds lists every kind in declaration order.
var AllKinds = []Kind{
	KindSetSellerName,
	KindSetBuyerName,
	KindSetPartyKind,
	KindSetPartyTaxID,
	KindSetMaritalStatus,
	KindSetSpouseName,
	KindSetSpouseParticipation,
	KindSetPaymentMethod,
	KindSetCreditInstitution,
	KindSetCreditAmount,
	KindAddCreditParticipant,
	KindSetEncumbranceExists,
	KindSetLienDetails,
	KindConfirmLienCancellation,
	KindRegisterFolioCandidates,
	KindSelectFolio,
	KindSetPropertyDetails,
	KindSetTitleHolders,
	KindRegisterDetectedPeople,
	KindResolveDetectedPerson,
	KindApplyContextDelta,
	KindRecordStageTransition,
	KindRecordDocument,
}

// IsValid returns true if the kind is part of the vocabulary.
func (k Kind) IsValid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// DocumentOnly reports kinds that only document extraction may issue.
// Conversation interpreters must never produce them.
func (k Kind) DocumentOnly() bool {
	switch k {
	case KindRegisterFolioCandidates, KindSetTitleHolders, KindRegisterDetectedPeople:
		return true
	default:
		return false
	}
}

// SystemOnly reports orchestrator bookkeeping kinds.
func (k Kind) SystemOnly() bool {
	return k == KindRecordStageTransition || k == KindRecordDocument
}
