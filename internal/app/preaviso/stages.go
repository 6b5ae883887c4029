// Package preaviso is the property-transfer pre-filing transaction type: its
// stage table, conversation rules, prompts and final document model.
package preaviso

import (
	"strings"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/command"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/facts"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/stage"
	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

// Stage ids in priority order.
const (
	StageProperty         = "property"
	StageSeller           = "seller"
	StagePayment          = "payment"
	StageBuyer            = "buyer"
	StageSpouse           = "spouse"
	StageFinancing        = "financing"
	StageLien             = "lien"
	StageLienCancellation = "lien_cancellation"
)

// ConflictSellerNotTitleHolder is raised when the declared seller is not
// among the registry title holders.
const ConflictSellerNotTitleHolder = "seller_not_title_holder"

var table = stage.Table{
	{
		ID:             StageProperty,
		RequiredFields: []string{transaction.FieldFolio},
		AllowedCommands: []command.Kind{
			command.KindSelectFolio,
			command.KindSetPropertyDetails,
		},
		DeltaPaths: []string{"property.address", "property.surveyed_area", "property.cadastral_refs", "property.book_entries"},
		Questions: map[string]string{
			transaction.FieldFolio: "¿Cuál es el folio real del inmueble? También puedes subir el certificado de libertad de gravamen.",
		},
		Example: "el folio real es 1234567",
	},
	{
		ID:             StageSeller,
		RequiredFields: []string{transaction.FieldSellerName},
		Conflicts:      sellerConflicts,
		AllowedCommands: []command.Kind{
			command.KindSetSellerName,
			command.KindSetPartyKind,
			command.KindSetPartyTaxID,
			command.KindResolveDetectedPerson,
		},
		DeltaPaths: []string{"parties.sellers"},
		Questions: map[string]string{
			transaction.FieldSellerName: "¿Cuál es el nombre completo de la persona o empresa que vende?",
		},
		Example: "el vendedor es Luis Martínez Gómez",
	},
	{
		ID:              StagePayment,
		RequiredFields:  []string{transaction.FieldPaymentMethod},
		AllowedCommands: []command.Kind{command.KindSetPaymentMethod},
		DeltaPaths:      []string{"payment"},
		Questions: map[string]string{
			transaction.FieldPaymentMethod: "¿La compra se paga de contado, con crédito o de forma mixta?",
		},
		Example: "de contado",
	},
	{
		ID:             StageBuyer,
		RequiredFields: []string{transaction.FieldBuyerName, transaction.FieldBuyerMaritalStatus},
		DependsOn:      []string{transaction.FieldBuyerKind},
		Completion:     buyerMissing,
		AllowedCommands: []command.Kind{
			command.KindSetBuyerName,
			command.KindSetPartyKind,
			command.KindSetPartyTaxID,
			command.KindSetMaritalStatus,
			command.KindResolveDetectedPerson,
		},
		DeltaPaths: []string{"parties.buyers"},
		Questions: map[string]string{
			transaction.FieldBuyerName:          "¿Cuál es el nombre completo de quien compra?",
			transaction.FieldBuyerMaritalStatus: "¿Cuál es el estado civil del comprador?",
		},
		Example: "el comprador es Juan Pérez López, casado",
	},
	{
		ID:             StageSpouse,
		RequiredFields: []string{transaction.FieldSpouseName},
		DependsOn:      []string{transaction.FieldBuyerMaritalStatus},
		Applicability:  spouseApplicability,
		AllowedCommands: []command.Kind{
			command.KindSetSpouseName,
			command.KindSetSpouseParticipation,
			command.KindSetMaritalStatus,
			command.KindResolveDetectedPerson,
		},
		DeltaPaths: []string{"parties.buyers"},
		Questions: map[string]string{
			transaction.FieldSpouseName: "¿Cuál es el nombre completo del cónyuge del comprador?",
		},
		Example: "su esposa es María López Hernández",
	},
	{
		ID:             StageFinancing,
		RequiredFields: []string{transaction.FieldCreditInstitution, transaction.FieldPrimaryBorrower},
		DependsOn:      []string{transaction.FieldPaymentMethod},
		Applicability:  financingApplicability,
		AllowedCommands: []command.Kind{
			command.KindSetCreditInstitution,
			command.KindSetCreditAmount,
			command.KindAddCreditParticipant,
			command.KindSetPaymentMethod,
			command.KindResolveDetectedPerson,
		},
		DeltaPaths: []string{"financing"},
		Questions: map[string]string{
			transaction.FieldCreditInstitution: "¿Con qué institución o banco se tramita el crédito?",
			transaction.FieldPrimaryBorrower:   "¿El comprador es el acreditado principal del crédito?",
		},
		Example: "crédito con BBVA por 2.5 millones",
	},
	{
		ID:             StageLien,
		RequiredFields: []string{transaction.FieldEncumbranceExists},
		AllowedCommands: []command.Kind{
			command.KindSetEncumbranceExists,
			command.KindSetLienDetails,
		},
		DeltaPaths: []string{"encumbrance"},
		Questions: map[string]string{
			transaction.FieldEncumbranceExists: "¿El inmueble tiene algún gravamen o hipoteca vigente?",
		},
		Example: "sí, tiene una hipoteca con Banorte",
	},
	{
		ID:             StageLienCancellation,
		RequiredFields: []string{transaction.FieldLienInstitution, transaction.FieldLienCancellation},
		DependsOn:      []string{transaction.FieldEncumbranceExists},
		Applicability:  lienApplicability,
		AllowedCommands: []command.Kind{
			command.KindSetLienDetails,
			command.KindConfirmLienCancellation,
			command.KindSetEncumbranceExists,
		},
		DeltaPaths: []string{"encumbrance.liens"},
		Questions: map[string]string{
			transaction.FieldLienInstitution:  "¿Con qué institución está el gravamen?",
			transaction.FieldLienCancellation: "¿Está confirmada la cancelación del gravamen antes de la firma?",
		},
		Example: "la hipoteca es con Banorte y sí se cancela",
	},
}

// Stages returns the pre-filing stage table.
func Stages() stage.Table { return table }

// buyerMissing requires the marital status of a buyer who is not a company.
func buyerMissing(tx *transaction.Context) []string {
	missing := stage.MissingFields(tx, transaction.FieldBuyerName)
	if tx.FieldValue(transaction.FieldBuyerKind) != string(transaction.KindLegalEntity) {
		missing = append(missing, stage.MissingFields(tx, transaction.FieldBuyerMaritalStatus)...)
	}
	return missing
}

func spouseApplicability(tx *transaction.Context) stage.Applicability {
	if tx.FieldValue(transaction.FieldBuyerKind) == string(transaction.KindLegalEntity) {
		return stage.NotApplicable
	}
	switch transaction.MaritalStatus(tx.FieldValue(transaction.FieldBuyerMaritalStatus)) {
	case "":
		return stage.Pending
	case transaction.MaritalMarried:
		return stage.Applicable
	default:
		return stage.NotApplicable
	}
}

func financingApplicability(tx *transaction.Context) stage.Applicability {
	switch transaction.PaymentMethod(tx.FieldValue(transaction.FieldPaymentMethod)) {
	case "":
		return stage.Pending
	case transaction.PaymentCash:
		return stage.NotApplicable
	default:
		return stage.Applicable
	}
}

func lienApplicability(tx *transaction.Context) stage.Applicability {
	switch tx.Encumbrance.Exists {
	case transaction.Yes:
		return stage.Applicable
	case transaction.No:
		return stage.NotApplicable
	default:
		return stage.Pending
	}
}

// sellerConflicts flags a declared seller that matches none of the registry
// title holders. Nothing is flagged until both facts are known.
func sellerConflicts(tx *transaction.Context) []stage.Conflict {
	seller := tx.FieldValue(transaction.FieldSellerName)
	holders := tx.Property.TitleHolders
	if seller == "" || len(holders) == 0 {
		return nil
	}
	for _, h := range holders {
		if facts.NamesOverlap(seller, h) {
			return nil
		}
	}
	return []stage.Conflict{{
		Code:     ConflictSellerNotTitleHolder,
		Field:    transaction.FieldSellerName,
		Declared: seller,
		Recorded: strings.Join(holders, "; "),
	}}
}
