// Package exclusion drives the waiver lifecycle: which action a finding's
// current exclusion state offers, which form the user fills to request a
// transition, and how a filled form merges into a submission payload.
//
// The lifecycle is an explicit transition table indexed by current state,
// not string-keyed branching, so every row is unit-testable without any
// rendering involved.
package exclusion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/complianceops/scorecard/internal/models"
)

// FieldKind distinguishes an editable form field from a read-only label
// showing the field's previous value.
type FieldKind string

const (
	KindField FieldKind = "field"
	KindLabel FieldKind = "label"
)

// FormField is one entry of the form a transition presents.
type FormField struct {
	Kind        FieldKind
	ID          string
	Label       string
	Placeholder string

	// Default pre-populates the field; for KindLabel it is the displayed
	// previous value.
	Default string
}

// Option is one selectable transition in the form's action list.
type Option struct {
	// Status is the lifecycle state submitted when this option is chosen.
	Status models.ExclusionStatus

	Title string
}

// Action describes the user-facing operation a finding's exclusion state
// currently offers: the button label, the modal title, the transition
// options, and the form to fill.
type Action struct {
	NCRID   string
	Label   string
	Display string
	Options []Option
	Fields  []FormField
}

// rule is one row of the lifecycle transition table.
type rule struct {
	// fixedLabel is the action label; empty means the label is the
	// exclusion type's initial-state actionName.
	fixedLabel string

	// optionTitleFromInitial forces the transition option title to the
	// initial-state actionName even when fixedLabel is set. Only the
	// archived row does this; the mismatch reproduces long-standing
	// behaviour pending product clarification, see DESIGN.md.
	optionTitleFromInitial bool

	// prefill pre-populates the form from the existing exclusion's fields.
	prefill bool
}

// lifecycle is the transition table: current state → derived action.
// A state always transitions to itself on submission, except the absent
// state which creates an "initial" record.
var lifecycle = map[models.ExclusionStatus]rule{
	models.StatusNone:     {},
	models.StatusInitial:  {fixedLabel: "Update", prefill: true},
	models.StatusApproved: {fixedLabel: "Request Changes", prefill: true},
	models.StatusRejected: {prefill: true},
	models.StatusArchived: {fixedLabel: "Update", optionTitleFromInitial: true, prefill: true},
}

// NextStatus returns the state a submission from current targets when the
// user picks no explicit override: absent records are created as initial,
// every stored state resubmits into itself.
func NextStatus(current models.ExclusionStatus) models.ExclusionStatus {
	if current == models.StatusNone {
		return models.StatusInitial
	}
	return current
}

// legacyCompoundType is the historical requirement exclusion-type value
// that maps onto the "approval" workflow.
const legacyCompoundType = "approval|justification|exception"

// TypeKey resolves a requirement's exclusion-type reference to the key
// into StatusData.ExclusionTypes.
func TypeKey(req models.Requirement) string {
	collapsed := strings.ReplaceAll(req.ExclusionType, " ", "")
	if collapsed == legacyCompoundType {
		return "approval"
	}
	return req.ExclusionType
}

// ActionFor derives the current action for a finding from its exclusion
// state and the requirement's exclusion type definition. now only feeds the
// suggested expiration on a brand-new form; stored expirations always win.
func ActionFor(ncr models.NCR, status *models.StatusData, now time.Time) (Action, error) {
	req := status.RequirementByID(ncr.Resource.RequirementID)
	key := TypeKey(req)
	typeDef, ok := status.ExclusionTypes[key]
	if !ok {
		return Action{}, fmt.Errorf("unknown exclusion type %q for requirement %q", key, req.RequirementID)
	}

	current := models.StatusNone
	var existing map[string]string
	expiration := ""
	if exc := ncr.Resource.Exclusion; exc != nil {
		current = exc.Status
		existing = exc.FormFields
		expiration = exc.ExpirationDate
	}
	if current == models.StatusNone {
		expiration = DefaultExpiration(typeDef, now)
	}

	row, ok := lifecycle[current]
	if !ok {
		return Action{}, fmt.Errorf("unknown exclusion status %q", current)
	}

	initialName := typeDef.States["initial"].ActionName

	label := row.fixedLabel
	if label == "" {
		label = initialName
	}
	optionTitle := label
	if row.optionTitleFromInitial {
		optionTitle = initialName
	}

	prefill := existing
	if !row.prefill {
		prefill = nil
	}

	return Action{
		NCRID:   ncr.NCRID,
		Label:   label,
		Display: typeDef.DisplayName,
		Options: []Option{{Status: NextStatus(current), Title: optionTitle}},
		Fields:  buildForm(prefill, typeDef.FormFields, expiration),
	}, nil
}

// buildForm assembles the ordered field list for a transition: for each
// schema field, a read-only label with the previous value when one exists,
// then the editable field; the expiration date always trails as its own
// top-level field. Schema keys are sorted so two identical inputs build
// byte-identical forms.
func buildForm(existing map[string]string, schema map[string]models.FormFieldDef, expiration string) []FormField {
	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var fields []FormField
	for _, key := range keys {
		if prev, ok := existing[key]; ok && prev != "" {
			fields = append(fields, FormField{
				Kind:    KindLabel,
				ID:      key,
				Label:   "Old " + key,
				Default: prev,
			})
		}
		def := schema[key]
		fields = append(fields, FormField{
			Kind:        KindField,
			ID:          key,
			Label:       def.Label,
			Placeholder: def.Placeholder,
		})
	}

	fields = append(fields, FormField{
		Kind:        KindField,
		ID:          "expirationDate",
		Label:       "Expiration Date",
		Placeholder: "yyyy/mm/dd",
		Default:     expiration,
	})
	return fields
}

// DefaultExpiration suggests an expiration date for a brand-new exclusion
// from the type's default duration. Empty when the type declares none.
func DefaultExpiration(typeDef models.ExclusionType, now time.Time) string {
	if typeDef.DefaultDurationInDays <= 0 {
		return ""
	}
	return now.AddDate(0, 0, typeDef.DefaultDurationInDays).Format("2006/01/02")
}
