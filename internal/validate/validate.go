// Package validate implements the Validator: the pipeline stage that runs
// after the Post-Processor and checks a [types.Prescription] for semantic
// completeness, dose-format legality, merge-invariant violations, and
// dangerous drug combinations. A failed validation does not discard the
// prescription — it is always returned to the caller alongside its
// [types.ValidationReport].
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrWong99/glyphoxa/internal/knowledge"
	"github.com/MrWong99/glyphoxa/pkg/types"
)

// dosePattern matches a numeric amount followed by one of the allowed
// dose units.
var dosePattern = regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(mg|ml|mcg|g|tablet|tablets|capsule|capsules|drop|drops|puff|puffs|unit|units|iu)\b`)

var structValidate = validator.New()

// Validator runs the semantic checks described in the package doc. It is
// safe for concurrent use.
type Validator struct {
	kb *knowledge.Base
}

// New constructs a Validator backed by kb for dangerous-combination
// lookups.
func New(kb *knowledge.Base) *Validator {
	return &Validator{kb: kb}
}

// Validate checks p and returns a populated [types.ValidationReport]. It
// never errors: every check either passes, raises an issue, or is skipped
// when its precondition (e.g. a non-empty dose string) doesn't hold.
func (v *Validator) Validate(p *types.Prescription) types.ValidationReport {
	var issues []types.ValidationIssue

	issues = append(issues, structIssues(p)...)

	if len(p.Medicines) == 0 {
		issues = append(issues, errIssue("medicines", "at-least-one-medicine-required"))
	}
	if len(p.Diagnosis) == 0 {
		issues = append(issues, warnIssue("diagnosis", "no diagnosis captured"))
	}

	seen := make(map[string]int, len(p.Medicines))
	for i, m := range p.Medicines {
		field := fmt.Sprintf("medicines[%d]", i)

		if m.Dose != "" && !strings.EqualFold(m.Dose, "none") && !dosePattern.MatchString(m.Dose) {
			issues = append(issues, errIssue(field+".dose", fmt.Sprintf("malformed dose %q for %s", m.Dose, m.Name)))
		}

		key := strings.ToLower(strings.TrimSpace(m.Name))
		if prior, dup := seen[key]; dup {
			issues = append(issues, errIssue(field+".name",
				fmt.Sprintf("duplicate medicine %q (also at index %d): merge invariant violated", m.Name, prior)))
		} else {
			seen[key] = i
		}
	}

	issues = append(issues, v.dangerousCombinationIssues(p.Medicines)...)

	valid := true
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			valid = false
			break
		}
	}

	return types.ValidationReport{Valid: valid, Issues: issues}
}

// dangerousCombinationIssues warns on every pair of medicines the
// Knowledge Base flags as a dangerous combination. Not fatal: a clinician
// reviews the prescription before it is acted on.
func (v *Validator) dangerousCombinationIssues(medicines []types.Medicine) []types.ValidationIssue {
	var issues []types.ValidationIssue
	for i := 0; i < len(medicines); i++ {
		for j := i + 1; j < len(medicines); j++ {
			reason, dangerous := v.kb.DangerousCombination(medicines[i].Name, medicines[j].Name)
			if !dangerous {
				continue
			}
			issues = append(issues, warnIssue("medicines",
				fmt.Sprintf("dangerous combination: %s + %s — %s", medicines[i].Name, medicines[j].Name, reason)))
		}
	}
	return issues
}

// structIssues runs the struct-tag layer (required fields, enum
// membership) declared directly on [types.Prescription] and
// [types.Medicine], translating each `validator` field error into a
// ValidationIssue. This complements the semantic checks above, which need
// drug-specific tables a struct tag cannot express.
func structIssues(p *types.Prescription) []types.ValidationIssue {
	err := structValidate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !asValidationErrors(err, &fieldErrs) {
		return []types.ValidationIssue{errIssue("", err.Error())}
	}

	issues := make([]types.ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, errIssue(fe.Namespace(),
			fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())))
	}
	return issues
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = ve
	return true
}

func errIssue(field, message string) types.ValidationIssue {
	return types.ValidationIssue{Field: field, Message: message, Severity: types.SeverityError}
}

func warnIssue(field, message string) types.ValidationIssue {
	return types.ValidationIssue{Field: field, Message: message, Severity: types.SeverityWarning}
}
