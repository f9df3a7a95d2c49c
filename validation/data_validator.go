// Package validation checks user input before it reaches the lookup services:
// drug names, ICD-10/ATC/RxCUI codes and patient parameters for dose calculations.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/eczane/pharmacy-api/interfaces"
)

// ErrInvalidInput wraps every validation failure
var ErrInvalidInput = errors.New("invalid input")

// MaxDrugs bounds the number of drugs in one request
const MaxDrugs = 20

// Pre-compiled patterns, reused for every request
var (
	// letters (including Turkish), digits, spaces and safe punctuation
	inputRegex = regexp.MustCompile(`^[\p{L}0-9\s\-\.\+'/()]+$`)

	// A00, E11.9, or a shorter prefix such as "E1"
	icd10Regex = regexp.MustCompile(`^[A-Za-z]\d{0,2}(\.\d{1,2})?$`)

	// full code N02BE01 or any prefix of it
	atcRegex = regexp.MustCompile(`^[A-Za-z](\d{1,2}([A-Za-z]{1,2}(\d{1,2})?)?)?$`)

	// strings.Contains is enough for these
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
		"eval(", "expression(", "@import",
		// SQL injection
		"' or ", "\" or ", "union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(",
		// command injection
		"; ", "| ", "& ", "`", "$(", "${",
		// path traversal
		"../", "..\\", "%2e%2e", "file://",
		// NoSQL injection
		"{$ne:", "{$gt:", "{$where:", "{$regex:",
	}
)

// Compile-time check
var _ interfaces.InputValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements interfaces.InputValidator
type DataValidatorImpl struct{}

// NewDataValidator creates a new validator
func NewDataValidator() interfaces.InputValidator {
	return &DataValidatorImpl{}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateInput validates a drug name or free-text search term
func (v *DataValidatorImpl) ValidateInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return invalid("input cannot be empty")
	}

	n := utf8.RuneCountInString(trimmed)
	if n < 2 {
		return invalid("input too short: minimum 2 characters")
	}
	if n > 100 {
		return invalid("input too long: maximum 100 characters")
	}

	// Many short words make the alias matching expensive
	if len(strings.Fields(trimmed)) > 8 {
		return invalid("search query too complex: maximum 8 words allowed")
	}

	lower := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return invalid("input contains potentially dangerous content")
		}
	}

	if !inputRegex.MatchString(trimmed) {
		return invalid("input contains invalid characters. Only letters, numbers, spaces, hyphens, apostrophes, periods, slashes, parentheses and plus sign are allowed")
	}

	if hasExcessiveRepetition(trimmed) {
		return invalid("input contains excessive character repetition")
	}

	return nil
}

// ValidateDrugList checks the list length and every name in it
func (v *DataValidatorImpl) ValidateDrugList(drugs []string, minCount int) error {
	if len(drugs) < minCount {
		return invalid("at least %d drugs required, got %d", minCount, len(drugs))
	}
	if len(drugs) > MaxDrugs {
		return invalid("too many drugs: maximum %d allowed", MaxDrugs)
	}
	for i, d := range drugs {
		if err := v.ValidateInput(d); err != nil {
			return fmt.Errorf("drug %d: %w", i+1, err)
		}
	}
	return nil
}

// ValidateICD10Code accepts full codes and code prefixes
func (v *DataValidatorImpl) ValidateICD10Code(code string) error {
	if !icd10Regex.MatchString(strings.TrimSpace(code)) {
		return invalid("ICD-10 code should look like E11 or E11.9, got %q", code)
	}
	return nil
}

// ValidateATCCode accepts full ATC codes and their prefixes
func (v *DataValidatorImpl) ValidateATCCode(code string) error {
	if !atcRegex.MatchString(strings.TrimSpace(code)) {
		return invalid("ATC code should look like N02BE01 or a prefix of it, got %q", code)
	}
	return nil
}

// ValidateRxCUI validates RxNorm concept identifiers.
// strconv.Atoi rejects anything that is not a number.
func (v *DataValidatorImpl) ValidateRxCUI(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return -1, invalid("RxCUI cannot be empty")
	}
	if len(input) != len(trimmed) || len(trimmed) > 10 {
		return -1, invalid("RxCUI should have at most 10 digits")
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil || id <= 0 {
		return -1, invalid("RxCUI contains invalid characters. Only numeric characters are allowed")
	}
	return id, nil
}

// ValidatePatient bounds the patient parameters used by the dose formulas.
// Zero means "not given"; callers check the fields they require.
func (v *DataValidatorImpl) ValidatePatient(p interfaces.PatientParams) error {
	if p.Weight < 0 || p.Weight > 500 {
		return invalid("weight must be between 0 and 500 kg, got %v", p.Weight)
	}
	if p.Age < 0 || p.Age >= 140 {
		return invalid("age must be between 0 and 140 years, got %v", p.Age)
	}
	if p.Height < 0 || p.Height > 300 {
		return invalid("height must be between 0 and 300 cm, got %v", p.Height)
	}
	if p.SerumCreatinine < 0 || p.SerumCreatinine > 30 {
		return invalid("serum creatinine must be between 0 and 30 mg/dL, got %v", p.SerumCreatinine)
	}
	return nil
}

// ValidateTrimester accepts an empty value or 1, 2, 3
func (v *DataValidatorImpl) ValidateTrimester(trimester string) error {
	switch strings.TrimSpace(trimester) {
	case "", "1", "2", "3":
		return nil
	}
	return invalid("trimester must be 1, 2 or 3, got %q", trimester)
}

// hasExcessiveRepetition reports the same rune repeated more than 10 times in a row
func hasExcessiveRepetition(input string) bool {
	var prev rune
	run := 0
	for _, r := range input {
		if r == prev {
			run++
			if run > 10 {
				return true
			}
			continue
		}
		prev, run = r, 1
	}
	return false
}
