package interactions

import (
	"context"
	"errors"
	"slices"

	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/reference"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/upstream"
)

// Source tags carried on every record
const (
	SourceRxNorm  = "RxNorm API"
	SourceOpenFDA = "OpenFDA"
	SourceLocal   = "Farmakolojik Literatür"
)

// Lookup is what a source found for a drug set
type Lookup struct {
	Records  []Record
	NotFound []string
}

// Source is one provider in the resolution cascade. An error means the source
// could not answer; an empty Lookup means it answered with nothing.
type Source interface {
	Name() string
	Lookup(ctx context.Context, drugs []string) (Lookup, error)
}

// RxNormChecker is the part of the RxNorm client the cascade needs
type RxNormChecker interface {
	CheckByNames(ctx context.Context, names []string) (rxnorm.InteractionList, error)
}

// LabelReader is the part of the OpenFDA client the cascade needs
type LabelReader interface {
	InteractionText(ctx context.Context, name string) (openfda.InteractionInfo, error)
}

type RxNormSource struct {
	client RxNormChecker
}

func NewRxNormSource(client RxNormChecker) *RxNormSource {
	return &RxNormSource{client: client}
}

func (s *RxNormSource) Name() string { return SourceRxNorm }

func (s *RxNormSource) Lookup(ctx context.Context, drugs []string) (Lookup, error) {
	list, err := s.client.CheckByNames(ctx, drugs)
	if err != nil {
		// too few names resolved is an answer, not a failure
		if errors.Is(err, rxnorm.ErrInsufficientDrugs) {
			return Lookup{NotFound: list.NotFound}, nil
		}
		return Lookup{}, err
	}

	records := make([]Record, 0, len(list.Interactions))
	for _, in := range list.Interactions {
		r := Record{
			Pair:      [2]string{in.Drug1, in.Drug2},
			Severity:  reference.Severity(rxnorm.MapSeverity(in.Severity)),
			Mechanism: in.Description,
			Action:    "Detaylar için eczacınıza danışın",
			Source:    SourceRxNorm,
		}
		if r.Pair[0] == "" {
			r.Pair[0] = drugs[0]
		}
		if r.Pair[1] == "" {
			r.Pair[1] = drugs[1]
		}
		if r.Mechanism == "" {
			r.Mechanism = "RxNorm tarafından tespit edildi"
		}
		records = append(records, r)
	}
	return Lookup{Records: records, NotFound: list.NotFound}, nil
}

type OpenFDASource struct {
	client LabelReader
}

func NewOpenFDASource(client LabelReader) *OpenFDASource {
	return &OpenFDASource{client: client}
}

func (s *OpenFDASource) Name() string { return SourceOpenFDA }

// Lookup reads each drug's label and emits one moderate record per drug whose
// label has an interactions section.
func (s *OpenFDASource) Lookup(ctx context.Context, drugs []string) (Lookup, error) {
	var records []Record
	var lastErr error
	for _, drug := range drugs {
		info, err := s.client.InteractionText(ctx, drug)
		if err != nil {
			if !errors.Is(err, openfda.ErrNotFound) {
				lastErr = err
			}
			continue
		}
		if info.InteractionText == "" {
			continue
		}
		records = append(records, Record{
			Pair:      [2]string{drug, "diğer ilaçlar"},
			Severity:  reference.SeverityModerate,
			Mechanism: upstream.Truncate(info.InteractionText, 500),
			Action:    "FDA prospektüsünü inceleyin",
			Source:    SourceOpenFDA,
		})
	}

	if len(records) == 0 && lastErr != nil {
		return Lookup{}, lastErr
	}
	return Lookup{Records: records}, nil
}

// LocalSource checks every pair against the curated table. Pairs are visited
// in name order so the answer depends only on the drug set.
type LocalSource struct{}

func (LocalSource) Name() string { return SourceLocal }

func (LocalSource) Lookup(_ context.Context, drugs []string) (Lookup, error) {
	sorted := slices.Clone(drugs)
	slices.Sort(sorted)

	var records []Record
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if r, ok := LocalPair(sorted[i], sorted[j]); ok {
				records = append(records, r)
			}
		}
	}
	return Lookup{Records: records}, nil
}

// LocalPair looks for a rule between d1 and d2: drug against drug, then each
// drug's classes against the other drug, then class against class. Every
// lookup is tried in both directions and the first match wins. The result
// does not depend on argument order; Pair follows the rule's direction.
func LocalPair(d1, d2 string) (Record, bool) {
	if d2 < d1 {
		d1, d2 = d2, d1
	}

	// from and to are the drugs whose names or classes keyed the rule
	try := func(fromKey, toKey, from, to string) (Record, bool) {
		rule, ok := reference.Interaction(fromKey, toKey)
		if !ok {
			return Record{}, false
		}
		return Record{
			Pair:      [2]string{from, to},
			Severity:  rule.Severity,
			Mechanism: rule.Mechanism,
			Action:    rule.Action,
			Source:    SourceLocal,
		}, true
	}
	both := func(k1, k2 string) (Record, bool) {
		if r, ok := try(k1, k2, d1, d2); ok {
			return r, true
		}
		return try(k2, k1, d2, d1)
	}

	if r, ok := both(d1, d2); ok {
		return r, true
	}

	classes1 := reference.DrugClasses(d1)
	classes2 := reference.DrugClasses(d2)
	for _, c1 := range classes1 {
		if r, ok := both(c1, d2); ok {
			return r, true
		}
	}
	for _, c2 := range classes2 {
		if r, ok := both(d1, c2); ok {
			return r, true
		}
	}
	for _, c1 := range classes1 {
		for _, c2 := range classes2 {
			if r, ok := both(c1, c2); ok {
				return r, true
			}
		}
	}
	return Record{}, false
}
