package reference

import "slices"

// Severity grades an interaction by clinical risk
type Severity string

const (
	SeverityContraindicated Severity = "contraindicated"
	SeveritySerious         Severity = "serious"
	SeverityModerate        Severity = "moderate"
	SeverityMinor           Severity = "minor"
)

// Rank orders severities, most dangerous first. Unknown values rank with minor.
func (s Severity) Rank() int {
	switch s {
	case SeverityContraindicated:
		return 0
	case SeveritySerious:
		return 1
	case SeverityModerate:
		return 2
	default:
		return 3
	}
}

// InteractionRule is a locally curated interaction between two drugs or classes
type InteractionRule struct {
	Severity  Severity
	Mechanism string
	Action    string
}

// interactionRules is keyed by drug or class name, then by the counterpart.
// Lookups are one-directional; callers try both orders.
var interactionRules = map[string]map[string]InteractionRule{
	"warfarin": {
		"aspirin":     {SeveritySerious, "Kanama riski artışı", "Birlikte kullanmaktan kaçının"},
		"ibuprofen":   {SeveritySerious, "NSAID'ler warfarin metabolizmasını etkiler", "Paracetamol tercih edin"},
		"naproxen":    {SeveritySerious, "NSAID'ler kanama riskini artırır", "Birlikte kullanmayın"},
		"fluconazole": {SeveritySerious, "CYP2C9 inhibisyonu", "Warfarin dozunu azaltın, INR takibi"},
	},
	"metformin": {
		"alcohol": {SeveritySerious, "Laktik asidoz riski", "Alkol tüketimini sınırlayın"},
	},
	"ssri": {
		"maoi":     {SeverityContraindicated, "Serotonin sendromu", "Kesinlikle birlikte kullanmayın"},
		"tramadol": {SeveritySerious, "Serotonin sendromu riski", "Dikkatli kullanın"},
	},
	"ace_inhibitor": {
		"potassium": {SeveritySerious, "Hiperkalemi riski", "Potasyum seviyelerini izleyin"},
		"lithium":   {SeveritySerious, "Lityum toksisitesi", "Lityum seviyelerini izleyin"},
	},
	"digoxin": {
		"amiodarone": {SeveritySerious, "Digoksin seviyesi artar", "Digoksin dozunu yarıya indirin"},
		"verapamil":  {SeveritySerious, "Bradikardi riski", "Kalp hızı takibi"},
	},
	"statin": {
		"gemfibrozil":    {SeveritySerious, "Rabdomiyoliz riski", "Fenofibrat tercih edin"},
		"clarithromycin": {SeveritySerious, "CYP3A4 inhibisyonu", "Azitromisin tercih edin"},
	},
	"sildenafil": {
		"nitrate": {SeverityContraindicated, "Ciddi hipotansiyon", "Kesinlikle birlikte kullanmayın"},
	},
}

// drugClasses lists class tags in a fixed order; class expansion tries them in this order
var drugClasses = map[string][]string{
	"aspirin":       {"nsaid", "antiplatelet"},
	"ibuprofen":     {"nsaid"},
	"naproxen":      {"nsaid"},
	"warfarin":      {"anticoagulant"},
	"fluoxetine":    {"ssri"},
	"sertraline":    {"ssri"},
	"paroxetine":    {"ssri"},
	"escitalopram":  {"ssri"},
	"phenelzine":    {"maoi"},
	"lisinopril":    {"ace_inhibitor"},
	"enalapril":     {"ace_inhibitor"},
	"ramipril":      {"ace_inhibitor"},
	"atorvastatin":  {"statin"},
	"simvastatin":   {"statin"},
	"rosuvastatin":  {"statin"},
	"sildenafil":    {"pde5_inhibitor"},
	"tadalafil":     {"pde5_inhibitor"},
	"nitroglycerin": {"nitrate"},
	"isosorbide":    {"nitrate"},
	"amiodarone":    {"antiarrhythmic"},
	"digoxin":       {"cardiac_glycoside"},
	"verapamil":     {"calcium_blocker"},
	"tramadol":      {"opioid"},
	"lithium":       {"mood_stabilizer"},
}

var alternatives = map[string][]string{
	"ibuprofen":      {"paracetamol", "topical NSAID"},
	"aspirin":        {"paracetamol"},
	"omeprazole":     {"pantoprazole", "famotidine"},
	"clarithromycin": {"azithromycin"},
	"gemfibrozil":    {"fenofibrate"},
}

// Interaction returns the rule recorded under from → to
func Interaction(from, to string) (InteractionRule, bool) {
	rule, ok := interactionRules[from][to]
	return rule, ok
}

// DrugClasses returns the class tags of a drug, nil when unclassified
func DrugClasses(name string) []string {
	return slices.Clone(drugClasses[name])
}

// Alternatives returns safer substitutes for a drug, nil when none are listed
func Alternatives(name string) []string {
	return slices.Clone(alternatives[name])
}

// InteractionRuleCount is the number of pairwise rules, for health reporting
func InteractionRuleCount() int {
	n := 0
	for _, m := range interactionRules {
		n += len(m)
	}
	return n
}
