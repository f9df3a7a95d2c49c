package reference

import "slices"

// PediatricDose is a per-kilogram dosing rule
type PediatricDose struct {
	Dose      float64 // per kg, per dose
	Unit      string
	Frequency string
	MaxDaily  float64 // per kg, per day
	Notes     string
}

// RenalAdjustment maps each renal category to a recommendation
type RenalAdjustment struct {
	Normal   string
	Mild     string
	Moderate string
	Severe   string
	Notes    string
}

// For returns the recommendation for a renal category name
func (r RenalAdjustment) For(category string) string {
	switch category {
	case "normal":
		return r.Normal
	case "mild":
		return r.Mild
	case "moderate":
		return r.Moderate
	case "severe":
		return r.Severe
	}
	return ""
}

// HepaticAdjustment maps each Child-Pugh class to a recommendation
type HepaticAdjustment struct {
	ChildA string
	ChildB string
	ChildC string
	Notes  string
}

// For returns the recommendation for class "A", "B" or "C"
func (h HepaticAdjustment) For(class string) (string, bool) {
	switch class {
	case "A":
		return h.ChildA, true
	case "B":
		return h.ChildB, true
	case "C":
		return h.ChildC, true
	}
	return "", false
}

var pediatricDoses = map[string]PediatricDose{
	"paracetamol":    {15, "mg/kg", "4-6 saatte bir", 60, "Maks 4g/gün"},
	"ibuprofen":      {10, "mg/kg", "6-8 saatte bir", 40, "6 aydan büyük"},
	"amoxicillin":    {25, "mg/kg", "8 saatte bir", 100, "Yüksek doz 80-90mg/kg"},
	"azithromycin":   {10, "mg/kg", "Günde tek doz", 10, "1. gün, sonra 5mg/kg"},
	"cefalexin":      {25, "mg/kg", "6-8 saatte bir", 100, ""},
	"clarithromycin": {7.5, "mg/kg", "12 saatte bir", 15, "Maks 500mg x2"},
	"prednisolone":   {1, "mg/kg", "Günde tek doz", 2, "Kısa süreli"},
	"ondansetron":    {0.15, "mg/kg", "8 saatte bir", 0.45, "Maks 8mg/doz"},
	"cetirizine":     {0.25, "mg/kg", "Günde tek doz", 0.25, "Maks 10mg"},
	"omeprazole":     {1, "mg/kg", "Günde tek doz", 1, "Maks 20mg"},
}

var renalAdjustments = map[string]RenalAdjustment{
	"metformin":      {"100%", "100%", "50%", "Kontraendike", "Laktik asidoz"},
	"gabapentin":     {"300-600mg x3", "200-700mg x2", "200-700mg/gün", "100-300mg/gün", "Aralık ayarlayın"},
	"pregabalin":     {"150-300mg x2", "75-150mg x2", "25-75mg x2", "25-75mg/gün", "Düşük başla"},
	"amoxicillin":    {"100%", "100%", "50-75%", "25-50%", "Aralık uzat"},
	"ciprofloxacin":  {"100%", "100%", "50-75%", "50%", "Her 18-24s"},
	"levofloxacin":   {"100%", "100%", "50%", "25%", "QT izle"},
	"acyclovir":      {"100%", "100%", "50% 12-24s", "50% 24s", "IV dikkatli"},
	"digoxin":        {"0.125-0.25mg", "0.125mg", "0.0625-0.125mg", "0.0625mg gün aşırı", "Düzey takibi"},
	"methotrexate":   {"100%", "75%", "50%", "Kontraendike", "Toksisite"},
	"lithium":        {"100%", "75%", "50%", "Kontraendike", "Düzey takibi"},
	"allopurinol":    {"300mg", "200mg", "100mg", "100mg gün aşırı", "Birikim"},
	"atenolol":       {"100%", "50%", "25-50%", "25%", "Bradikardi"},
	"lisinopril":     {"100%", "75%", "50%", "25-50%", "Hiperkalemi"},
	"spironolactone": {"100%", "Dikkatli", "Kaçının", "Kontraendike", "Hiperkalemi"},
	"nsaid":          {"100%", "Dikkatli", "Kaçının", "Kontraendike", "Böbrek hasarı"},
	"morphine":       {"100%", "75%", "50%", "25-50%", "Metabolit birikir"},
	"tramadol":       {"100%", "100%", "50%", "25%", "Nöbet riski"},
}

var hepaticAdjustments = map[string]HepaticAdjustment{
	"paracetamol":   {"2g/gün", "2g/gün kısa", "Kaçının", "Hepatotoksisite"},
	"diazepam":      {"%50", "%25-50", "Kaçının", "Birikim"},
	"warfarin":      {"INR takibi", "Düşük doz", "Kaçının", "Faktör azalmış"},
	"statins":       {"Azaltılmış", "Kaçının", "Kontraendike", "Hepatotoksisite"},
	"metformin":     {"Normal", "Dikkatli", "Kontraendike", "Laktik asidoz"},
	"tramadol":      {"Normal", "50mg 12s", "Kullanmayın", "Metabolizma"},
	"opioids":       {"%50-75", "%25-50", "%25", "Ensefalopati"},
	"nsaid":         {"Dikkatli", "Kaçının", "Kontraendike", "GI kanama ve hepatotoksisite"},
	"dexketoprofen": {"Dikkatli", "Kaçının", "Kontraendike", "NSAID - GI kanama riski"},
	"ibuprofen":     {"Düşük doz", "Kaçının", "Kontraendike", "NSAID - hepatotoksisite"},
	"naproxen":      {"Düşük doz", "Kaçının", "Kontraendike", "NSAID - GI kanama"},
	"diclofenac":    {"Kaçının", "Kontraendike", "Kontraendike", "Hepatotoksisite yüksek"},
	"flurbiprofen":  {"Dikkatli", "Kaçının", "Kontraendike", "NSAID - Majezik"},
	"omeprazole":    {"Normal", "%50", "%25", "Hepatik metabolizma"},
	"pantoprazole":  {"Normal", "Normal", "%50", "PPI - güvenli"},
}

// nsaids fall back to the "nsaid" renal rule when they have no entry of their own
var nsaids = []string{"ibuprofen", "naproxen", "diclofenac", "dexketoprofen", "flurbiprofen"}

// NSAIDClass is the adjustment key shared by the NSAID family
const NSAIDClass = "nsaid"

func PediatricDoseFor(name string) (PediatricDose, bool) {
	d, ok := pediatricDoses[name]
	return d, ok
}

func RenalAdjustmentFor(name string) (RenalAdjustment, bool) {
	a, ok := renalAdjustments[name]
	return a, ok
}

func HepaticAdjustmentFor(name string) (HepaticAdjustment, bool) {
	a, ok := hepaticAdjustments[name]
	return a, ok
}

// IsNSAID reports whether a generic name is in the NSAID family list
func IsNSAID(name string) bool {
	return slices.Contains(nsaids, name)
}

// DoseTableSizes reports entry counts of the pediatric, renal and hepatic tables
func DoseTableSizes() (pediatric, renal, hepatic int) {
	return len(pediatricDoses), len(renalAdjustments), len(hepaticAdjustments)
}
