package reference

// FDACategory describes an FDA pregnancy letter
type FDACategory struct {
	Risk        string `json:"risk"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// LactationCategory describes a breastfeeding safety class
type LactationCategory struct {
	Description string `json:"description"`
	Color       string `json:"color"`
}

// PregnancyEntry is the locally curated pregnancy profile of a drug
type PregnancyEntry struct {
	Category  string
	Lactation string
	Notes     string
}

// CategoryUnclassified is the letter used for drugs without a known category
const CategoryUnclassified = "N"

var fdaCategories = map[string]FDACategory{
	"A": {"Güvenli", "Kontrollü insan çalışmalarında fetal risk yok", "green"},
	"B": {"Muhtemelen Güvenli", "Hayvan çalışmalarında risk yok", "green"},
	"C": {"Dikkatli Kullanım", "Fayda riskten fazlaysa kullanılabilir", "yellow"},
	"D": {"Riskli", "Fetal risk var, dikkatli kullanılabilir", "orange"},
	"X": {"Kontraendike", "Kesinlikle kullanılmamalı", "red"},
	"N": {"Sınıflandırılmamış", "Henüz sınıflandırılmamış", "gray"},
}

var lactationCategories = map[string]LactationCategory{
	"safe":            {"Emzirmede güvenle kullanılabilir", "green"},
	"caution":         {"Dikkatli kullanılmalı", "yellow"},
	"contraindicated": {"Emzirmede kullanılmamalı", "red"},
	"unknown":         {"Yeterli veri yok", "gray"},
}

var pregnancyData = map[string]PregnancyEntry{
	"folic_acid":    {"A", "safe", "Gebelikte önerilir"},
	"levothyroxine": {"A", "safe", "Hipotiroidi tedavisi devam etmeli"},
	"paracetamol":   {"B", "safe", "Gebelikte ilk tercih ağrı kesici"},
	"acetaminophen": {"B", "safe", "Paracetamol ile aynı"},
	"metformin":     {"B", "safe", "Gestasyonel diyabette kullanılabilir"},
	"amoxicillin":   {"B", "safe", "Penisilinler güvenli"},
	"azithromycin":  {"B", "safe", "Makrolidler tercih edilir"},
	"insulin":       {"B", "safe", "Gebelik diyabetinde ilk tercih"},
	"aspirin":       {"C", "caution", "3. trimesterde kaçınılmalı"},
	"ibuprofen":     {"C", "safe", "3. trimesterde kontraendike"},
	"omeprazole":    {"C", "safe", "Gerekirse kullanılabilir"},
	"sertraline":    {"C", "safe", "SSRI'lar içinde güvenli"},
	"labetalol":     {"C", "safe", "Gebelik hipertansiyonunda tercih"},
	"sildenafil":    {"B", "unknown", "Pulmoner hipertansiyonda kullanılabilir, cinsel amaçlı kullanımda veri sınırlı"},
	"tadalafil":     {"B", "unknown", "Sildenafil ile benzer"},
	"lisinopril":    {"D", "caution", "ACE inhibitörleri 2-3. trimesterde kontraendike"},
	"losartan":      {"D", "caution", "ARB'ler gebelikte kontraendike"},
	"valproic_acid": {"D", "caution", "Nöral tüp defekti riski yüksek"},
	"phenytoin":     {"D", "safe", "Fetal hidantoin sendromu riski"},
	"isotretinoin":  {"X", "contraindicated", "Ciddi teratojen"},
	"warfarin":      {"X", "safe", "Warfarin embriyopatisi"},
	"methotrexate":  {"X", "contraindicated", "Fetotoksik ve teratojenik"},
	"atorvastatin":  {"X", "contraindicated", "Statinler gebelikte kontraendike"},
	"simvastatin":   {"X", "contraindicated", "Statinler gebelikte kullanılmaz"},
}

var recommendations = map[string]string{
	"A": "Bu ilaç gebelikte güvenle kullanılabilir (Kategori A).",
	"B": "Bu ilaç gebelikte muhtemelen güvenlidir (Kategori B).",
	"C": "Fayda/risk değerlendirmesi yapılmalı (Kategori C). Doktorunuza danışın.",
	"D": "⚠️ Ciddi riskler taşır (Kategori D). Yalnızca hayati durumlarda.",
	"X": "🚫 KESİNLİKLE KULLANILMAMALIDIR (Kategori X). Teratojenik risk.",
	"N": "Mevcut sınıflandırma bilgisi yok. FDA metnini inceleyiniz.",
}

// categoryRisk orders letters for multi-drug checks: X > D > C > B > A > N
var categoryRisk = map[string]int{"X": 5, "D": 4, "C": 3, "B": 2, "A": 1, "N": 0}

func Pregnancy(name string) (PregnancyEntry, bool) {
	e, ok := pregnancyData[name]
	return e, ok
}

// FDACategoryFor returns the description of a letter, falling back to "N"
func FDACategoryFor(letter string) FDACategory {
	if c, ok := fdaCategories[letter]; ok {
		return c
	}
	return fdaCategories[CategoryUnclassified]
}

// FDACategories returns a copy of the letter table
func FDACategories() map[string]FDACategory {
	out := make(map[string]FDACategory, len(fdaCategories))
	for k, v := range fdaCategories {
		out[k] = v
	}
	return out
}

// LactationCategoryFor returns the description of a lactation class, falling back to "unknown"
func LactationCategoryFor(class string) LactationCategory {
	if c, ok := lactationCategories[class]; ok {
		return c
	}
	return lactationCategories["unknown"]
}

// Recommendation returns the Turkish advice text for a letter
func Recommendation(letter string) string {
	if r, ok := recommendations[letter]; ok {
		return r
	}
	return recommendations[CategoryUnclassified]
}

// CategoryRisk ranks a letter; unknown letters rank with "N"
func CategoryRisk(letter string) int {
	return categoryRisk[letter]
}

func PregnancyEntryCount() int {
	return len(pregnancyData)
}
