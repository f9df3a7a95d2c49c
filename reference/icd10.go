package reference

import (
	"slices"
	"strings"
)

// Disease is an ICD-10 entry with commonly prescribed drugs
type Disease struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Drugs    []string `json:"relatedDrugs"`
}

// DiseaseAlias maps a colloquial Turkish disease name to ICD-10 codes
type DiseaseAlias struct {
	Alias string
	Codes []string
}

// diseases is kept in table order; search results follow it
var diseases = []Disease{
	// kardiyovasküler
	{"I10", "Esansiyel hipertansiyon", "Kardiyovasküler", []string{"amlodipine", "lisinopril", "losartan", "metoprolol"}},
	{"I11", "Hipertansif kalp hastalığı", "Kardiyovasküler", []string{"carvedilol", "furosemid", "ace inhibitors"}},
	{"I20", "Angina pektoris", "Kardiyovasküler", []string{"nitroglycerin", "isosorbide", "beta-blockers"}},
	{"I21", "Akut miyokard enfarktüsü", "Kardiyovasküler", []string{"aspirin", "clopidogrel", "heparin"}},
	{"I48", "Atriyal fibrilasyon", "Kardiyovasküler", []string{"warfarin", "dabigatran", "rivaroxaban", "digoxin"}},
	{"I50", "Kalp yetmezliği", "Kardiyovasküler", []string{"furosemid", "spironolactone", "carvedilol", "ramipril"}},

	// endokrin
	{"E10", "Tip 1 diabetes mellitus", "Endokrin", []string{"insulin", "insulin lispro", "insulin glargine"}},
	{"E11", "Tip 2 diabetes mellitus", "Endokrin", []string{"metformin", "glimepiride", "sitagliptin", "empagliflozin"}},
	{"E03", "Hipotiroidizm", "Endokrin", []string{"levothyroxine"}},
	{"E05", "Hipertiroidizm", "Endokrin", []string{"methimazole", "propylthiouracil", "propranolol"}},
	{"E78", "Dislipidemi", "Endokrin", []string{"atorvastatin", "rosuvastatin", "fenofibrate"}},

	// solunum
	{"J06", "Akut üst solunum yolu enfeksiyonu", "Solunum", []string{"paracetamol", "ibuprofen", "amoxicillin"}},
	{"J18", "Pnömoni", "Solunum", []string{"amoxicillin-clavulanate", "azithromycin", "levofloxacin"}},
	{"J44", "KOAH", "Solunum", []string{"tiotropium", "salbutamol", "budesonide", "formoterol"}},
	{"J45", "Astım", "Solunum", []string{"salbutamol", "budesonide", "montelukast", "fluticasone"}},

	// sindirim
	{"K21", "GERD", "Sindirim", []string{"omeprazole", "pantoprazole", "esomeprazole"}},
	{"K25", "Gastrik ülser", "Sindirim", []string{"omeprazole", "sucralfate", "misoprostol"}},
	{"K29", "Gastrit", "Sindirim", []string{"omeprazole", "antacids", "h2 blockers"}},

	// nörolojik
	{"G20", "Parkinson hastalığı", "Nörolojik", []string{"levodopa", "carbidopa", "pramipexole"}},
	{"G30", "Alzheimer hastalığı", "Nörolojik", []string{"donepezil", "memantine", "rivastigmine"}},
	{"G40", "Epilepsi", "Nörolojik", []string{"valproate", "carbamazepine", "levetiracetam"}},
	{"G43", "Migren", "Nörolojik", []string{"sumatriptan", "propranolol", "topiramate"}},

	// psikiyatrik
	{"F32", "Depresif episod", "Psikiyatrik", []string{"sertraline", "escitalopram", "fluoxetine", "venlafaxine"}},
	{"F41", "Anksiyete bozuklukları", "Psikiyatrik", []string{"sertraline", "escitalopram", "alprazolam", "buspirone"}},

	// böbrek
	{"N17", "Akut böbrek yetmezliği", "Böbrek", []string{"furosemide", "dopamine"}},
	{"N18", "Kronik böbrek hastalığı", "Böbrek", []string{"erythropoietin", "sevelamer", "calcitriol"}},
	{"N39", "Üriner sistem enfeksiyonu", "Enfeksiyon", []string{"nitrofurantoin", "trimethoprim", "ciprofloxacin"}},

	// enfeksiyon
	{"A09", "Gastroenterit", "Enfeksiyon", []string{"oral rehydration", "loperamide", "ondansetron"}},

	// kas-iskelet
	{"M05", "Romatoid artrit", "Kas-iskelet", []string{"methotrexate", "sulfasalazine", "adalimumab"}},
	{"M15", "Osteoartrit", "Kas-iskelet", []string{"paracetamol", "ibuprofen", "topical NSAIDs"}},
	{"M81", "Osteoporoz", "Kas-iskelet", []string{"alendronate", "calcium", "vitamin D"}},
}

var diseaseAliases = []DiseaseAlias{
	{"diyabet", []string{"E10", "E11"}},
	{"şeker hastalığı", []string{"E10", "E11"}},
	{"seker hastaligi", []string{"E10", "E11"}},
	{"tip 1 diyabet", []string{"E10"}},
	{"tip 2 diyabet", []string{"E11"}},
	{"tansiyon", []string{"I10", "I11"}},
	{"hipertansiyon", []string{"I10", "I11"}},
	{"yüksek tansiyon", []string{"I10"}},
	{"yuksek tansiyon", []string{"I10"}},
	{"kalp", []string{"I20", "I21", "I48", "I50"}},
	{"kalp yetmezliği", []string{"I50"}},
	{"kalp yetmezligi", []string{"I50"}},
	{"kalp krizi", []string{"I21"}},
	{"enfarktüs", []string{"I21"}},
	{"enfarkus", []string{"I21"}},
	{"ritim bozukluğu", []string{"I48"}},
	{"aritmi", []string{"I48"}},
	{"göğüs ağrısı", []string{"I20"}},
	{"angina", []string{"I20"}},
	{"tiroid", []string{"E03", "E05"}},
	{"hipotiroidi", []string{"E03"}},
	{"hipertiroidi", []string{"E05"}},
	{"guatr", []string{"E03", "E05"}},
	{"kolesterol", []string{"E78"}},
	{"astım", []string{"J45"}},
	{"astim", []string{"J45"}},
	{"bronşit", []string{"J44"}},
	{"bronsit", []string{"J44"}},
	{"koah", []string{"J44"}},
	{"akciğer", []string{"J44", "J45", "J18"}},
	{"zatürre", []string{"J18"}},
	{"pnömoni", []string{"J18"}},
	{"grip", []string{"J06"}},
	{"soğuk algınlığı", []string{"J06"}},
	{"mide", []string{"K21", "K25", "K29"}},
	{"gastrit", []string{"K29"}},
	{"ülser", []string{"K25"}},
	{"reflü", []string{"K21"}},
	{"gerd", []string{"K21"}},
	{"depresyon", []string{"F32"}},
	{"anksiyete", []string{"F41"}},
	{"panik", []string{"F41"}},
	{"epilepsi", []string{"G40"}},
	{"sara", []string{"G40"}},
	{"migren", []string{"G43"}},
	{"baş ağrısı", []string{"G43"}},
	{"parkinson", []string{"G20"}},
	{"alzheimer", []string{"G30"}},
	{"bunama", []string{"G30"}},
	{"böbrek", []string{"N17", "N18"}},
	{"böbrek yetmezliği", []string{"N17", "N18"}},
	{"idrar yolu enfeksiyonu", []string{"N39"}},
	{"sistit", []string{"N39"}},
	{"romatizma", []string{"M05"}},
	{"artrit", []string{"M05", "M15"}},
	{"eklem ağrısı", []string{"M05", "M15"}},
	{"kemik erimesi", []string{"M81"}},
	{"osteoporoz", []string{"M81"}},
	{"ishal", []string{"A09"}},
	{"kusma", []string{"A09"}},
	{"gastroenterit", []string{"A09"}},
}

var diseaseIndex = func() map[string]int {
	m := make(map[string]int, len(diseases))
	for i, d := range diseases {
		m[d.Code] = i
	}
	return m
}()

func cloneDisease(d Disease) Disease {
	d.Drugs = slices.Clone(d.Drugs)
	return d
}

// ICD10 returns the entry for an exact, upper-case code
func ICD10(code string) (Disease, bool) {
	i, ok := diseaseIndex[code]
	if !ok {
		return Disease{}, false
	}
	return cloneDisease(diseases[i]), true
}

// Diseases returns every entry in table order
func Diseases() []Disease {
	out := make([]Disease, len(diseases))
	for i, d := range diseases {
		out[i] = cloneDisease(d)
	}
	return out
}

// ICD10Codes returns all codes, sorted
func ICD10Codes() []string {
	codes := make([]string, 0, len(diseases))
	for _, d := range diseases {
		codes = append(codes, d.Code)
	}
	slices.Sort(codes)
	return codes
}

// DiseaseAliases returns the alias table in definition order
func DiseaseAliases() []DiseaseAlias {
	out := make([]DiseaseAlias, len(diseaseAliases))
	for i, a := range diseaseAliases {
		out[i] = DiseaseAlias{Alias: a.Alias, Codes: slices.Clone(a.Codes)}
	}
	return out
}

// ICD10ByPrefix returns entries whose code starts with prefix, in table order
func ICD10ByPrefix(prefix string) []Disease {
	var out []Disease
	for _, d := range diseases {
		if strings.HasPrefix(d.Code, prefix) {
			out = append(out, cloneDisease(d))
		}
	}
	return out
}
