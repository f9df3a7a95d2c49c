package reference

import (
	"slices"
	"strings"
)

// TurkishDrug is a drug licensed on the Turkish market
type TurkishDrug struct {
	Key               string   `json:"key"`
	Name              string   `json:"name"`
	BrandNames        []string `json:"brandNames"`
	ATCCode           string   `json:"atcCode"`
	Form              string   `json:"form"`
	ActiveIngredient  string   `json:"activeIngredient"`
	Prescription      bool     `json:"prescription"`
	Reimbursed        bool     `json:"reimbursed"`
	SGKCode           string   `json:"sgkCode"`
	Manufacturer      string   `json:"manufacturer"`
	Indication        string   `json:"indication"`
	Contraindications []string `json:"contraindications"`
	Warnings          []string `json:"warnings"`
	TurkishNotes      string   `json:"turkishNotes"`
}

// SGKRule is the reimbursement rule for an ATC group
type SGKRule struct {
	Category             string `json:"category"`
	MaxDays              int    `json:"maxDays"`
	RequiresProvisioning bool   `json:"requiresProvisioning"`
}

var turkishDrugs = []TurkishDrug{
	{
		Key: "amoksisilin", Name: "Amoksisilin",
		BrandNames: []string{"Largopen", "Alfoxil", "Amoklavin", "Augmentin"},
		ATCCode:    "J01CA04", Form: "Tablet, Süspansiyon", ActiveIngredient: "Amoksisilin trihidrat",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030092", Manufacturer: "Çeşitli",
		Indication:        "Bakteriyel enfeksiyonlar",
		Contraindications: []string{"Penisilin alerjisi"},
		Warnings:          []string{"Böbrek yetmezliğinde doz ayarlaması gerekli"},
		TurkishNotes:      "Reçeteli ilaçtır. SGK tarafından ödenir.",
	},
	{
		Key: "parasetamol", Name: "Parasetamol",
		BrandNames: []string{"Parol", "Tylol", "Minoset", "Tamol", "Geralgine-K"},
		ATCCode:    "N02BE01", Form: "Tablet, Şurup, Supozituar", ActiveIngredient: "Parasetamol",
		Prescription: false, Reimbursed: true, SGKCode: "8699569030108", Manufacturer: "Çeşitli",
		Indication:        "Ateş ve ağrı kesici",
		Contraindications: []string{"Ağır karaciğer yetmezliği"},
		Warnings:          []string{"Günlük 4g aşılmamalı", "Alkol kullanımı hepatotoksisiteyi artırır"},
		TurkishNotes:      "Reçetesiz satılır. Eczanelerde yaygın olarak bulunur.",
	},
	{
		Key: "ibuprofen", Name: "İbuprofen",
		BrandNames: []string{"Advil", "Nurofen", "Dolgit", "Brufen"},
		ATCCode:    "M01AE01", Form: "Tablet, Jel, Şurup", ActiveIngredient: "İbuprofen",
		Prescription: false, Reimbursed: true, SGKCode: "8699569030115", Manufacturer: "Çeşitli",
		Indication:        "NSAİİ - Ağrı, ateş, inflamasyon",
		Contraindications: []string{"Aktif peptik ülser", "Ağır kalp yetmezliği", "Son trimester gebelik"},
		Warnings:          []string{"Kardiyovasküler risk", "GİS kanama riski"},
		TurkishNotes:      "400mg altı dozlar reçetesiz, üstü reçeteli.",
	},
	{
		Key: "metformin", Name: "Metformin",
		BrandNames: []string{"Glucophage", "Gluformin", "Matofin", "Diaformin"},
		ATCCode:    "A10BA02", Form: "Tablet", ActiveIngredient: "Metformin hidroklorür",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030122", Manufacturer: "Çeşitli",
		Indication:        "Tip 2 Diyabet",
		Contraindications: []string{"Böbrek yetmezliği (eGFR<30)", "Metabolik asidoz", "Akut dehidrasyon"},
		Warnings:          []string{"Kontrast madde öncesi kesilmeli", "B12 eksikliği izlenmeli"},
		TurkishNotes:      "Diyabet hastalarında ilk tercih ilaç.",
	},
	{
		Key: "omeprazol", Name: "Omeprazol",
		BrandNames: []string{"Losec", "Omeprol", "Omeprazol-Sandoz", "Nexium (Esomeprazol)"},
		ATCCode:    "A02BC01", Form: "Kapsül, Enterik tablet", ActiveIngredient: "Omeprazol",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030139", Manufacturer: "Çeşitli",
		Indication:        "GÖRH, Peptik ülser, H. pylori eradikasyonu",
		Contraindications: []string{"Hipersensitivite"},
		Warnings:          []string{"Uzun süreli kullanımda Mg eksikliği", "C. difficile riski"},
		TurkishNotes:      "14 güne kadar reçetesiz verilebilir (OTC).",
	},
	{
		Key: "aspirin", Name: "Asetilsalisilik Asit",
		BrandNames: []string{"Aspirin", "Ecopirin", "Coraspin", "Kardio-ASA"},
		ATCCode:    "B01AC06", Form: "Tablet", ActiveIngredient: "Asetilsalisilik asit",
		Prescription: false, Reimbursed: true, SGKCode: "8699569030146", Manufacturer: "Bayer, Çeşitli",
		Indication:        "Antiplatelet, Ağrı kesici",
		Contraindications: []string{"Aktif kanama", "Aspirin alerjisi", "Son trimester gebelik"},
		Warnings:          []string{"GİS kanama", "Reye sendromu (çocuklarda)"},
		TurkishNotes:      "Düşük doz (100mg) kardiyak koruma için yaygın kullanılır.",
	},
	{
		Key: "warfarin", Name: "Warfarin",
		BrandNames: []string{"Coumadin", "Orfarin"},
		ATCCode:    "B01AA03", Form: "Tablet", ActiveIngredient: "Warfarin sodyum",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030153", Manufacturer: "Bristol-Myers Squibb",
		Indication:        "Antikoagülan - AF, DVT, PE, mekanik kapak",
		Contraindications: []string{"Aktif kanama", "Gebelik", "Ağır hipertansiyon"},
		Warnings:          []string{"INR takibi zorunlu", "Çok sayıda ilaç etkileşimi", "K vitamini diyet etkileşimi"},
		TurkishNotes:      "INR hedefi genelde 2-3. Sıkı takip gerektirir.",
	},
	{
		Key: "amlodipin", Name: "Amlodipin",
		BrandNames: []string{"Norvasc", "Amlodis", "Amlopin", "Amlokard"},
		ATCCode:    "C08CA01", Form: "Tablet", ActiveIngredient: "Amlodipin besilat",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030160", Manufacturer: "Pfizer, Çeşitli",
		Indication:        "Hipertansiyon, Anjina",
		Contraindications: []string{"Kardiyojenik şok", "Ağır aort stenozu"},
		Warnings:          []string{"Periferik ödem", "Greyfurt etkileşimi"},
		TurkishNotes:      "Türkiye'de en sık kullanılan antihipertansiflerden.",
	},
	{
		Key: "losartan", Name: "Losartan",
		BrandNames: []string{"Cozaar", "Losacar", "Eklips", "Sarvas"},
		ATCCode:    "C09CA01", Form: "Tablet", ActiveIngredient: "Losartan potasyum",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030177", Manufacturer: "MSD, Çeşitli",
		Indication:        "Hipertansiyon, Diyabetik nefropati, Kalp yetmezliği",
		Contraindications: []string{"Gebelik", "Bilateral renal arter stenozu"},
		Warnings:          []string{"Hiperkalemi riski", "İlk doz hipotansiyonu"},
		TurkishNotes:      "ARB sınıfı. ACE inhibitörlerine öksürük nedeniyle geçilir.",
	},
	{
		Key: "sertralin", Name: "Sertralin",
		BrandNames: []string{"Lustral", "Selectra", "Sertra"},
		ATCCode:    "N06AB06", Form: "Tablet", ActiveIngredient: "Sertralin hidroklorür",
		Prescription: true, Reimbursed: true, SGKCode: "8699569030184", Manufacturer: "Pfizer, Çeşitli",
		Indication:        "Depresyon, OKB, Panik bozukluk, TSSB",
		Contraindications: []string{"MAO inhibitörleri ile birlikte", "Pimozid ile birlikte"},
		Warnings:          []string{"İntihar düşüncesi (başlangıçta)", "Serotonin sendromu"},
		TurkishNotes:      "Türkiye'de en sık reçete edilen antidepresanlardan.",
	},
	{
		Key: "flurbiprofen", Name: "Flurbiprofen",
		BrandNames: []string{"Majezik", "Maximus", "Fiera"},
		ATCCode:    "M01AE09", Form: "Tablet, Oral Sprey, Gargara", ActiveIngredient: "Flurbiprofen",
		Prescription: true, Reimbursed: true, SGKCode: "8699514010111", Manufacturer: "Sanovel",
		Indication:        "Analjezik, Antiinflamatuar, Boğaz ağrısı",
		Contraindications: []string{"Peptik ülser", "Gebelik (3. trimester)", "NSAİİ aşırı duyarlılığı"},
		Warnings:          []string{"GİS kanama riski"},
		TurkishNotes:      "Boğaz spreyi formu (Majezik Sprey) çok yaygın kullanılır.",
	},
	{
		Key: "isotretinoin", Name: "İzotretinoin",
		BrandNames: []string{"Roaccutane", "Zoretanin", "Aknetrent", "Acnegen"},
		ATCCode:    "D10BA01", Form: "Kapsül", ActiveIngredient: "İzotretinoin",
		Prescription: true, Reimbursed: true, SGKCode: "8699693150075", Manufacturer: "Roche",
		Indication:        "Şiddetli akne",
		Contraindications: []string{"Gebelik (Kategori X)", "Emzirme", "Tetrasiklinlerle kullanım"},
		Warnings:          []string{"Teratojenik (Doğum kusuru)", "Depresyon riski", "Karaciğer enzimleri"},
		TurkishNotes:      "Reçetelidir ve özel izleme tabidir. Gebelik testi zorunludur.",
	},
	{
		Key: "deksketoprofen", Name: "Deksketoprofen",
		BrandNames: []string{"Arveles", "Dexday", "Deksalgın", "Leodex"},
		ATCCode:    "M01AE17", Form: "Tablet, Ampul", ActiveIngredient: "Deksketoprofen trometamol",
		Prescription: true, Reimbursed: true, SGKCode: "8699514090123", Manufacturer: "Menarini",
		Indication:        "Akut ağrı, Dismenore, Diş ağrısı",
		Contraindications: []string{"GİS kanama", "Astım", "Orta-ağır böbrek yetmezliği"},
		Warnings:          []string{"Kalp yetmezliğinde dikkat", "Uzun süreli kullanma"},
		TurkishNotes:      "Hızlı etkili ağrı kesici olarak çok tercih edilir.",
	},
	{
		Key: "amoksiklav", Name: "Amoksisilin + Klavulanik Asit",
		BrandNames: []string{"Augmentin", "Klavunat", "Amoklavin", "Croxilex"},
		ATCCode:    "J01CR02", Form: "Tablet, Süspansiyon", ActiveIngredient: "Amoksisilin ve enzim inhibitörü",
		Prescription: true, Reimbursed: true, SGKCode: "8699525090146", Manufacturer: "GSK",
		Indication:        "Bakteriyel Sinüzit, Otit, Pnömoni",
		Contraindications: []string{"Penisilin alerjisi", "Karaciğer fonksiyon bozukluğu"},
		Warnings:          []string{"Yemekle birlikte alınmalı", "İshal yapabilir"},
		TurkishNotes:      "Geniş spektrumlu antibiyotiktir.",
	},
}

// sgkRules is keyed by the first three characters of the ATC code
var sgkRules = map[string]SGKRule{
	"J01": {"Antibiyotik", 10, false},
	"A10": {"Antidiyabetik", 90, true},
	"C09": {"RAS blokörleri", 90, true},
	"C08": {"Kalsiyum kanal blokörleri", 90, true},
	"N06": {"Psikoanalepitikler", 30, true},
}

var defaultSGKRule = SGKRule{Category: "Diğer", MaxDays: 30, RequiresProvisioning: false}

func cloneTurkishDrug(d TurkishDrug) TurkishDrug {
	d.BrandNames = slices.Clone(d.BrandNames)
	d.Contraindications = slices.Clone(d.Contraindications)
	d.Warnings = slices.Clone(d.Warnings)
	return d
}

// TurkishDrugs returns the registry in table order
func TurkishDrugs() []TurkishDrug {
	out := make([]TurkishDrug, len(turkishDrugs))
	for i, d := range turkishDrugs {
		out[i] = cloneTurkishDrug(d)
	}
	return out
}

// SGKRuleFor returns the reimbursement rule for an ATC code's three-character group
func SGKRuleFor(atc string) SGKRule {
	if len(atc) >= 3 {
		if r, ok := sgkRules[strings.ToUpper(atc[:3])]; ok {
			return r
		}
	}
	return defaultSGKRule
}
