// Package reference holds the static drug, dosing and disease tables. They are
// built once at start-up and exposed only through accessors returning copies.
package reference

// drugAliases maps Turkish spellings and brand names (already in key form:
// lowercase ASCII, underscores) to generic names. Every target is itself a key
// form that is either absent from this table or maps to itself.
var drugAliases = map[string]string{
	// ağrı kesiciler
	"parol":        "paracetamol",
	"tylol":        "paracetamol",
	"parasetamol":  "paracetamol",
	"asetaminofen": "acetaminophen",
	"tylenol":      "paracetamol",
	"vermidon":     "paracetamol",
	"minoset":      "paracetamol",
	"calpol":       "paracetamol",
	"arveles":      "dexketoprofen",
	"dexday":       "dexketoprofen",
	"deksalgin":    "dexketoprofen",
	"majezik":      "flurbiprofen",
	"maximus":      "flurbiprofen",
	"nurofen":      "ibuprofen",
	"advil":        "ibuprofen",
	"brufen":       "ibuprofen",
	"apranax":      "naproxen",
	"naprosyn":     "naproxen",
	"aprolojik":    "naproxen",
	"diklofenak":   "diclofenac",
	"voltaren":     "diclofenac",
	"dolorex":      "diclofenac",
	"dikloron":     "diclofenac",
	"kataflam":     "diclofenac",
	"etol":         "etodolac",
	"tilcotil":     "tenoxicam",
	"felden":       "piroxicam",
	"a-ferin":      "paracetamol_chlorpheniramine",
	"theraflu":     "paracetamol_phenylephrine",
	"nurofen_cold": "ibuprofen_pseudoephedrine",
	"buscopan":     "hyoscine",
	"tramadol":     "tramadol",
	"contramal":    "tramadol",
	"ultram":       "tramadol",

	// antibiyotikler
	"largopen":       "amoxicillin",
	"alfoxil":        "amoxicillin",
	"amoklavin":      "amoxicillin-clavulanate",
	"augmentin":      "amoxicillin_clavulanate",
	"klavunat":       "amoxicillin_clavulanate",
	"bioment":        "amoxicillin_clavulanate",
	"kroksileks":     "amoxicillin_clavulanate",
	"azitromisin":    "azithromycin",
	"zitromax":       "azithromycin",
	"azitro":         "azithromycin",
	"klaritromisin":  "clarithromycin",
	"klacid":         "clarithromycin",
	"siprofloksasin": "ciprofloxacin",
	"cipro":          "ciprofloxacin",
	"ciprasid":       "ciprofloxacin",
	"levofloksasin":  "levofloxacin",
	"tavanic":        "levofloxacin",
	"infex":          "cefpodoxime",
	"sefak":          "cefaclor",
	"ceftinex":       "cefdinir",
	"monodoks":       "doxycycline",
	"tetradox":       "doxycycline",
	"bactrim":        "sulfamethoxazole_trimethoprim",
	"cleocin":        "clindamycin",

	// mide, GİS
	"nexium":      "esomeprazole",
	"esomeprazol": "esomeprazole",
	"losec":       "omeprazole",
	"omeprazol":   "omeprazole",
	"pantpas":     "pantoprazole",
	"pantoprazol": "pantoprazole",
	"controloc":   "pantoprazole",
	"pulcet":      "pantoprazole",
	"lansor":      "lansoprazole",
	"lansoprazol": "lansoprazole",
	"gaviscon":    "alginic_acid",
	"rennie":      "calcium_carbonate",
	"talcid":      "hydrotalcite",
	"motilium":    "domperidone",
	"metpamid":    "metoclopramide",
	"famodin":     "famotidine",
	"ulcuran":     "ranitidine",

	// kalp, tansiyon
	"coumadin":    "warfarin",
	"orfarin":     "warfarin",
	"plavix":      "clopidogrel",
	"pingel":      "clopidogrel",
	"klopidogrel": "clopidogrel",
	"beloc":       "metoprolol",
	"saneloc":     "metoprolol",
	"metoprolol":  "metoprolol",
	"norvasc":     "amlodipine",
	"amlodipin":   "amlodipine",
	"cozaar":      "losartan",
	"diovan":      "valsartan",
	"zestril":     "lisinopril",
	"enalapril":   "enalapril",
	"ramipril":    "ramipril",
	"delix":       "ramipril",
	"diltizem":    "diltiazem",
	"isoptin":     "verapamil",
	"cordarone":   "amiodarone",
	"aspirin":     "aspirin",
	"coraspin":    "aspirin",
	"ecopirin":    "aspirin",
	"brilinta":    "ticagrelor",
	"xarelto":     "rivaroxaban",
	"eliquis":     "apixaban",
	"pradaxa":     "dabigatran",
	"lasix":       "furosemide",
	"desal":       "furosemide",
	"aldactazide": "spironolactone_hydrochlorothiazide",

	// diyabet
	"glucophage": "metformin",
	"glukomin":   "metformin",
	"matofin":    "metformin",
	"diaformin":  "metformin",
	"diamicron":  "gliclazide",
	"gliklazit":  "gliclazide",
	"amaryl":     "glimepiride",
	"glimepirid": "glimepiride",
	"januvia":    "sitagliptin",
	"jardiance":  "empagliflozin",
	"forziga":    "dapagliflozin",
	"galvus":     "vildagliptin",
	"lantus":     "insulin_glargine",
	"humalog":    "insulin_lispro",
	"novorapid":  "insulin_aspart",

	// statinler
	"lipitor":      "atorvastatin",
	"atorvastatin": "atorvastatin",
	"crestor":      "rosuvastatin",
	"rosuvastatin": "rosuvastatin",
	"zocor":        "simvastatin",
	"simvastatin":  "simvastatin",

	// psikiyatri
	"lustral":      "sertraline",
	"sertralin":    "sertraline",
	"zoloft":       "sertraline",
	"cipralex":     "escitalopram",
	"essitalopram": "escitalopram",
	"prozac":       "fluoxetine",
	"fluoksetin":   "fluoxetine",
	"xanax":        "alprazolam",
	"alprazolam":   "alprazolam",
	"cipram":       "citalopram",
	"efexor":       "venlafaxine",
	"venegis":      "venlafaxine",
	"paxil":        "paroxetine",
	"faverin":      "fluvoxamine",
	"remeron":      "mirtazapine",
	"desyrel":      "trazodone",
	"gyrex":        "quetiapine",
	"seroquel":     "quetiapine",
	"risperdal":    "risperidone",
	"abilify":      "aripiprazole",
	"concerta":     "methylphenidate",
	"ritalin":      "methylphenidate",
	"atarax":       "hydroxyzine",
	"passiflora":   "passion_flower",

	// solunum, alerji
	"ventolin":    "salbutamol",
	"salbutamol":  "salbutamol",
	"pulmicort":   "budesonide",
	"budesonid":   "budesonide",
	"singulair":   "montelukast",
	"montelukast": "montelukast",
	"airfest":     "montelukast",
	"notta":       "montelukast",
	"aerius":      "desloratadine",
	"zyrtec":      "cetirizine",
	"crebros":     "levocetirizine",
	"seretide":    "salmeterol_fluticasone",
	"symbicort":   "formoterol_budesonide",
	"nasonex":     "mometasone",

	// PDE5 inhibitörleri
	"viagra":     "sildenafil",
	"sildenafil": "sildenafil",
	"cialis":     "tadalafil",
	"tadalafil":  "tadalafil",

	// tiroid
	"euthyrox":     "levothyroxine",
	"levotiroksin": "levothyroxine",
	"tefor":        "levothyroxine",

	// antiepileptikler
	"tegretol":      "carbamazepine",
	"karbamazepin":  "carbamazepine",
	"depakin":       "valproate",
	"valproat":      "valproate",
	"valproik_asit": "valproic_acid",

	// akne
	"roaccutane":   "isotretinoin",
	"zoretanin":    "isotretinoin",
	"aknetrent":    "isotretinoin",
	"acnegen":      "isotretinoin",
	"izotretinoin": "isotretinoin",
	"isotretinoin": "isotretinoin",
	"azelderm":     "azelaic_acid",
	"benzamycin":   "erythromycin_benzoyl_peroxide",

	// vitamin, mineral
	"benexol":          "vitamin_b_complex",
	"apikobal":         "vitamin_b_complex",
	"dodex":            "vitamin_b12",
	"devit":            "vitamin_d",
	"ferro_sanol":      "ferrous_sulfate",
	"gyno_ferro_sanol": "ferrous_sulfate_folic_acid",
	"magnecalcine":     "calcium_magnesium",
	"zinco":            "zinc_sulfate",
}

// Alias returns the generic name registered for a key-form drug name
func Alias(key string) (string, bool) {
	g, ok := drugAliases[key]
	return g, ok
}

// IsAliasTarget reports whether name is the generic target of some alias
func IsAliasTarget(name string) bool {
	_, ok := aliasTargets[name]
	return ok
}

// Aliases returns a copy of the alias table
func Aliases() map[string]string {
	out := make(map[string]string, len(drugAliases))
	for k, v := range drugAliases {
		out[k] = v
	}
	return out
}

var aliasTargets = func() map[string]struct{} {
	m := make(map[string]struct{}, len(drugAliases))
	for _, v := range drugAliases {
		m[v] = struct{}{}
	}
	return m
}()
