package dose

// Params are the patient inputs of a comprehensive calculation. Zero values
// mean "not given".
type Params struct {
	DrugName        string  `json:"drugName"`
	Weight          float64 `json:"weight"`
	Age             float64 `json:"age"`
	Height          float64 `json:"height"`
	SerumCreatinine float64 `json:"serumCreatinine"`
	IsFemale        bool    `json:"isFemale"`
	ChildPughClass  string  `json:"childPughClass"`
	IsPediatric     bool    `json:"isPediatric"`
}

type Calculations struct {
	Pediatric *PediatricResult `json:"pediatric,omitempty"`
	Renal     *RenalResult     `json:"renal,omitempty"`
	EGFR      *int             `json:"eGFR,omitempty"`
	CrCl      *int             `json:"crCl,omitempty"`
	Hepatic   *HepaticResult   `json:"hepatic,omitempty"`
	BSA       *float64         `json:"bsa,omitempty"`
}

type ComprehensiveResult struct {
	DrugName     string       `json:"drugName"`
	Calculations Calculations `json:"calculations"`
}

// Comprehensive runs every calculation whose inputs are present and omits
// the rest.
func Comprehensive(p Params) ComprehensiveResult {
	res := ComprehensiveResult{DrugName: p.DrugName}
	calc := &res.Calculations

	if p.IsPediatric && p.Weight > 0 {
		ped := Pediatric(p.DrugName, p.Weight)
		calc.Pediatric = &ped
	}

	if p.Age > 0 && p.SerumCreatinine > 0 {
		egfr := EGFR(p.Age, p.SerumCreatinine, p.IsFemale)
		renal := Renal(p.DrugName, float64(egfr))
		calc.EGFR = &egfr
		calc.Renal = &renal
		if p.Weight > 0 {
			crcl := CrCl(p.Age, p.Weight, p.SerumCreatinine, p.IsFemale)
			calc.CrCl = &crcl
		}
	}

	if p.ChildPughClass != "" {
		hep := Hepatic(p.DrugName, p.ChildPughClass)
		calc.Hepatic = &hep
	}

	if p.Weight > 0 && p.Height > 0 {
		bsa := roundTo(BSA(p.Weight, p.Height), 2)
		calc.BSA = &bsa
	}

	return res
}

// Estimates are pediatric doses scaled from an adult dose by the classic
// age, weight and surface area rules.
type Estimates struct {
	AdultDose float64  `json:"adultDose"`
	Young     *float64 `json:"young,omitempty"`
	Clark     *float64 `json:"clark,omitempty"`
	Fried     *float64 `json:"fried,omitempty"`
	BSA       *float64 `json:"bsa,omitempty"`
}

// EstimateInput carries whatever is known about the child
type EstimateInput struct {
	AgeYears  float64
	AgeMonths float64
	WeightKg  float64
	HeightCm  float64
}

// Estimate applies Young's (age), Clark's (weight), Fried's (infant age in
// months) and the BSA rule to adultDose. Rules lacking inputs are skipped.
func Estimate(adultDose float64, in EstimateInput) Estimates {
	est := Estimates{AdultDose: adultDose}
	set := func(v float64) *float64 {
		r := roundTo(v, 1)
		return &r
	}

	if in.AgeYears > 0 {
		est.Young = set(in.AgeYears / (in.AgeYears + 12) * adultDose)
	}
	if in.WeightKg > 0 {
		est.Clark = set(in.WeightKg / 70 * adultDose)
	}
	months := in.AgeMonths
	if months == 0 {
		months = in.AgeYears * 12
	}
	if months > 0 {
		est.Fried = set(months / 150 * adultDose)
	}
	if in.WeightKg > 0 && in.HeightCm > 0 {
		est.BSA = set(BSA(in.WeightKg, in.HeightCm) / 1.73 * adultDose)
	}
	return est
}
