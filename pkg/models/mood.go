package models

// TotalRecordName is the class name carried by the corpus-wide summary record.
const TotalRecordName = "--Total--"

// Factors holds the four MOOD factors. Each is in [0, 1], rounded to two
// decimals, and 0 when its denominator is 0.
type Factors struct {
	MIF float64 `json:"mif" yaml:"mif" toon:"mif"`
	MHF float64 `json:"mhf" yaml:"mhf" toon:"mhf"`
	AIF float64 `json:"aif" yaml:"aif" toon:"aif"`
	AHF float64 `json:"ahf" yaml:"ahf" toon:"ahf"`
}

// MetricRecord is one line of the report: a class, or the --Total-- summary
// (which has no DIT/NOC).
type MetricRecord struct {
	ClassName string  `json:"cls" yaml:"cls" toon:"cls"`
	Path      string  `json:"path,omitempty" yaml:"path,omitempty" toon:"path,omitempty"`
	DIT       *int    `json:"dit,omitempty" yaml:"dit,omitempty" toon:"dit,omitempty"`
	NOC       *int    `json:"noc,omitempty" yaml:"noc,omitempty" toon:"noc,omitempty"`
	MIF       float64 `json:"mif" yaml:"mif" toon:"mif"`
	MHF       float64 `json:"mhf" yaml:"mhf" toon:"mhf"`
	AIF       float64 `json:"aif" yaml:"aif" toon:"aif"`
	AHF       float64 `json:"ahf" yaml:"ahf" toon:"ahf"`
}

// NewClassRecord builds the record for one class.
func NewClassRecord(name, path string, dit, noc int, f Factors) MetricRecord {
	return MetricRecord{
		ClassName: name,
		Path:      path,
		DIT:       &dit,
		NOC:       &noc,
		MIF:       f.MIF,
		MHF:       f.MHF,
		AIF:       f.AIF,
		AHF:       f.AHF,
	}
}

// NewTotalRecord builds the --Total-- record.
func NewTotalRecord(f Factors) MetricRecord {
	return MetricRecord{
		ClassName: TotalRecordName,
		MIF:       f.MIF,
		MHF:       f.MHF,
		AIF:       f.AIF,
		AHF:       f.AHF,
	}
}

// IsTotal reports whether r is the corpus-wide summary record.
func (r MetricRecord) IsTotal() bool {
	return r.DIT == nil && r.NOC == nil && r.ClassName == TotalRecordName
}

// MoodCounts are the raw set cardinalities behind one class's MOOD factors.
type MoodCounts struct {
	MethodsTotal         int `json:"m_total"`
	MethodsHidden        int `json:"m_hidden"`
	MethodsOverridden    int `json:"m_overridden"`
	MethodsNotOverridden int `json:"m_not_overridden"`
	MethodsOriginal      int `json:"m_original"`
	AttrsTotal           int `json:"a_total"`
	AttrsHidden          int `json:"a_hidden"`
	AttrsClassOnly       int `json:"a_class_only"`
	AttrsNotOverridden   int `json:"a_not_overridden"`
}
