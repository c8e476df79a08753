package mood

import (
	"sort"
	"time"

	"github.com/panbanda/mood/pkg/models"
)

// ClassMetrics holds DIT, NOC and the MOOD factors of a single class.
type ClassMetrics struct {
	ClassName string `json:"class_name"`
	Path      string `json:"path,omitempty"`
	Line      uint32 `json:"line,omitempty"`

	// Depth of Inheritance Tree along the last resolvable base
	DIT int `json:"dit"`

	// Number of Children (base references naming this class)
	NOC int `json:"noc"`

	models.Factors

	Counts    models.MoodCounts `json:"counts"`
	Breakdown *MemberBreakdown  `json:"breakdown,omitempty"`
}

// Analysis is the full result of one run.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Classes     []ClassMetrics `json:"classes"`
	Totals      Totals         `json:"totals"`
	Total       models.Factors `json:"total"`
}

// Records returns the report records: one per class in the current order,
// then the --Total-- record.
func (a *Analysis) Records() []models.MetricRecord {
	records := make([]models.MetricRecord, 0, len(a.Classes)+1)
	for _, cls := range a.Classes {
		records = append(records, models.NewClassRecord(cls.ClassName, cls.Path, cls.DIT, cls.NOC, cls.Factors))
	}
	return append(records, models.NewTotalRecord(a.Total))
}

// MaxDIT returns the deepest DIT in the analysis.
func (a *Analysis) MaxDIT() int {
	maxDIT := 0
	for _, cls := range a.Classes {
		if cls.DIT > maxDIT {
			maxDIT = cls.DIT
		}
	}
	return maxDIT
}

// SortBy orders classes by the named metric, descending; ties keep their
// load order. "name" sorts ascending by class name. Unknown keys leave the
// load order untouched.
func (a *Analysis) SortBy(key string) {
	var less func(x, y ClassMetrics) bool
	switch key {
	case "name":
		less = func(x, y ClassMetrics) bool { return x.ClassName < y.ClassName }
	case "dit":
		less = func(x, y ClassMetrics) bool { return x.DIT > y.DIT }
	case "noc":
		less = func(x, y ClassMetrics) bool { return x.NOC > y.NOC }
	case "mif":
		less = func(x, y ClassMetrics) bool { return x.MIF > y.MIF }
	case "mhf":
		less = func(x, y ClassMetrics) bool { return x.MHF > y.MHF }
	case "aif":
		less = func(x, y ClassMetrics) bool { return x.AIF > y.AIF }
	case "ahf":
		less = func(x, y ClassMetrics) bool { return x.AHF > y.AHF }
	default:
		return
	}
	sort.SliceStable(a.Classes, func(i, j int) bool {
		return less(a.Classes[i], a.Classes[j])
	})
}
