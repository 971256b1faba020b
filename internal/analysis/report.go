package analysis

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Report file format: one <result> element per analysis target, each
// carrying a sum of products and optional probability and importance
// sections.

type xmlReport struct {
	XMLName xml.Name    `xml:"riskview-report"`
	Results []xmlResult `xml:"result"`
}

type xmlResult struct {
	Gate            string `xml:"gate,attr"`
	InitiatingEvent string `xml:"initiating-event,attr"`
	Sequence        string `xml:"sequence,attr"`

	Products    []xmlProduct `xml:"sum-of-products>product"`
	Probability *struct {
		Value float64 `xml:"value,attr"`
	} `xml:"probability"`
	Importance []xmlImportanceRecord `xml:"importance>record"`
}

type xmlProduct struct {
	Probability float64      `xml:"probability,attr"`
	Literals    []xmlLiteral `xml:"literal"`
}

type xmlLiteral struct {
	Event      string `xml:"event,attr"`
	Complement bool   `xml:"complement,attr"`
}

type xmlImportanceRecord struct {
	Event      string  `xml:"event,attr"`
	Occurrence float64 `xml:"occurrence,attr"`
	MIF        float64 `xml:"mif,attr"`
	CIF        float64 `xml:"cif,attr"`
	DIF        float64 `xml:"dif,attr"`
	RAW        float64 `xml:"raw,attr"`
	RRW        float64 `xml:"rrw,attr"`
}

// LoadReport parses a report file into result entries, preserving input
// order throughout.
func LoadReport(path string) ([]ResultEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer f.Close()

	var report xmlReport
	if err := xml.NewDecoder(f).Decode(&report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}

	entries := make([]ResultEntry, 0, len(report.Results))
	for _, xr := range report.Results {
		entry, err := convertResult(xr)
		if err != nil {
			return nil, fmt.Errorf("report %s: %w", path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func convertResult(xr xmlResult) (ResultEntry, error) {
	var entry ResultEntry

	switch {
	case xr.Gate != "" && xr.InitiatingEvent == "":
		entry.Target = GateTarget(xr.Gate)
	case xr.Gate == "" && xr.InitiatingEvent != "" && xr.Sequence != "":
		entry.Target = SequenceTarget(xr.InitiatingEvent, xr.Sequence)
	default:
		return entry, fmt.Errorf("result needs either a gate or an initiating-event/sequence pair")
	}

	products := make([]Product, 0, len(xr.Products))
	for _, xp := range xr.Products {
		literals := make([]Literal, 0, len(xp.Literals))
		for _, xl := range xp.Literals {
			if xl.Event == "" {
				return entry, fmt.Errorf("literal without an event in result %q", xr.Gate)
			}
			literals = append(literals, Literal{EventID: xl.Event, Complement: xl.Complement})
		}
		products = append(products, Product{Literals: literals, Probability: xp.Probability})
	}
	entry.FaultTree = &FaultTreeAnalysis{Products: products}

	if xr.Probability != nil {
		entry.Probability = &ProbabilityAnalysis{TotalProbability: xr.Probability.Value}
	}

	if len(xr.Importance) > 0 {
		records := make([]ImportanceRecord, 0, len(xr.Importance))
		for _, xi := range xr.Importance {
			records = append(records, ImportanceRecord{
				EventID:    xi.Event,
				Occurrence: xi.Occurrence,
				MIF:        xi.MIF,
				CIF:        xi.CIF,
				DIF:        xi.DIF,
				RAW:        xi.RAW,
				RRW:        xi.RRW,
			})
		}
		entry.Importance = &ImportanceAnalysis{Records: records}
	}

	return entry, nil
}
