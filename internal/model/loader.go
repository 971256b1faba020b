package model

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LoadError is a structured model-loading failure: what went wrong and
// where. Line is zero when the failure is not tied to a single line.
type LoadError struct {
	File string
	Line int
	Msg  string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// Load parses the given model files in order and merges them into one
// Graph. The graph name is taken from the first file that declares one.
// Duplicate definitions across files are load errors.
func Load(paths []string) (*Graph, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files")
	}

	graph := NewGraph("")
	for _, path := range paths {
		if err := loadFile(graph, path); err != nil {
			return nil, err
		}
	}

	graph.finalize()
	return graph, nil
}

// xmlDocument mirrors the opsa-mef subset the loader understands.
type xmlDocument struct {
	XMLName     xml.Name        `xml:"opsa-mef"`
	Name        string          `xml:"name,attr"`
	FaultTrees  []xmlFaultTree  `xml:"define-fault-tree"`
	BasicEvents []xmlBasicEvent `xml:"model-data>define-basic-event"`
	HouseEvents []xmlHouseEvent `xml:"model-data>define-house-event"`
}

type xmlFaultTree struct {
	Name        string          `xml:"name,attr"`
	Gates       []xmlGate       `xml:"define-gate"`
	BasicEvents []xmlBasicEvent `xml:"define-basic-event"`
	HouseEvents []xmlHouseEvent `xml:"define-house-event"`
}

type xmlGate struct {
	Name  string `xml:"name,attr"`
	Label string `xml:"label"`

	And     *xmlFormula `xml:"and"`
	Or      *xmlFormula `xml:"or"`
	AtLeast *xmlFormula `xml:"atleast"`
	Not     *xmlFormula `xml:"not"`
	Xor     *xmlFormula `xml:"xor"`
	Nand    *xmlFormula `xml:"nand"`
	Nor     *xmlFormula `xml:"nor"`
	Null    *xmlFormula `xml:"null"`
}

type xmlBasicEvent struct {
	Name  string `xml:"name,attr"`
	Label string `xml:"label"`
	Float *struct {
		Value float64 `xml:"value,attr"`
	} `xml:"float"`
}

type xmlHouseEvent struct {
	Name     string `xml:"name,attr"`
	Label    string `xml:"label"`
	Constant *struct {
		Value string `xml:"value,attr"`
	} `xml:"constant"`
}

// xmlFormula collects child references in document order. encoding/xml
// would otherwise split gates and events into separate slices and lose
// the ordering the views depend on.
type xmlFormula struct {
	Min  int
	Refs []ChildRef
}

func (f *xmlFormula) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "min" {
			min, err := strconv.Atoi(a.Value)
			if err != nil {
				return fmt.Errorf("bad min attribute %q: %w", a.Value, err)
			}
			f.Min = min
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var kind ChildKind
			switch t.Name.Local {
			case "gate":
				kind = ChildGate
			case "basic-event":
				kind = ChildBasicEvent
			case "house-event":
				kind = ChildHouseEvent
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			name := attrValue(t, "name")
			if name == "" {
				return fmt.Errorf("<%s> reference without a name attribute", t.Name.Local)
			}
			f.Refs = append(f.Refs, ChildRef{Kind: kind, ID: name})
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func attrValue(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func loadFile(graph *Graph, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{File: path, Msg: err.Error()}
	}
	defer f.Close()

	var doc xmlDocument
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return &LoadError{File: path, Line: syn.Line, Msg: syn.Msg}
		}
		return &LoadError{File: path, Msg: err.Error()}
	}

	if graph.Name == "" {
		if doc.Name != "" {
			graph.Name = doc.Name
		} else {
			base := filepath.Base(path)
			graph.Name = base[:len(base)-len(filepath.Ext(base))]
		}
	}

	for _, xft := range doc.FaultTrees {
		ft := &FaultTree{Name: xft.Name}
		graph.FaultTrees = append(graph.FaultTrees, ft)

		for _, xg := range xft.Gates {
			gate, err := convertGate(xg)
			if err != nil {
				return &LoadError{File: path, Msg: err.Error()}
			}
			if err := graph.addGate(gate); err != nil {
				return &LoadError{File: path, Msg: err.Error()}
			}
			graph.gateTree[gate.ID] = ft.Name
		}
		for _, xbe := range xft.BasicEvents {
			if err := graph.addBasicEvent(convertBasicEvent(xbe)); err != nil {
				return &LoadError{File: path, Msg: err.Error()}
			}
		}
		for _, xhe := range xft.HouseEvents {
			if err := graph.addHouseEvent(convertHouseEvent(xhe)); err != nil {
				return &LoadError{File: path, Msg: err.Error()}
			}
		}
	}

	for _, xbe := range doc.BasicEvents {
		if err := graph.addBasicEvent(convertBasicEvent(xbe)); err != nil {
			return &LoadError{File: path, Msg: err.Error()}
		}
	}
	for _, xhe := range doc.HouseEvents {
		if err := graph.addHouseEvent(convertHouseEvent(xhe)); err != nil {
			return &LoadError{File: path, Msg: err.Error()}
		}
	}

	return nil
}

func convertGate(xg xmlGate) (*Gate, error) {
	gate := &Gate{ID: xg.Name, Label: xg.Label}

	formulas := []struct {
		conn Connective
		f    *xmlFormula
	}{
		{ConnectiveAnd, xg.And},
		{ConnectiveOr, xg.Or},
		{ConnectiveAtLeast, xg.AtLeast},
		{ConnectiveNot, xg.Not},
		{ConnectiveXor, xg.Xor},
		{ConnectiveNand, xg.Nand},
		{ConnectiveNor, xg.Nor},
		{ConnectiveNull, xg.Null},
	}

	for _, entry := range formulas {
		if entry.f == nil {
			continue
		}
		if gate.Connective != "" {
			return nil, fmt.Errorf("gate %q has more than one formula", xg.Name)
		}
		gate.Connective = entry.conn
		gate.MinNumber = entry.f.Min
		gate.Children = entry.f.Refs
	}

	if gate.Connective == "" {
		return nil, fmt.Errorf("gate %q has no formula", xg.Name)
	}
	if gate.Connective == ConnectiveAtLeast && gate.MinNumber < 1 {
		return nil, fmt.Errorf("atleast gate %q needs a positive min attribute", xg.Name)
	}
	return gate, nil
}

func convertBasicEvent(xbe xmlBasicEvent) *BasicEvent {
	be := &BasicEvent{ID: xbe.Name, Label: xbe.Label}
	if xbe.Float != nil {
		p := xbe.Float.Value
		be.Probability = &p
	}
	return be
}

func convertHouseEvent(xhe xmlHouseEvent) *HouseEvent {
	he := &HouseEvent{ID: xhe.Name, Label: xhe.Label}
	if xhe.Constant != nil {
		he.State = xhe.Constant.Value == "true"
	}
	return he
}

func (g *Graph) addGate(gate *Gate) error {
	if _, dup := g.Gates[gate.ID]; dup {
		return fmt.Errorf("duplicate gate definition %q", gate.ID)
	}
	g.Gates[gate.ID] = gate
	g.GateList = append(g.GateList, gate)
	return nil
}

func (g *Graph) addBasicEvent(be *BasicEvent) error {
	if _, dup := g.BasicEvents[be.ID]; dup {
		return fmt.Errorf("duplicate basic event definition %q", be.ID)
	}
	g.BasicEvents[be.ID] = be
	g.BasicEventList = append(g.BasicEventList, be)
	return nil
}

func (g *Graph) addHouseEvent(he *HouseEvent) error {
	if _, dup := g.HouseEvents[he.ID]; dup {
		return fmt.Errorf("duplicate house event definition %q", he.ID)
	}
	g.HouseEvents[he.ID] = he
	g.HouseEventList = append(g.HouseEventList, he)
	return nil
}

// finalize computes the top gates of each fault tree: the defined gates
// no other gate references.
func (g *Graph) finalize() {
	referenced := make(map[string]bool)
	for _, gate := range g.GateList {
		for _, c := range gate.Children {
			if c.Kind == ChildGate {
				referenced[c.ID] = true
			}
		}
	}

	// GateList preserves definition order, so top gates come out in the
	// order they were defined within each tree.
	byTree := make(map[string][]string)
	for _, gate := range g.GateList {
		if !referenced[gate.ID] {
			tree := g.gateTree[gate.ID]
			byTree[tree] = append(byTree[tree], gate.ID)
		}
	}
	for _, ft := range g.FaultTrees {
		ft.TopGates = byTree[ft.Name]
	}
}
