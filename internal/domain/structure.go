package domain

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Structure identifies one of the six legal/ownership structures being compared.
type Structure int

const (
	SoleProprietor Structure = iota
	Holding
	PersonalFund
	SoleProprietorFund
	HoldingFund
	PersonalFundFund
)

// AllStructures lists every structure in display order.
var AllStructures = []Structure{
	SoleProprietor,
	Holding,
	PersonalFund,
	SoleProprietorFund,
	HoldingFund,
	PersonalFundFund,
}

type structureInfo struct {
	id      string
	name    string
	label   string // label used by the original web form
	aliases []string
}

var structureTable = map[Structure]structureInfo{
	SoleProprietor:     {"sole_proprietor", "Sole proprietor", "ИП", []string{"ip", "sp"}},
	Holding:            {"holding", "LLC / Holding", "ООО / Холдинг", []string{"llc", "ooo"}},
	PersonalFund:       {"personal_fund", "Personal fund", "Личный фонд (ЛФ)", []string{"pf", "lf"}},
	SoleProprietorFund: {"sole_proprietor_fund", "Sole proprietor + fund", "ИП с ЗПИФ", []string{"ip_zpif", "sp_fund"}},
	HoldingFund:        {"holding_fund", "LLC / Holding + fund", "ООО / Холдинг с ЗПИФ", []string{"llc_fund", "ooo_zpif"}},
	PersonalFundFund:   {"personal_fund_fund", "Personal fund + fund", "ЛФ с ЗПИФ", []string{"pf_fund", "lf_zpif"}},
}

// ID returns the stable machine identifier.
func (s Structure) ID() string {
	if info, ok := structureTable[s]; ok {
		return info.id
	}
	return fmt.Sprintf("structure(%d)", int(s))
}

// Name returns the English display name.
func (s Structure) Name() string {
	if info, ok := structureTable[s]; ok {
		return info.name
	}
	return s.ID()
}

// Label returns the Russian label shown on the original form.
func (s Structure) Label() string {
	if info, ok := structureTable[s]; ok {
		return info.label
	}
	return s.ID()
}

func (s Structure) String() string { return s.Name() }

// Valid reports whether s is one of the six known structures.
func (s Structure) Valid() bool {
	_, ok := structureTable[s]
	return ok
}

// ParseStructure resolves an id, display name, label or alias (case-insensitive).
func ParseStructure(name string) (Structure, bool) {
	n := normalizeStructureName(name)
	if n == "" {
		return 0, false
	}
	for _, s := range AllStructures {
		info := structureTable[s]
		if n == info.id || n == normalizeStructureName(info.name) || n == normalizeStructureName(info.label) {
			return s, true
		}
		for _, a := range info.aliases {
			if n == a {
				return s, true
			}
		}
	}
	return 0, false
}

func normalizeStructureName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// MarshalText encodes the structure by id; used by JSON and YAML.
func (s Structure) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown structure %d", int(s))
	}
	return []byte(s.ID()), nil
}

// UnmarshalText accepts anything ParseStructure accepts.
func (s *Structure) UnmarshalText(text []byte) error {
	parsed, ok := ParseStructure(string(text))
	if !ok {
		return fmt.Errorf("unknown structure %q", string(text))
	}
	*s = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Structure) MarshalYAML() (interface{}, error) {
	return s.ID(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Structure) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return s.UnmarshalText([]byte(raw))
}
