// Package directory holds the fixed table of access codes known to the service.
package directory

import (
	"fmt"
	"strings"

	"medreps/internal/models"
)

const (
	DefaultManagerCode = "MANAGER@2026"
	DefaultManagerName = "Manager"
)

type Representative struct {
	Code  string   `json:"code" mapstructure:"code"`
	Name  string   `json:"name" mapstructure:"name"`
	Areas []string `json:"areas" mapstructure:"areas"`
}

var defaultRepresentatives = []Representative{
	{Code: "REP_1", Name: "Ahmed Nashaat", Areas: []string{"Gerga", "Sohag City", "El Baliana", "El Manshaa", "Dar El Salam"}},
	{Code: "REP_2", Name: "Ahmed Osman", Areas: []string{"Deshna", "Nagaa Hamady", "Farshout", "Qous", "Abou Tesht"}},
	{Code: "REP_3", Name: "Azza Moatamed", Areas: []string{"El Menia", "Samalout", "Maghagha", "Beni Mazar", "Mattay"}},
	{Code: "REP_4", Name: "Mary Hosny", Areas: []string{"Sohag City", "Tahta", "El Maragha", "Juhaynah", "Sakalta", "Tama"}},
	{Code: "REP_5", Name: "Mayar Gamal", Areas: []string{"Assuit", "Manqabad", "Manfalout", "Dayrout", "El Qusiya", "El Wadi El Gedid"}},
	{Code: "REP_6", Name: "Sara Nabil", Areas: []string{"Abou Korkas", "Dair Mouas", "Mallawi", "Minya City"}},
	{Code: "REP_7", Name: "Ahmed Hady", Areas: []string{"Qena", "Luxor", "Hurghada", "Qeft", "Naqada"}},
}

// DefaultRepresentatives returns a copy of the built-in representative table.
func DefaultRepresentatives() []Representative {
	return cloneAll(defaultRepresentatives)
}

// Directory is immutable after construction; all accessors return copies.
type Directory struct {
	managerCode string
	managerName string
	reps        []Representative
	index       map[string]int
}

func New(managerCode, managerName string, reps []Representative) (*Directory, error) {
	managerCode = strings.TrimSpace(managerCode)
	if managerCode == "" {
		return nil, fmt.Errorf("manager code required")
	}
	if managerName == "" {
		managerName = DefaultManagerName
	}

	d := &Directory{
		managerCode: managerCode,
		managerName: managerName,
		reps:        make([]Representative, 0, len(reps)),
		index:       make(map[string]int, len(reps)),
	}
	for _, rep := range reps {
		code := strings.TrimSpace(rep.Code)
		if code == "" {
			return nil, fmt.Errorf("representative %q has no code", rep.Name)
		}
		if code == managerCode {
			return nil, fmt.Errorf("representative code %s collides with manager code", code)
		}
		if _, dup := d.index[code]; dup {
			return nil, fmt.Errorf("duplicate representative code %s", code)
		}
		rep.Code = code
		d.index[code] = len(d.reps)
		d.reps = append(d.reps, clone(rep))
	}
	return d, nil
}

// Default builds the directory from the built-in table.
func Default() *Directory {
	d, err := New(DefaultManagerCode, DefaultManagerName, defaultRepresentatives)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup resolves an access code, manager first.
func (d *Directory) Lookup(code string) (models.Identity, bool) {
	if code == d.managerCode {
		return models.Identity{Code: code, Name: d.managerName, Role: models.RoleManager}, true
	}
	rep, ok := d.Representative(code)
	if !ok {
		return models.Identity{}, false
	}
	return models.Identity{
		Code:  rep.Code,
		Name:  rep.Name,
		Role:  models.RoleRepresentative,
		Areas: rep.Areas,
	}, true
}

func (d *Directory) Representative(code string) (Representative, bool) {
	i, ok := d.index[code]
	if !ok {
		return Representative{}, false
	}
	return clone(d.reps[i]), true
}

// Areas returns the served areas of code, or an empty list when the code is not a representative.
func (d *Directory) Areas(code string) []string {
	rep, ok := d.Representative(code)
	if !ok {
		return []string{}
	}
	return rep.Areas
}

func (d *Directory) Representatives() []Representative {
	return cloneAll(d.reps)
}

func (d *Directory) ManagerCode() string {
	return d.managerCode
}

func clone(rep Representative) Representative {
	areas := make([]string, len(rep.Areas))
	copy(areas, rep.Areas)
	rep.Areas = areas
	return rep
}

func cloneAll(reps []Representative) []Representative {
	out := make([]Representative, 0, len(reps))
	for _, rep := range reps {
		out = append(out, clone(rep))
	}
	return out
}
