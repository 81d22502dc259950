package core

import (
	"slices"
	"strconv"
	"strings"
)

// Catalog holds the fixed vocabularies that imported rows are checked against.
type Catalog struct {
	Schools     []string `yaml:"schools"`
	Departments []string `yaml:"departments"`
	GradeLevels []int    `yaml:"grade_levels"`
}

// DefaultCatalog returns the built-in site codes, department tags and grades.
func DefaultCatalog() Catalog {
	return Catalog{
		Schools: []string{"wlhs", "wvhs"},
		Departments: []string{
			"admin", "athletics", "activities", "arts", "counseling", "cte",
			"english", "math", "pe", "science", "social-studies", "world-languages",
		},
		GradeLevels: []int{9, 10, 11, 12},
	}
}

// WithDefaults fills empty vocabularies from DefaultCatalog and lower-cases
// the string entries.
func (c Catalog) WithDefaults() Catalog {
	def := DefaultCatalog()
	if len(c.Schools) == 0 {
		c.Schools = def.Schools
	}
	if len(c.Departments) == 0 {
		c.Departments = def.Departments
	}
	if len(c.GradeLevels) == 0 {
		c.GradeLevels = def.GradeLevels
	}
	c.Schools = lowerAll(c.Schools)
	c.Departments = lowerAll(c.Departments)
	return c
}

// HasSchool reports whether code (any case) is an accepted site code.
func (c Catalog) HasSchool(code string) bool {
	return slices.Contains(c.Schools, strings.ToLower(code))
}

// HasDepartment reports whether tag (any case) is an accepted department.
func (c Catalog) HasDepartment(tag string) bool {
	return slices.Contains(c.Departments, strings.ToLower(tag))
}

// HasGrade reports whether grade is admissible.
func (c Catalog) HasGrade(grade int) bool {
	return slices.Contains(c.GradeLevels, grade)
}

func (c Catalog) gradeList() string {
	parts := make([]string, len(c.GradeLevels))
	for i, g := range c.GradeLevels {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ", ")
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
