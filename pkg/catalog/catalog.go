// Package catalog provides the fixed vocabularies used to validate
// annotation requests: reference annotation sources with their categories,
// annotation types, hierarchy levels and the metagenome accession pattern.
//
// This is a pure package: all catalogs are compiled in and read-only.
package catalog

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Category classifies an annotation source by the kind of reference
// data it holds.
type Category int

const (
	// CategoryProtein sources hold protein similarity references.
	CategoryProtein Category = iota + 1
	// CategoryRNA sources hold ribosomal RNA references.
	CategoryRNA
	// CategoryOntology sources hold functional hierarchy references.
	CategoryOntology
)

// String returns the lowercase name of the category.
func (c Category) String() string {
	switch c {
	case CategoryProtein:
		return "protein"
	case CategoryRNA:
		return "rna"
	case CategoryOntology:
		return "ontology"
	default:
		return "unknown"
	}
}

// Type is one of the fixed annotation types a caller may request.
type Type string

const (
	TypeOrganism Type = "organism"
	TypeFunction Type = "function"
	TypeOntology Type = "ontology"
	TypeFeature  Type = "feature"
	TypeAll      Type = "all"
)

// Source describes one reference annotation database.
type Source struct {
	Name     string
	Category Category
}

// sources is the fixed catalog of known annotation sources.
var sources = map[string]Source{
	"SwissProt":  {Name: "SwissProt", Category: CategoryProtein},
	"TrEMBL":     {Name: "TrEMBL", Category: CategoryProtein},
	"RefSeq":     {Name: "RefSeq", Category: CategoryProtein},
	"GenBank":    {Name: "GenBank", Category: CategoryProtein},
	"IMG":        {Name: "IMG", Category: CategoryProtein},
	"SEED":       {Name: "SEED", Category: CategoryProtein},
	"PATRIC":     {Name: "PATRIC", Category: CategoryProtein},
	"KEGG":       {Name: "KEGG", Category: CategoryProtein},
	"eggNOG":     {Name: "eggNOG", Category: CategoryProtein},
	"RDP":        {Name: "RDP", Category: CategoryRNA},
	"Greengenes": {Name: "Greengenes", Category: CategoryRNA},
	"LSU":        {Name: "LSU", Category: CategoryRNA},
	"SSU":        {Name: "SSU", Category: CategoryRNA},
	"ITS":        {Name: "ITS", Category: CategoryRNA},
	"COG":        {Name: "COG", Category: CategoryOntology},
	"KO":         {Name: "KO", Category: CategoryOntology},
	"NOG":        {Name: "NOG", Category: CategoryOntology},
	"Subsystems": {Name: "Subsystems", Category: CategoryOntology},
}

// types is the closed set of annotation types.
var types = map[Type]struct{}{
	TypeOrganism: {},
	TypeFunction: {},
	TypeOntology: {},
	TypeFeature:  {},
	TypeAll:      {},
}

// OrganismLevels lists the taxonomic ranks accepted as filter_level
// for type=organism, from the most inclusive to the most specific.
var OrganismLevels = []string{
	"domain", "phylum", "class", "order",
	"family", "genus", "species", "strain",
}

// OntologyLevels lists the hierarchy levels accepted as filter_level
// for type=ontology.
var OntologyLevels = []string{"level1", "level2", "level3", "function"}

// accessionRe matches public metagenome accessions: the "mgm" prefix
// followed by a numeric pair, e.g. "mgm4447943.3".
var accessionRe = regexp.MustCompile(`^mgm(\d+\.\d+)$`)

// LookupSource returns the source with the given name.
func LookupSource(name string) (Source, bool) {
	src, ok := sources[name]
	return src, ok
}

// SourceNames returns all known source names in sorted order.
// Used to enumerate valid values in error messages.
func SourceNames() []string {
	return slices.Sorted(maps.Keys(sources))
}

// ValidType reports whether s names a known annotation type.
func ValidType(s string) bool {
	_, ok := types[Type(s)]
	return ok
}

// TypeNames returns all annotation type names in sorted order.
func TypeNames() []string {
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, string(t))
	}
	slices.Sort(names)
	return names
}

// Compatible reports whether a source's category is allowed for the
// requested annotation type. Ontology sources serve only type=ontology;
// protein and RNA sources serve every type except ontology.
func Compatible(t Type, src Source) bool {
	if t == TypeOntology {
		return src.Category == CategoryOntology
	}
	return src.Category != CategoryOntology
}

// ValidLevel reports whether level is a recognized hierarchy level for
// the given annotation type. Only organism and ontology types have
// hierarchy levels at all.
func ValidLevel(t Type, level string) bool {
	switch t {
	case TypeOrganism:
		return slices.Contains(OrganismLevels, level)
	case TypeOntology:
		return slices.Contains(OntologyLevels, level)
	default:
		return false
	}
}

// ValidAccession reports whether s is a well-formed metagenome accession.
func ValidAccession(s string) bool {
	return accessionRe.MatchString(s)
}

// ParseAccession splits a well-formed accession into its numeric job id
// and analysis version ("mgm4447943.3" -> 4447943, 3).
func ParseAccession(s string) (int64, int, bool) {
	m := accessionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	dot := strings.IndexByte(m[1], '.')
	id, err := strconv.ParseInt(m[1][:dot], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	version, err := strconv.Atoi(m[1][dot+1:])
	if err != nil {
		return 0, 0, false
	}
	return id, version, true
}
