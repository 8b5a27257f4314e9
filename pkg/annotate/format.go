package annotate

import (
	"fmt"
	"strings"
)

// seqColumns is the expected column count of a raw sequence record.
// Records with a different shape fall back to the whole-line rendering.
const seqColumns = 13

// Header returns the column-name header line for tab output, without a
// trailing newline. Fasta output carries no header.
func Header(p *Plan) string {
	if p.Format == FormatFasta {
		return ""
	}
	if p.Schema == SchemaSimilarity {
		return strings.Join([]string{
			"query|hit",
			"percent identity",
			"alignment length",
			"mismatches",
			"gap openings",
			"query start",
			"query end",
			"hit start",
			"hit end",
			"e-value",
			"bit score",
			"semicolon separated list of annotations",
		}, "\t")
	}
	return strings.Join([]string{
		"sequence id",
		"read id",
		"sequence",
		"semicolon separated list of annotations",
	}, "\t")
}

// RecordID composes the emitted identifier from the sample accession,
// the raw record's own id field and the source name.
func RecordID(accession, rawID, source string) string {
	return accession + "|" + rawID + "|" + source
}

// AnnotationString renders the surviving tuples: within one tuple the
// non-empty labeled components join with ";", tuples join with "||".
func AnnotationString(tuples []Tuple) string {
	parts := make([]string, 0, len(tuples))
	for _, t := range tuples {
		var comp []string
		if t.Accession != "" {
			comp = append(comp, fmt.Sprintf("accession=[%s]", t.Accession))
		}
		if t.Function != "" {
			comp = append(comp, fmt.Sprintf("function=[%s]", t.Function))
		}
		if t.Organism != "" {
			comp = append(comp, fmt.Sprintf("organism=[%s]", t.Organism))
		}
		if len(comp) == 0 {
			continue
		}
		parts = append(parts, strings.Join(comp, ";"))
	}
	return strings.Join(parts, "||")
}

// FormatRow renders one output record from a tab-split raw record line
// and the annotation string, without a trailing newline.
//
// Sequence records are expected to carry 13 columns: column 1 holds the
// sequence id and the final column the sequence itself. Similarity
// records render columns 2-12 of the raw line between the identifier
// and the annotation string.
func FormatRow(p *Plan, fields []string, ann string) string {
	id := RecordID(p.Accession, fields[0], p.Source.Name)

	if p.Schema == SchemaSimilarity {
		cols := fields[1:]
		if len(fields) > 12 {
			cols = fields[1:12]
		}
		out := make([]string, 0, len(cols)+2)
		out = append(out, id)
		out = append(out, cols...)
		out = append(out, ann)
		return strings.Join(out, "\t")
	}

	seqID, seq := sequenceFields(fields)
	if p.Format == FormatFasta {
		return ">" + id + "|" + ann + "\n" + seq
	}
	return strings.Join([]string{id, seqID, seq, ann}, "\t")
}

// Trailer returns the final count line, without a trailing newline.
func Trailer(count int) string {
	return fmt.Sprintf("Download complete. %d rows retrieved", count)
}

func sequenceFields(fields []string) (string, string) {
	if len(fields) == seqColumns {
		return fields[1], fields[seqColumns-1]
	}
	// Malformed record: emit what is there.
	if len(fields) > 1 {
		return fields[1], fields[len(fields)-1]
	}
	return "", ""
}
