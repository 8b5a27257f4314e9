// Package schema provides database schema models for mganno.
// Models cover metagenome jobs, per-job alignment indices, bulk
// annotation records and the taxonomy/ontology hierarchies used for
// filter-set construction.
package schema

import (
	"time"
)

// Job stores one metagenomic dataset and its access settings.
type Job struct {
	// ID is the internal numeric job identifier.
	ID int64 `gorm:"primaryKey;autoIncrement:false"`

	// Accession is the public metagenome accession (e.g. "mgm4447943.3").
	Accession string `gorm:"type:varchar(32);uniqueIndex;not null"`

	// UUID is a v5 UUID derived from the accession.
	UUID string `gorm:"type:uuid"`

	// Version is the analysis pipeline version the job's alignment
	// rows were computed with.
	Version int `gorm:"not null"`

	// Public is true when the job is visible without authorization.
	Public bool `gorm:"not null;default:false"`

	// Owner identifies the submitting user; private jobs require the
	// caller's token to match it.
	Owner string `gorm:"type:varchar(64);index"`

	// SequenceBlob and SimilarityBlob name the content-addressed blobs
	// holding the job's raw sequence and similarity records.
	SequenceBlob   string `gorm:"type:varchar(128)"`
	SimilarityBlob string `gorm:"type:varchar(128)"`

	// UpdatedAt records the timestamp of the job's last import.
	UpdatedAt time.Time
}

// Md5 maps a hit identifier (content hash of a matched reference
// sequence) to a compact surrogate key used by alignment rows.
type Md5 struct {
	ID  int64  `gorm:"primaryKey"`
	Md5 string `gorm:"type:varchar(32);uniqueIndex;not null"`
}

// JobAlignment is one similarity-search result row for a job.
// Seek and Length locate the raw record bytes inside the job's blob;
// the numeric columns carry the quality measures the cutoffs act on.
type JobAlignment struct {
	ID int64 `gorm:"primaryKey"`

	Version int   `gorm:"not null;index:idx_job_alignments_lookup,priority:1"`
	JobID   int64 `gorm:"not null;index:idx_job_alignments_lookup,priority:2"`
	Md5ID   int64 `gorm:"not null;index:idx_job_alignments_lookup,priority:3"`

	// ExpAvg is the negative-log e-value exponent (larger is better).
	ExpAvg float64
	// IdentAvg is the average percent identity.
	IdentAvg float64
	// LenAvg is the average alignment length.
	LenAvg float64

	// Seek and Length are byte-range coordinates into the job's blob.
	// Either may be null for rows whose raw record was not indexed.
	Seek   *int64
	Length *int64
}

// Annotation is one bulk annotation record: for a hit identifier and
// source, three index-aligned arrays where position i across the arrays
// describes one (accession, function, organism) tuple. Arrays may be
// unequally populated; ontology sources carry no organisms.
type Annotation struct {
	ID     int64  `gorm:"primaryKey"`
	Md5    string `gorm:"type:varchar(32);not null;index:idx_annotations_md5_source,priority:1"`
	Source string `gorm:"type:varchar(32);not null;index:idx_annotations_md5_source,priority:2"`

	Accessions []string `gorm:"type:text[]"`
	Functions  []string `gorm:"type:text[]"`
	Organisms  []string `gorm:"type:text[]"`
}

// Taxon is one flattened taxonomic lineage; the leaf Organism column is
// the name alignment rows are annotated with. Filter sets for
// type=organism are built by matching a rank column and collecting the
// distinct organisms below the matches.
type Taxon struct {
	ID       int64  `gorm:"primaryKey"`
	Domain   string `gorm:"type:varchar(128);index"`
	Phylum   string `gorm:"type:varchar(128);index"`
	Class    string `gorm:"type:varchar(128)"`
	Order    string `gorm:"type:varchar(128);column:order_"`
	Family   string `gorm:"type:varchar(128)"`
	Genus    string `gorm:"type:varchar(128);index"`
	Species  string `gorm:"type:varchar(128);index"`
	Strain   string `gorm:"type:varchar(255)"`
	Organism string `gorm:"type:varchar(255);uniqueIndex;not null"`
}

// OntologyNode is one flattened functional-hierarchy lineage for an
// ontology source; the leaf Accession column is the identifier
// annotation arrays carry for that source.
type OntologyNode struct {
	ID        int64  `gorm:"primaryKey"`
	Source    string `gorm:"type:varchar(32);not null;index"`
	Level1    string `gorm:"type:varchar(255)"`
	Level2    string `gorm:"type:varchar(255)"`
	Level3    string `gorm:"type:varchar(255)"`
	Function  string `gorm:"type:varchar(255)"`
	Accession string `gorm:"type:varchar(64);not null;index"`
}

// TableName keeps the historical plural table name.
func (Taxon) TableName() string { return "taxa" }
