package langprint

import (
	"fmt"
	"io"
	"time"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/export"
)

// Dimensions is the length of every profile vector: 27 symbol classes squared.
const Dimensions = bigram.Slots

// LanguageProfile is a stored profile with its provenance.
type LanguageProfile struct {
	Tag          string
	Base         string // primary language subtag, e.g. "pt" for "pt-BR"
	Source       string
	SampleLength int // characters
	Pairs        int
	RunID        string
	CreatedAt    time.Time
	Vector       []float64
}

func fromInternalProfile(lp fingerprint.LanguageProfile) LanguageProfile {
	return LanguageProfile{
		Tag:          lp.Tag().String(),
		Base:         lp.Tag().Base(),
		Source:       lp.Source(),
		SampleLength: lp.SampleLength(),
		Pairs:        lp.Pairs(),
		RunID:        lp.RunID(),
		CreatedAt:    time.UnixMilli(lp.CreatedAt()).UTC(),
		Vector:       lp.Profile().Slice(),
	}
}

// Format is a table interchange format.
type Format string

// Supported table formats.
const (
	FormatJSON Format = Format(export.JSON)
	FormatJS   Format = Format(export.JS)
	FormatYAML Format = Format(export.YAML)
)

// Table maps language tags to profile vectors, the input of a classifier.
type Table map[string][]float64

func fromInternalTable(t fingerprint.Table) Table {
	return Table(t.Vectors())
}

// Encode writes the table in the given format.
func (t Table) Encode(w io.Writer, format Format) error {
	f, err := export.ParseFormat(string(format))
	if err != nil {
		return err
	}
	internal, err := fingerprint.FromVectors(t)
	if err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return export.Encode(w, internal, f)
}

// DecodeTable reads a table written by Table.Encode or the langprint CLI.
func DecodeTable(r io.Reader, format Format) (Table, error) {
	f, err := export.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	t, err := export.Decode(r, f)
	if err != nil {
		return nil, err
	}
	return fromInternalTable(t), nil
}
