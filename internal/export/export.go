// Package export encodes and decodes the tag -> profile table in interchange formats.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/langprint/internal/domain"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
)

// Format names an interchange format.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	// JS is a script assignment consumed by the browser-side classifier.
	JS   Format = "js"
	YAML Format = "yaml"
)

// JSVariable is the global the JS format assigns the table to.
const JSVariable = "markoswitch_frequencies"

// ParseFormat validates a format name. Empty means JSON; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, JS, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("format %q: %w", s, domain.ErrUnsupportedFormat)
	}
}

// ContentType returns the media type for f.
func (f Format) ContentType() string {
	switch f {
	case JS:
		return "application/javascript"
	case YAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

// Encode writes table to w in format f. Keys are written in sorted order.
func Encode(w io.Writer, table fingerprint.Table, f Format) error {
	switch f {
	case JSON:
		return encodeJSON(w, table)
	case JS:
		if _, err := io.WriteString(w, JSVariable+"="); err != nil {
			return fmt.Errorf("write js prefix: %w", err)
		}
		return encodeJSON(w, table)
	case YAML:
		return encodeYAML(w, table)
	default:
		return fmt.Errorf("encode %q: %w", f, domain.ErrUnsupportedFormat)
	}
}

// encodeJSON writes one JSON object followed by a newline. encoding/json sorts map keys.
func encodeJSON(w io.Writer, table fingerprint.Table) error {
	if err := json.NewEncoder(w).Encode(table.Vectors()); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// encodeYAML writes a mapping of tag to a flow-style sequence, one line per language.
func encodeYAML(w io.Writer, table fingerprint.Table) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, tag := range table.Tags() {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range table[tag] {
			seq.Content = append(seq.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Value: strconv.FormatFloat(v, 'g', -1, 64),
			})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: tag, Style: yaml.DoubleQuotedStyle},
			seq,
		)
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

// Decode reads a table in format f and validates every tag and profile.
func Decode(r io.Reader, f Format) (fingerprint.Table, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	var vectors map[string][]float64
	switch f {
	case JSON:
		err = json.Unmarshal(data, &vectors)
	case JS:
		var body []byte
		body, err = stripJSAssignment(data)
		if err == nil {
			err = json.Unmarshal(body, &vectors)
		}
	case YAML:
		err = yaml.Unmarshal(data, &vectors)
	default:
		return nil, fmt.Errorf("decode %q: %w", f, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s table: %w: %w", f, domain.ErrInvalidProfile, err)
	}

	for tag := range vectors {
		if _, err := language.NewTag(tag); err != nil {
			return nil, fmt.Errorf("decode %s table: %w", f, err)
		}
	}
	table, err := fingerprint.FromVectors(vectors)
	if err != nil {
		return nil, fmt.Errorf("decode %s table: %w", f, err)
	}
	return table, nil
}

func stripJSAssignment(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	prefix := []byte(JSVariable + "=")
	if !bytes.HasPrefix(data, prefix) {
		return nil, fmt.Errorf("missing %s= assignment", JSVariable)
	}
	data = bytes.TrimPrefix(data, prefix)
	return bytes.TrimSuffix(bytes.TrimSpace(data), []byte(";")), nil
}
