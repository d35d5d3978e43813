package knowledge

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlTableFile is the on-disk shape of an optional Knowledge Base table
// override. Every section is optional: a section left out of the file
// keeps the package's built-in table for that section, so a deployment can
// override just, say, the drug gazetteer without re-specifying everything
// else.
type yamlTableFile struct {
	Drugs                 []string            `yaml:"drugs"`
	BrandGeneric          map[string]string   `yaml:"brand_generic"`
	DangerousCombinations []dangerousPairYAML `yaml:"dangerous_combinations"`
	Complaints            []KeywordEntry      `yaml:"complaints"`
	Diagnoses             []KeywordEntry      `yaml:"diagnoses"`
	StandardAdvice        []adviceEntryYAML   `yaml:"standard_advice"`
}

// dangerousPairYAML is the flat, order-independent encoding of a
// dangerousCombinations entry: YAML has no tuple-keyed map, so the pair is
// spelled out as two fields instead of a [drugPair] key.
type dangerousPairYAML struct {
	A      string `yaml:"a"`
	B      string `yaml:"b"`
	Reason string `yaml:"reason"`
}

// adviceEntryYAML pairs one standard-advice sentence with the transcript
// keywords that justify surfacing it, replacing the index-keyed
// adviceMapping/standardAdvice pair of built-in tables with a single list.
type adviceEntryYAML struct {
	Text     string   `yaml:"text"`
	Keywords []string `yaml:"keywords"`
}

// WithTableFile overrides NewBase's built-in gazetteer tables with those
// decoded from the YAML file at path. Sections the file omits keep their
// built-in values.
func WithTableFile(path string) Option {
	return func(t *tables) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open table file %q: %w", path, err)
		}
		defer f.Close()

		tf, err := decodeTableFile(f)
		if err != nil {
			return fmt.Errorf("parse table file %q: %w", path, err)
		}
		applyTableFile(t, tf)
		return nil
	}
}

// decodeTableFile decodes a YAML table override from r. Split out from
// [WithTableFile] so tests can exercise it against an in-memory reader
// without touching the filesystem.
func decodeTableFile(r io.Reader) (*yamlTableFile, error) {
	tf := &yamlTableFile{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(tf); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return tf, nil
}

// applyTableFile merges the sections tf specifies into t, leaving every
// other section at its built-in value.
func applyTableFile(t *tables, tf *yamlTableFile) {
	if len(tf.Drugs) > 0 {
		t.knownDrugs = tf.Drugs
	}
	if len(tf.BrandGeneric) > 0 {
		brands := make(map[string]string, len(tf.BrandGeneric))
		for brand, generic := range tf.BrandGeneric {
			brands[strings.ToLower(strings.TrimSpace(brand))] = generic
		}
		t.brandGeneric = brands
	}
	if len(tf.DangerousCombinations) > 0 {
		combos := make(map[drugPair]string, len(tf.DangerousCombinations))
		for _, c := range tf.DangerousCombinations {
			combos[newDrugPair(strings.ToLower(c.A), strings.ToLower(c.B))] = c.Reason
		}
		t.dangerousCombinations = combos
	}
	if len(tf.Complaints) > 0 {
		t.complaintKeywords = tf.Complaints
	}
	if len(tf.Diagnoses) > 0 {
		t.diagnosisKeywords = tf.Diagnoses
	}
	if len(tf.StandardAdvice) > 0 {
		advice := make([]string, len(tf.StandardAdvice))
		mapping := make(map[int][]string, len(tf.StandardAdvice))
		for i, e := range tf.StandardAdvice {
			advice[i] = e.Text
			mapping[i] = e.Keywords
		}
		t.standardAdvice = advice
		t.adviceMapping = mapping
	}
}
