package dataset

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed dictionary.yaml
var dictionaryYAML []byte

// FieldDoc documents one dataset column for report output.
type FieldDoc struct {
	Column      Column `yaml:"column" json:"column"`
	Description string `yaml:"description" json:"description"`
	Unit        string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Source      string `yaml:"source,omitempty" json:"source,omitempty"`
	Year        int    `yaml:"year,omitempty" json:"year,omitempty"`
}

// Dictionary is the data dictionary for the pubs-final table.
type Dictionary struct {
	Fields []FieldDoc `yaml:"fields" json:"fields"`
}

// Describe returns the documentation for one column, if any.
func (d *Dictionary) Describe(c Column) (FieldDoc, bool) {
	for _, f := range d.Fields {
		if f.Column == c {
			return f, true
		}
	}
	return FieldDoc{}, false
}

// DefaultDictionary returns the dictionary shipped with the binary. Every
// schema column is documented; the parse is validated at test time.
func DefaultDictionary() (*Dictionary, error) {
	return parseDictionary(dictionaryYAML)
}

// LoadDictionary reads a dictionary override from a YAML file.
func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read dictionary %s", path)
	}
	return parseDictionary(data)
}

func parseDictionary(data []byte) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, eris.Wrap(err, "dataset: parse dictionary")
	}
	for _, f := range d.Fields {
		if _, err := ParseColumn(string(f.Column)); err != nil {
			return nil, eris.Wrapf(err, "dataset: dictionary field %q", f.Column)
		}
	}
	return &d, nil
}
