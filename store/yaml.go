package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDataset is returned when a dataset file has no usable items.
var ErrEmptyDataset = errors.New("dataset has no items")

type dataset struct {
	Items []Item `yaml:"items"`
}

// LoadYAML reads a dataset file of the form:
//
//	items:
//	  - name: test 1
//	    requiredBy: now
func LoadYAML(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return DecodeYAML(f)
}

// DecodeYAML decodes a dataset. Items without a name are skipped and
// missing ids are numbered from 1 in file order.
func DecodeYAML(r io.Reader) ([]Item, error) {
	var ds dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	items := normalize(ds.Items)
	if len(items) == 0 {
		return nil, ErrEmptyDataset
	}
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = int64(i + 1)
		}
	}
	return items, nil
}

// EncodeYAML writes items in the dataset format.
func EncodeYAML(w io.Writer, items []Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dataset{Items: items}); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return enc.Close()
}
