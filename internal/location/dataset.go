package location

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"listings/internal/types"
)

//go:embed data/counties.json
var defaultCounties []byte

// ErrInvalidDataset is returned when a dataset cannot be used for matching
var ErrInvalidDataset = errors.New("invalid location dataset")

// DefaultDataset returns the embedded county dataset
func DefaultDataset() (types.Dataset, error) {
	return LoadDataset(bytes.NewReader(defaultCounties))
}

// OpenDataset loads the dataset at path, or the embedded one when path is empty
func OpenDataset(path string) (types.Dataset, error) {
	if path == "" {
		return DefaultDataset()
	}
	return LoadDatasetFile(path)
}

// LoadDatasetFile reads a county dataset from a JSON file
func LoadDatasetFile(path string) (types.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return LoadDataset(f)
}

// LoadDataset decodes a JSON array of counties and checks every record is named
func LoadDataset(r io.Reader) (types.Dataset, error) {
	var dataset types.Dataset
	if err := json.NewDecoder(r).Decode(&dataset); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}

	for i, county := range dataset {
		if Normalize(county.Name) == "" {
			return nil, fmt.Errorf("%w: county %d has no name", ErrInvalidDataset, i)
		}
	}

	return dataset, nil
}
