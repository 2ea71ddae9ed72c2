package rfp

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

//go:embed schema.json
var datasetSchema string

type fileDataset struct {
	Portfolio []string         `mapstructure:"portfolio"`
	Catalog   []CatalogItem    `mapstructure:"catalog"`
	Pricing   map[string]int64 `mapstructure:"pricing"`
	TestCosts map[string]int64 `mapstructure:"test-costs"`
	RFPs      []fileRFP        `mapstructure:"rfps"`
}

type fileRFP struct {
	RFP       `mapstructure:",squash"`
	DueInDays *int `mapstructure:"due-in-days"`
}

// LoadDataset reads a YAML data file. Relative due dates (due-in-days) are
// resolved against ref.
func LoadDataset(path string, ref time.Time) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file %q: %w", path, err)
	}

	return ParseDataset(data, ref)
}

// ParseDataset decodes YAML content, validates it against the dataset schema
// and converts it into a Dataset.
func ParseDataset(data []byte, ref time.Time) (*Dataset, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing data file: %w", err)
	}
	// Unquoted numeric IDs come back as map[any]any keys.
	stringKeys(raw)

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var decoded fileDataset
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &decoded,
		TagName:     "mapstructure",
		ErrorUnused: true,
		DecodeHook:  mapstructure.StringToTimeHookFunc(dateLayout),
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding data file: %w", err)
	}

	dataset := &Dataset{
		Catalog:   decoded.Catalog,
		Portfolio: NewPortfolio(decoded.Portfolio...),
		Pricing:   PricingTable(decoded.Pricing),
		TestCosts: TestCostTable(decoded.TestCosts),
		RFPs:      make([]RFP, 0, len(decoded.RFPs)),
	}

	for _, r := range decoded.RFPs {
		item := r.RFP
		if r.DueInDays != nil {
			item.DueDate = Day(ref).AddDate(0, 0, *r.DueInDays)
		}
		dataset.RFPs = append(dataset.RFPs, item)
	}

	if err := dataset.Validate(); err != nil {
		return nil, err
	}

	return dataset, nil
}

func validateSchema(raw map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasetSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return &ValidationError{Field: "data file", Reason: err.Error()}
	}

	if result.Valid() {
		return nil
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		reasons = append(reasons, e.String())
	}

	return &ValidationError{Field: "data file", Reason: strings.Join(reasons, "; ")}
}

func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}
