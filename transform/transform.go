package transform

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultVersion is stamped into Metadata.Version unless overridden.
	DefaultVersion = "1.0"

	fieldItems = "items"
	fieldID    = "id"
	fieldName  = "name"
	fieldValue = "value"

	listPlaceholderID   = "unknown"
	singlePlaceholderID = "single"
)

// Item is a normalized record.
type Item struct {
	ID        any     `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Processed bool    `json:"processed"`
}

// Metadata describes a transform run.
type Metadata struct {
	TransformedAt string `json:"transformed_at"`
	Version       string `json:"version"`
}

// Result is the output of Normalize. Items is never nil so it always
// encodes as a JSON array.
type Result struct {
	Items    []Item   `json:"items"`
	Metadata Metadata `json:"metadata"`
}

// Option configures a Transformer.
type Option func(*Transformer)

// Transformer applies the normalization rules. The zero value is not usable;
// construct one with New.
type Transformer struct {
	now     func() time.Time
	version string
}

// New returns a Transformer using the wall clock and DefaultVersion.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		now:     time.Now,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// WithClock overrides the clock used for Metadata.TransformedAt.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithVersion overrides the version literal stamped into results.
func WithVersion(version string) Option {
	return func(t *Transformer) {
		if version != "" {
			t.version = version
		}
	}
}

var defaultTransformer = New()

// Normalize runs the default Transformer over payload.
func Normalize(payload map[string]any) (Result, error) {
	return defaultTransformer.Normalize(payload)
}

// Normalize converts payload into a Result. Errors wrap ErrCoercion or
// ErrShape and leave the returned Result empty.
func (t *Transformer) Normalize(payload map[string]any) (Result, error) {
	items, err := t.normalizeItems(payload)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Items: items,
		Metadata: Metadata{
			TransformedAt: t.now().UTC().Format(time.RFC3339Nano),
			Version:       t.version,
		},
	}, nil
}

func (t *Transformer) normalizeItems(payload map[string]any) ([]Item, error) {
	if raw, ok := payload[fieldItems]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, &ShapeError{Index: singleItemIndex, Field: fieldItems, Expect: "array", Got: raw}
		}
		items := make([]Item, 0, len(list))
		for i, element := range list {
			record, ok := element.(map[string]any)
			if !ok {
				return nil, &ShapeError{Index: i, Expect: "object", Got: element}
			}
			item, err := normalizeItem(record, i, listPlaceholderID)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	_, hasName := payload[fieldName]
	_, hasValue := payload[fieldValue]
	if hasName || hasValue {
		item, err := normalizeItem(payload, singleItemIndex, singlePlaceholderID)
		if err != nil {
			return nil, err
		}
		return []Item{item}, nil
	}

	return []Item{}, nil
}

func normalizeItem(record map[string]any, index int, placeholderID string) (Item, error) {
	item := Item{ID: placeholderID, Processed: true}

	if id, ok := record[fieldID]; ok {
		item.ID = id
	}

	if raw, ok := record[fieldName]; ok {
		name, ok := raw.(string)
		if !ok {
			return Item{}, &CoercionError{Index: index, Field: fieldName, Value: raw}
		}
		item.Name = cases.Upper(language.Und).String(trimSpace(name))
	}

	if raw, ok := record[fieldValue]; ok {
		value, err := toFloat(raw)
		if err != nil {
			return Item{}, &CoercionError{Index: index, Field: fieldValue, Value: raw, Err: err}
		}
		item.Value = value
	}

	return item, nil
}
