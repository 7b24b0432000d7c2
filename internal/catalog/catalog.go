package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidDocument = errors.New("invalid catalog document")
	ErrEmptyCatalog    = errors.New("catalog has no categories")
)

// Catalog is the read-only menu: categories in document order.
// It is never mutated after decoding, so it is safe to share between sessions.
type Catalog struct {
	categories []*Category
	index      map[string]*Category
}

// New builds a catalog from categories, keeping their order.
func New(categories ...Category) *Catalog {
	c := &Catalog{index: make(map[string]*Category, len(categories))}
	for i := range categories {
		c.put(categories[i])
	}
	return c
}

func (c *Catalog) put(cat Category) {
	if existing, ok := c.index[cat.ID]; ok {
		*existing = cat
		return
	}

	stored := cat
	c.categories = append(c.categories, &stored)
	c.index[cat.ID] = &stored
}

// Decode reads a catalog document: an object mapping category id to
// {name, name_localized, items}. Key order is kept as display order.
func Decode(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	c := &Catalog{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected object of categories", ErrInvalidDocument)
	}

	c.categories = nil
	c.index = make(map[string]*Category)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		id, _ := tok.(string)

		var cat Category
		if err := dec.Decode(&cat); err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidDocument, id, err)
		}
		cat.ID = id
		c.put(cat)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c.Categories() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.ID)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(struct {
			Name          string      `json:"name"`
			NameLocalized interface{} `json:"name_localized,omitempty"`
			Items         []MenuItem  `json:"items"`
		}{cat.Name, cat.NameLocalized, cat.Items})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Validate rejects documents that cannot back a menu at all.
func (c *Catalog) Validate() error {
	if c == nil || len(c.categories) == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// Categories returns the categories in document order.
func (c *Catalog) Categories() []Category {
	if c == nil {
		return nil
	}
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = *cat
	}
	return out
}

// Category returns the category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	if c == nil {
		return Category{}, false
	}
	cat, ok := c.index[id]
	if !ok {
		return Category{}, false
	}
	return *cat, true
}

// Find returns the item named name inside category. Names are unique per
// category; the first match wins if the document repeats one.
func (c *Catalog) Find(category, name string) (*MenuItem, bool) {
	if c == nil {
		return nil, false
	}
	cat, ok := c.index[category]
	if !ok {
		return nil, false
	}
	for i := range cat.Items {
		if cat.Items[i].Name == name {
			item := cat.Items[i]
			return &item, true
		}
	}
	return nil, false
}
