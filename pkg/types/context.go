package types

import "time"

// Mention is a resolved external entity referenced in a formula as @Name.
type Mention struct {
	// Name is the entity name as written after the "@" sigil.
	Name string
	// Kind classifies the entity (e.g. "place", "person").
	Kind string
	// Properties holds the entity's custom fields (e.g. "lat", "lng").
	Properties map[string]any
}

// Object returns the entity as an object value for member access.
// Custom fields stay under the "properties" key; member evaluation
// probes direct keys first and falls back to the nested properties map.
func (m *Mention) Object() map[string]any {
	return map[string]any{
		"name":       m.Name,
		"kind":       m.Kind,
		"properties": m.Properties,
	}
}

// Context is the read-only runtime environment a formula is evaluated
// against. It is constructed fresh per evaluation via [NewContext] and
// never mutated by the evaluator, so two concurrent evaluations sharing
// nothing but the function registry cannot interfere.
type Context struct {
	// Fields maps field names to their current values.
	Fields map[string]any
	// Mentions holds the already-resolved mention records available to
	// the formula. Used as the fallback resolver when no external
	// resolver is configured on the evaluator.
	Mentions []Mention
	// Siblings holds the records of sibling blocks, as opaque objects.
	Siblings []map[string]any
	// Settings maps host application settings visible to formulas.
	Settings map[string]any
	// StrandPath is the path of the strand the formula lives in.
	StrandPath string
	// BlockID is the identifier of the block holding the formula.
	BlockID string
	// Now is the evaluation timestamp used by Now() and Today().
	Now time.Time
}

// ContextOption configures a Context created by NewContext.
type ContextOption func(*Context)

// WithFields sets the named field values visible to the formula.
func WithFields(fields map[string]any) ContextOption {
	return func(c *Context) {
		c.Fields = fields
	}
}

// WithMentions sets the resolved mention records.
func WithMentions(mentions []Mention) ContextOption {
	return func(c *Context) {
		c.Mentions = mentions
	}
}

// WithSiblings sets the sibling block records.
func WithSiblings(siblings []map[string]any) ContextOption {
	return func(c *Context) {
		c.Siblings = siblings
	}
}

// WithSettings sets the host application settings.
func WithSettings(settings map[string]any) ContextOption {
	return func(c *Context) {
		c.Settings = settings
	}
}

// WithStrandPath sets the current strand path.
func WithStrandPath(path string) ContextOption {
	return func(c *Context) {
		c.StrandPath = path
	}
}

// WithBlockID sets the current block identifier.
func WithBlockID(id string) ContextOption {
	return func(c *Context) {
		c.BlockID = id
	}
}

// WithNow overrides the evaluation timestamp. Useful in tests and for
// deterministic batch recomputation.
func WithNow(now time.Time) ContextOption {
	return func(c *Context) {
		c.Now = now
	}
}

// NewContext creates a Context with the supplied options merged over
// the defaults: empty field/setting maps, no mentions or siblings,
// empty strand path and block id, and the current wall-clock time.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		Fields:   map[string]any{},
		Settings: map[string]any{},
		Now:      time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MentionByName returns the resolved mention record with the given name
// (without the "@" prefix), matched case-insensitively.
func (c *Context) MentionByName(name string) (*Mention, bool) {
	for i := range c.Mentions {
		if equalFold(c.Mentions[i].Name, name) {
			return &c.Mentions[i], true
		}
	}
	return nil, false
}

// equalFold is a small ASCII-only case-insensitive comparison.
// Mention names are identifier-shaped, so ASCII folding is sufficient.
func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
