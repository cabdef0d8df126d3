package format

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/tormodhaugland/ft/internal/fs"
)

// CurrentRulesSchema is the version of the persisted rules document.
const CurrentRulesSchema = 1

// Pipeline is an ordered list of rules. Each rule sees the previous rule's output.
type Pipeline struct {
	rules []Rule
}

// NewPipeline returns a pipeline over a copy of rules.
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the rules in order.
func (p *Pipeline) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

// Len returns the number of rules.
func (p *Pipeline) Len() int {
	return len(p.rules)
}

// Apply runs every enabled rule over raw in order.
func (p *Pipeline) Apply(raw string) string {
	name := raw
	for _, r := range p.rules {
		name = r.Apply(name)
	}
	return name
}

// ApplyAll formats each name, returning a new slice.
func (p *Pipeline) ApplyAll(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = p.Apply(name)
	}
	return out
}

// Add appends a rule after validating it.
func (p *Pipeline) Add(r Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	p.rules = append(p.rules, r)
	return nil
}

// Remove deletes the rule at index i.
func (p *Pipeline) Remove(i int) error {
	if err := p.checkIndex(i); err != nil {
		return err
	}
	p.rules = append(p.rules[:i], p.rules[i+1:]...)
	return nil
}

// Toggle flips the enabled flag of the rule at index i.
func (p *Pipeline) Toggle(i int) error {
	if err := p.checkIndex(i); err != nil {
		return err
	}
	p.rules[i].Enabled = !p.rules[i].Enabled
	return nil
}

// Move relocates the rule at from so it ends up at index to.
func (p *Pipeline) Move(from, to int) error {
	if err := p.checkIndex(from); err != nil {
		return err
	}
	if err := p.checkIndex(to); err != nil {
		return err
	}
	r := p.rules[from]
	p.rules = append(p.rules[:from], p.rules[from+1:]...)
	p.rules = append(p.rules[:to], append([]Rule{r}, p.rules[to:]...)...)
	return nil
}

func (p *Pipeline) checkIndex(i int) error {
	if i < 0 || i >= len(p.rules) {
		return &IndexOutOfRangeError{Index: i, Len: len(p.rules)}
	}
	return nil
}

type rulesDocument struct {
	Schema int    `json:"schema"`
	Rules  []Rule `json:"rules"`
}

// LoadPipeline reads rules from path. A missing file yields an empty pipeline.
// Comments and trailing commas are allowed.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewPipeline(), nil
		}
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}

	var doc rulesDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("parsing rules %s: %w", path, err)
	}
	if doc.Schema > CurrentRulesSchema {
		return nil, fmt.Errorf("rules %s: schema %d is newer than supported version %d", path, doc.Schema, CurrentRulesSchema)
	}

	p := NewPipeline()
	for i, r := range doc.Rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rules %s: rule %d: %w", path, i, err)
		}
		p.rules = append(p.rules, r)
	}
	return p, nil
}

// SavePipeline writes the rules to path atomically.
func SavePipeline(path string, p *Pipeline) error {
	doc := rulesDocument{Schema: CurrentRulesSchema, Rules: p.Rules()}
	if doc.Rules == nil {
		doc.Rules = []Rule{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	if err := fs.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
