package auditcli

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// LoadPalette reads a palette file. Color syntax is not checked here; the
// evaluator reports malformed colors per pair.
func LoadPalette(path string) (*Palette, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no palette file given", ErrLoadPalette)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadPalette, path, err)
	}

	var p Palette
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadPalette, path, err)
	}
	if len(p.Pairs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPalette, path)
	}
	p.trim()
	return &p, nil
}

// trim drops stray whitespace around hand-edited YAML values.
func (p *Palette) trim() {
	p.Background = strings.TrimSpace(p.Background)
	for i := range p.Pairs {
		e := &p.Pairs[i]
		e.Foreground = strings.TrimSpace(e.Foreground)
		e.Background = strings.TrimSpace(e.Background)
		e.Category = strings.TrimSpace(e.Category)
		e.Replacement = strings.TrimSpace(e.Replacement)
	}
}

// resolveBackgrounds fills empty pair backgrounds from the flag, then from
// the palette default. Pairs left empty fall back to the evaluator default.
func (p *Palette) resolveBackgrounds(flagBackground string) {
	def := p.Background
	if flagBackground != "" {
		def = flagBackground
	}
	for i := range p.Pairs {
		if p.Pairs[i].Background == "" {
			p.Pairs[i].Background = def
		}
	}
}
