package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlDecoder reads YAML configs using the same keys as JSON.
type yamlDecoder struct{}

func (yamlDecoder) CanDecode(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}

func (yamlDecoder) decode(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// replace_words is an ordered mapping; a yaml.Node keeps the key order.
	var words struct {
		ReplaceWords yaml.Node `yaml:"replace_words"`
	}
	if err := yaml.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	replacements, err := yamlReplacements(&words.ReplaceWords)
	if err != nil {
		return nil, err
	}
	doc.ReplaceWords = replacements

	return &doc, nil
}

func yamlReplacements(node *yaml.Node) ([]Replacement, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		out := make([]Replacement, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			out = append(out, Replacement{
				Search:  node.Content[i].Value,
				Replace: node.Content[i+1].Value,
			})
		}
		return out, nil
	case yaml.SequenceNode:
		var items []struct {
			Search  string `yaml:"search"`
			Replace string `yaml:"replace"`
		}
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("%w: replace_words: %v", ErrInvalidConfig, err)
		}
		out := make([]Replacement, 0, len(items))
		for _, it := range items {
			out = append(out, Replacement{Search: it.Search, Replace: it.Replace})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: replace_words must be a mapping or a list", ErrInvalidConfig)
}
