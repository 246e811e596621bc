package ruleset

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// jsonDecoder reads JSON configs. Missing sections decode to their zero value.
type jsonDecoder struct{}

func (jsonDecoder) CanDecode(ext string) bool {
	return ext == ".json" || ext == ""
}

func (jsonDecoder) decode(data []byte) (*document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidConfig)
	}
	root := gjson.ParseBytes(data)

	doc := &document{
		TranslationsCSV: root.Get("translations_csv").String(),
		DisableCategory: jsonStrings(root.Get("disable_category")),
		WrapTextPre:     jsonStrings(root.Get("wrap_text_pre")),
		WrapTextPost:    jsonStrings(root.Get("wrap_text_post")),
		Blacklist:       jsonStrings(root.Get("blacklist")),
		DeleteLines:     jsonStrings(root.Get("delete_lines")),
		Execute:         jsonStrings(root.Get("execute")),
		TranslationFile: root.Get("translation_file").String(),
		BackupFile:      root.Get("backup_file").String(),
	}
	if v := root.Get("auto_new_line"); v.Exists() {
		b := v.Bool()
		doc.AutoNewLine = &b
	}

	root.Get("translations").ForEach(func(_, v gjson.Result) bool {
		doc.Translations = append(doc.Translations, jsonTranslation(v))
		return true
	})

	root.Get("pairs").ForEach(func(_, v gjson.Result) bool {
		doc.Pairs = append(doc.Pairs, jsonPair(v))
		return true
	})

	// ForEach walks object keys in document order, which keeps the
	// configured replacement sequence intact.
	words := root.Get("replace_words")
	words.ForEach(func(k, v gjson.Result) bool {
		if words.IsArray() {
			doc.ReplaceWords = append(doc.ReplaceWords, Replacement{
				Search:  v.Get("search").String(),
				Replace: v.Get("replace").String(),
			})
			return true
		}
		doc.ReplaceWords = append(doc.ReplaceWords, Replacement{Search: k.String(), Replace: v.String()})
		return true
	})

	return doc, nil
}

func jsonTranslation(v gjson.Result) rawTranslation {
	tr := rawTranslation{
		Category:   v.Get("category").String(),
		Group:      v.Get("group").String(),
		Patterns:   jsonStrings(v.Get("patterns")),
		Print:      v.Get("print").String(),
		Duplicates: v.Get("duplicates").String(),
	}
	if e := v.Get("enable"); e.Exists() {
		b := e.Bool()
		tr.Enable = &b
	}
	v.Get("variables").ForEach(func(_, item gjson.Result) bool {
		tr.Variables = append(tr.Variables, Variable{
			StartsWith: item.Get("startswith").String(),
			EndsWith:   item.Get("endswith").String(),
		})
		return true
	})
	if p := v.Get("pair"); p.IsObject() {
		pair := jsonPair(p)
		tr.Pair = &pair
	}
	return tr
}

func jsonPair(v gjson.Result) rawPair {
	return rawPair{
		Source:    v.Get("source").String(),
		PairsWith: v.Get("pairswith").String(),
		Before:    v.Get("before").String(),
		Error:     v.Get("error").String(),
	}
}

// jsonStrings accepts either an array of strings or a single string.
func jsonStrings(v gjson.Result) []string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if !v.IsArray() {
		return []string{v.String()}
	}
	var out []string
	for _, item := range v.Array() {
		out = append(out, item.String())
	}
	return out
}
