package ml

import (
	"encoding/json"
	"sort"
)

// UnknownCode is the reserved code for terms absent from the vocabulary
// at fit time. Unseen terms must never alias a real category code.
const UnknownCode = -1

// Vocabulary is an explicit, serializable category-to-code mapping shared
// between training and inference. Terms are stored sorted so the same
// term set always yields the same codes.
type Vocabulary struct {
	Terms []string `json:"terms"`

	index map[string]int
}

// NewVocabulary fits a vocabulary from observed terms, deduplicating and
// sorting them.
func NewVocabulary(terms []string) *Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	uniq := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		uniq = append(uniq, t)
	}
	sort.Strings(uniq)
	v := &Vocabulary{Terms: uniq}
	v.rebuild()
	return v
}

func (v *Vocabulary) rebuild() {
	v.index = make(map[string]int, len(v.Terms))
	for i, t := range v.Terms {
		v.index[t] = i
	}
}

// Code returns the term's code, or UnknownCode when the term was not seen
// at fit time.
func (v *Vocabulary) Code(term string) int {
	if v.index == nil {
		v.rebuild()
	}
	if code, ok := v.index[term]; ok {
		return code
	}
	return UnknownCode
}

// Term is the inverse of Code. Returns "" for out-of-range codes,
// including UnknownCode.
func (v *Vocabulary) Term(code int) string {
	if code < 0 || code >= len(v.Terms) {
		return ""
	}
	return v.Terms[code]
}

func (v *Vocabulary) Len() int {
	return len(v.Terms)
}

func (v *Vocabulary) UnmarshalJSON(data []byte) error {
	type alias Vocabulary
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	v.Terms = a.Terms
	v.rebuild()
	return nil
}
