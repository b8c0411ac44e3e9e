package ml

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabularyCodesAreStable(t *testing.T) {
	a := NewVocabulary([]string{"rice", "apple", "tofu", "apple"})
	b := NewVocabulary([]string{"tofu", "rice", "apple"})

	assert.Equal(t, a.Terms, b.Terms)
	assert.Equal(t, 3, a.Len())
	for _, term := range a.Terms {
		assert.Equal(t, a.Code(term), b.Code(term))
	}
}

func TestVocabularyUnknownTerm(t *testing.T) {
	v := NewVocabulary([]string{"rice", "apple"})
	assert.Equal(t, UnknownCode, v.Code("durian"))
	assert.Equal(t, "", v.Term(UnknownCode))
	assert.Equal(t, "", v.Term(v.Len()))
}

func TestVocabularyRoundTrip(t *testing.T) {
	v := NewVocabulary([]string{"banana", "oats", "milk"})
	for _, term := range v.Terms {
		assert.Equal(t, term, v.Term(v.Code(term)))
	}
}

func TestVocabularyJSONRoundTrip(t *testing.T) {
	v := NewVocabulary([]string{"rice", "apple", "tofu"})
	data, err := json.Marshal(v)
	require.NoError(t, err)

	var restored Vocabulary
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, v.Terms, restored.Terms)
	assert.Equal(t, v.Code("tofu"), restored.Code("tofu"))
	assert.Equal(t, UnknownCode, restored.Code("durian"))
}
