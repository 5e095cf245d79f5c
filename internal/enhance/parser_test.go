package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FencedJSON(t *testing.T) {
	raw := "```json\n{\"ingredients\":[\"a\",\"b\"],\"instructions\":[\"c\"]}\n```"

	enh, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, enh.Ingredients)
	assert.Equal(t, []string{"c"}, enh.Instructions)
	assert.Equal(t, "a\nb", enh.JoinedIngredients())
	assert.Equal(t, "c", enh.JoinedInstructions())
}

func TestParse_PlainJSON(t *testing.T) {
	raw := `{"ingredients":["2 cups flour"],"instructions":["mix","bake"]}`

	enh, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"2 cups flour"}, enh.Ingredients)
	assert.Equal(t, []string{"mix", "bake"}, enh.Instructions)
}

func TestParse_StraysAndWhitespace(t *testing.T) {
	// Fence markers are noise wherever they appear; the model does not
	// always emit a matched pair.
	raw := "  ```json{\"ingredients\":[\"a\"],\"instructions\":[\"b\"]}\n\n"

	enh, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, enh.Ingredients)
	assert.Equal(t, []string{"b"}, enh.Instructions)
}

func TestParse_EmptyArrays(t *testing.T) {
	enh, err := Parse(`{"ingredients":[],"instructions":[]}`)
	require.NoError(t, err)

	assert.Empty(t, enh.Ingredients)
	assert.Empty(t, enh.Instructions)
	assert.Equal(t, "", enh.JoinedIngredients())
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse("not json")

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "not json", malformed.Raw)
}

func TestParse_MissingField(t *testing.T) {
	_, err := Parse(`{"ingredients":["a"]}`)

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Reason, "instructions")
}

func TestParse_WrongShape(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"ingredients not an array", `{"ingredients":"a","instructions":["b"]}`},
		{"instruction element not a string", `{"ingredients":["a"],"instructions":[1]}`},
		{"top level array", `[1,2,3]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			var malformed *MalformedResponseError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestShouldRewrite(t *testing.T) {
	assert.False(t, ShouldRewrite(0))
	assert.False(t, ShouldRewrite(2))
	assert.True(t, ShouldRewrite(3))
	assert.True(t, ShouldRewrite(7))
}
