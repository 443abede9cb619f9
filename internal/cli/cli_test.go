package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
	"parsedIngredients": [
		{"name": "all-purpose flour", "unit": "cups", "amount": 2, "raw": "2 cups all-purpose flour"},
		{"name": "Granulated Sugar", "unit": "cup", "amount": 1, "raw": "1 cup granulated sugar"},
		{"name": "eggs", "amount": 2, "raw": "2 eggs"},
		{"name": "salt", "raw": "salt, to taste"},
		{"name": "butter", "unit": "tbsp", "amount": 5, "raw": "5 tbsp butter"}
	],
	"steps": [
		"Whisk the flour and sugar together.",
		"Beat in the egg.",
		"Fold in a pinch of salt and the remaining flour.",
		"Bake for 20 minutes."
	]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLinkCommand(t *testing.T) {
	out, err := run(t, samplePayload, "link")
	require.NoError(t, err)
	assert.Contains(t, out, "[0] all-purpose flour -> steps 0, 2")
	assert.Contains(t, out, "[3] salt -> steps 2")
	assert.Contains(t, out, "[3] Bake for 20 minutes. -> ingredients -")

	out, err = run(t, samplePayload, "link", "-o", "json")
	require.NoError(t, err)
	var index struct {
		StepToIngredients [][]int `json:"stepToIngredients"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &index))
	assert.Equal(t, [][]int{{0, 1}, {2}, {0, 3}, {}}, index.StepToIngredients)
}

func TestHighlightCommand(t *testing.T) {
	out, err := run(t, samplePayload, "highlight", "--step", "0")
	require.NoError(t, err)
	assert.Equal(t, "1. Whisk the <mark>flour</mark> and <mark>sugar</mark> together.\n", out)

	out, err = run(t, samplePayload, "highlight", "--ingredient", "0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "3. Fold in a pinch of salt and the remaining <mark>flour</mark>.", lines[2])
	assert.Equal(t, "4. Bake for 20 minutes.", lines[3])

	_, err = run(t, samplePayload, "highlight", "--step", "9")
	assert.Error(t, err)
}

func TestScaleCommand(t *testing.T) {
	out, err := run(t, samplePayload, "scale", "--factor", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "4 cups all-purpose flour")
	assert.Contains(t, out, "10 tbsp butter  (10 tbsp = ½ cup + 2 tbsp)")
	assert.Contains(t, out, "salt, to taste")

	_, err = run(t, samplePayload, "scale", "--factor", "0")
	assert.Error(t, err)
}

func TestVariantsCommand(t *testing.T) {
	out, err := run(t, "", "variants", "egg")
	require.NoError(t, err)
	assert.Equal(t, "egg: egg, eggs, egges\n", out)

	out, err = run(t, "", "variants", "-o", "json", "cherry")
	require.NoError(t, err)
	var variants map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &variants))
	assert.Contains(t, variants["cherry"], "cherries")

	_, err = run(t, "", "variants")
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, "", "convert", "10", "tbsp")
	require.NoError(t, err)
	assert.Equal(t, "10 tbsp = ½ cup + 2 tbsp\n", out)

	out, err = run(t, "", "convert", "0.5", "pinch")
	require.NoError(t, err)
	assert.Equal(t, "½ pinch\n", out)

	_, err = run(t, "", "convert", "ten", "tbsp")
	assert.Error(t, err)
}

func TestPayloadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o644))

	out, err := run(t, "", "link", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[2] eggs -> steps 1")

	_, err = run(t, "", "link", "--file", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPayloadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	out, err := run(t, "", "link", "--url", server.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Granulated Sugar -> steps 0")
}

func TestVocabularyOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spellings:\n  - [aubergine, eggplant]\n"), 0o644))

	out, err := run(t, "", "variants", "--vocabulary", path, "eggplant")
	require.NoError(t, err)
	assert.Contains(t, out, "aubergine")
}

func TestInvalidInput(t *testing.T) {
	_, err := run(t, "{", "link")
	assert.Error(t, err)

	_, err = run(t, samplePayload, "link", "-o", "xml")
	assert.Error(t, err)
}
