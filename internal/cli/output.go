package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"recipe-viewer/internal/core/linker"
	"recipe-viewer/internal/pkg/common"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func printIndex(w io.Writer, payload *common.RecipePayload, index *linker.Index) error {
	fmt.Fprintln(w, "Ingredients:")
	for i, steps := range index.IngredientToSteps {
		fmt.Fprintf(w, "  [%d] %s -> steps %s\n", i, payload.ParsedIngredients[i].Name, joinInts(steps))
	}
	fmt.Fprintln(w, "Steps:")
	for i, ingredients := range index.StepToIngredients {
		fmt.Fprintf(w, "  [%d] %s -> ingredients %s\n", i, payload.Steps[i], joinInts(ingredients))
	}
	return nil
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
