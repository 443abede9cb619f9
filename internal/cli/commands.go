package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipe-viewer/internal/core/linker"
	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/pkg/common"
)

func newLinkCmd(rt *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Build the ingredient to step link index for a recipe payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd.Context())
			defer cancel()

			payload, err := rt.loadPayload(ctx)
			if err != nil {
				return err
			}
			index, err := rt.service.LinkPayload(ctx, payload)
			if err != nil {
				return err
			}

			if rt.opts.Output == outputJSON {
				return printJSON(rt.out, index)
			}
			return printIndex(rt.out, payload, index)
		},
	}
}

func newHighlightCmd(rt *cliContext) *cobra.Command {
	var (
		step        int
		ingredients []int
	)

	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "Mark ingredient mentions inside recipe steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd.Context())
			defer cancel()

			payload, err := rt.loadPayload(ctx)
			if err != nil {
				return err
			}
			doc, err := rt.service.Create(ctx, payload)
			if err != nil {
				return err
			}
			defer func() { _ = rt.service.Delete(ctx, doc.ID) }()

			steps := []int{step}
			if step < 0 {
				steps = make([]int, len(payload.Steps))
				for i := range steps {
					steps[i] = i
				}
			}

			highlights := make([]*recipeService.Highlight, 0, len(steps))
			for _, s := range steps {
				h, err := rt.service.Highlight(ctx, doc.ID, s, ingredients)
				if err != nil {
					return err
				}
				highlights = append(highlights, h)
			}

			if rt.opts.Output == outputJSON {
				return printJSON(rt.out, highlights)
			}
			for _, h := range highlights {
				fmt.Fprintf(rt.out, "%d. %s\n", h.Step+1, h.Marked)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&step, "step", -1, "step index (default: every step)")
	cmd.Flags().IntSliceVar(&ingredients, "ingredient", nil, "ingredient indices to highlight (default: linked ingredients)")
	return cmd
}

func newScaleCmd(rt *cliContext) *cobra.Command {
	var factor float64

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Scale ingredient quantities by a factor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd.Context())
			defer cancel()

			payload, err := rt.loadPayload(ctx)
			if err != nil {
				return err
			}
			result, err := rt.service.ScalePayload(payload.ParsedIngredients, factor)
			if err != nil {
				return err
			}

			if rt.opts.Output == outputJSON {
				return printJSON(rt.out, result)
			}
			for _, item := range result.Items {
				line := item.Text
				if item.Tooltip != nil {
					line += "  (" + item.Tooltip.Label() + ")"
				}
				fmt.Fprintln(rt.out, line)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&factor, "factor", 1, "scale factor, must be positive")
	return cmd
}

func newVariantsCmd(rt *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "variants NAME...",
		Short: "Show the name variants used to find an ingredient in step text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make(map[string]linker.VariantSet, len(args))
			for _, name := range args {
				results[name] = rt.linker.Variants(name)
			}

			if rt.opts.Output == outputJSON {
				return printJSON(rt.out, results)
			}
			for _, name := range args {
				fmt.Fprintf(rt.out, "%s: %s\n", name, strings.Join(results[name], ", "))
			}
			return nil
		},
	}
}

// conversionResult convert 子命令輸出
type conversionResult struct {
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	Quantity   string  `json:"quantity"`
	Equivalent string  `json:"equivalent,omitempty"`
	Converted  bool    `json:"converted"`
}

func newConvertCmd(rt *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert AMOUNT UNIT",
		Short: "Show the kitchen-friendly equivalent of a quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return common.NewValidationError(fmt.Sprintf("invalid amount %q", args[0]))
			}

			result := conversionResult{
				Amount:   amount,
				Unit:     args[1],
				Quantity: rt.scaler.Formatter().FormatFraction(amount),
			}
			result.Equivalent, result.Converted = rt.scaler.Converter().Convert(amount, args[1])

			if rt.opts.Output == outputJSON {
				return printJSON(rt.out, result)
			}
			if !result.Converted {
				fmt.Fprintf(rt.out, "%s %s\n", result.Quantity, result.Unit)
				return nil
			}
			fmt.Fprintf(rt.out, "%s %s = %s\n", result.Quantity, result.Unit, result.Equivalent)
			return nil
		},
	}
}
