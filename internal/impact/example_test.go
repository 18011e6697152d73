package impact_test

import (
	"fmt"

	"affected/internal/impact"
)

// ExampleExtractIdentifiers shows which lines of a hunk contribute identifiers.
func ExampleExtractIdentifiers() {
	files := []impact.FileDiff{{
		NewPath: "src/ui/button.ts",
		Hunks: []impact.Hunk{{
			Content: "@@ -10,4 +10,5 @@ export interface ButtonProps {",
			Changes: []impact.LineChange{
				{Kind: impact.ChangeContext, Text: "export const Unchanged = 1;"},
				{Kind: impact.ChangeDelete, Text: "export const Button = () => null;"},
				{Kind: impact.ChangeInsert, Text: "export const Button = (p: ButtonProps) => null;"},
				{Kind: impact.ChangeInsert, Text: "export type Size = 'sm' | 'lg';"},
			},
		}},
	}}

	ids := impact.ExtractIdentifiers(files)
	fmt.Println(ids.Names())
	// Output:
	// [ButtonProps Button Size]
}

// ExampleSummarizer_Summarize reduces affected paths to page keys.
func ExampleSummarizer_Summarize() {
	summarizer, err := impact.NewSummarizer(`modules/(.+?/pages/.+?)/`)
	if err != nil {
		fmt.Println(err)
		return
	}

	entries := []impact.AffectedEntry{
		{Path: "app/modules/shop/pages/cart/index.ts"},
		{Path: "app/modules/shop/pages/cart/view.ts"},
		{Path: "app/modules/shop/util/price.ts"},
		{Path: "app/modules/account/pages/profile/index.ts"},
	}

	for _, key := range summarizer.Summarize(entries) {
		fmt.Println(key)
	}
	// Output:
	// shop/pages/cart
	// account/pages/profile
}

// ExampleNewSummarizer shows the pattern checks done at construction.
func ExampleNewSummarizer() {
	_, err := impact.NewSummarizer(`modules/.+/pages/`)
	fmt.Println(err)
	// Output:
	// [PATTERN_ERROR] filter pattern has no capturing group
}
