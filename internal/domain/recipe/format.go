package recipe

import (
	"fmt"
	"strings"
)

// ClipboardText renders the recipe as human-readable text for copying:
// name, bulleted ingredients, numbered expert instructions, and numbered
// simple instructions when a simplification has been cached.
func (r *Recipe) ClipboardText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recipe: %s\n\n", r.Name)

	b.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}

	b.WriteString("\nInstructions (Expert):\n")
	for i, step := range r.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}

	if len(r.SimpleInstructions) > 0 {
		b.WriteString("\nInstructions (Simple):\n")
		for i, step := range r.SimpleInstructions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
