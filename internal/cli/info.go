package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/language"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List available translation providers",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "openai     OpenAI chat completions (default model: gpt-4o-mini)")
		fmt.Fprintln(out, "vllm       OpenAI-compatible local server (default: http://localhost:8000/v1)")
		fmt.Fprintln(out, "ollama     Local Ollama server (default: http://localhost:11434)")
		fmt.Fprintln(out, "anthropic  Anthropic Claude models")
		fmt.Fprintln(out, "gemini     Google Gemini models")
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List known language codes",
	Long: `List the language codes sublate knows by name.

Other codes and plain language names are passed to the model as-is,
so a language missing from this list can still be used.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, code := range language.Codes() {
			name, _ := language.Name(code)
			fmt.Fprintf(out, "%-7s %s\n", code, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(languagesCmd)
}
