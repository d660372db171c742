package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MalayathiGeetha/MailMind-AI/internal/api"
)

var (
	generateTone          string
	generatePromptVersion string
	generateProvider      string
	generateMode          string
	generateFile          string
)

var generateCmd = &cobra.Command{
	Use:   "generate [content]",
	Short: "Generate an email and print it to stdout",
	Long: `Generate an email without entering the TUI. The content comes from the
argument, from --file, or from stdin, in that order.

Examples:
  mailmind generate "decline the meeting politely"
  mailmind generate --file draft.txt --mode POLISH
  cat draft.txt | mailmind generate --tone FRIENDLY`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&generateTone, "tone", "", "tone (FORMAL, FRIENDLY, ...)")
	generateCmd.Flags().StringVar(&generatePromptVersion, "prompt-version", "", "prompt version (V1_SIMPLE, ...)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "AI provider (GEMINI, OLLAMA)")
	generateCmd.Flags().StringVar(&generateMode, "mode", "", "mode (GENERATE_REPLY, POLISH, ...)")
	generateCmd.Flags().StringVarP(&generateFile, "file", "f", "", "read content from file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := bootstrap()
	if err != nil {
		return err
	}
	defer e.cleanup()

	content, err := resolveContent(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("no email content provided")
	}

	req := api.GenerateRequest{
		EmailContent:  content,
		Tone:          e.cfg.Defaults.Tone,
		PromptVersion: e.cfg.Defaults.PromptVersion,
		Provider:      e.cfg.Defaults.Provider,
		Mode:          generateMode,
	}
	if generateTone != "" {
		req.Tone = generateTone
	}
	if generatePromptVersion != "" {
		req.PromptVersion = generatePromptVersion
	}
	if generateProvider != "" {
		req.Provider = generateProvider
	}

	text, err := e.svc.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func resolveContent(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if generateFile != "" {
		data, err := os.ReadFile(generateFile)
		if err != nil {
			return "", fmt.Errorf("reading content file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
