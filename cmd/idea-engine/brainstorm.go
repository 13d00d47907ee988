package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/idea-engine/internal/chat"
	"github.com/pdiddy/idea-engine/internal/ideas"
	"github.com/pdiddy/idea-engine/internal/secrets"
	"github.com/pdiddy/idea-engine/pkg/types"
)

var brainstormCmd = &cobra.Command{
	Use:   "brainstorm",
	Short: "Generate structured art ideas for a target audience",
	Long: `Brainstorm asks the chat model for free-form art concepts tailored to the
audience, then extracts them into validated idea records. The run is saved
as a YAML file whose detail fields can be pasted into an image generator.`,
	RunE: runBrainstorm,
}

func init() {
	brainstormCmd.Flags().String("age", "", "target audience age range (e.g. \"18-22\")")
	brainstormCmd.Flags().StringSlice("attribute", nil, "audience attribute, repeatable (e.g. \"energetic\")")
	brainstormCmd.Flags().String("audience-file", "", "YAML audience description (overrides --age/--attribute)")
	brainstormCmd.Flags().String("model", "gpt-4o-mini", "chat model identifier")
	brainstormCmd.Flags().String("base-url", "", "OpenAI-compatible API base URL (e.g. an OpenRouter endpoint)")
	brainstormCmd.Flags().Int("max-attempts", 3, "total extraction attempts before the run fails")
	brainstormCmd.Flags().Duration("timeout", 2*time.Minute, "per-call request timeout")
	brainstormCmd.Flags().Bool("strict", false, "reject extraction responses carrying fields beyond the schema")
	brainstormCmd.Flags().String("out", "ideas", "directory for the ideas YAML file (empty to skip writing)")

	rootCmd.AddCommand(brainstormCmd)
}

func runBrainstorm(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var audience types.Audience
	if audienceFile, _ := flags.GetString("audience-file"); audienceFile != "" {
		a, err := ideas.ReadAudienceFile(audienceFile)
		if err != nil {
			return err
		}
		audience = a
	} else {
		audience.Age, _ = flags.GetString("age")
		audience.Attributes, _ = flags.GetStringSlice("attribute")
	}
	if err := audience.Validate(); err != nil {
		return err
	}

	model, _ := flags.GetString("model")
	baseURL, _ := flags.GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("base_url")
	}
	maxAttempts, _ := flags.GetInt("max-attempts")
	timeout, _ := flags.GetDuration("timeout")
	strict, _ := flags.GetBool("strict")
	outDir, _ := flags.GetString("out")

	apiKey := secrets.Lookup(loadedSecrets, "openai-api-key", viper.GetString("api_key"))
	if apiKey == "" {
		return fmt.Errorf("no API key configured: add .secrets/openai-api-key or set IDEA_ENGINE_API_KEY")
	}

	cfg := types.BrainstormConfig{
		AIConfig: types.AIConfig{
			Model:       model,
			APIKey:      apiKey,
			BaseURL:     baseURL,
			Timeout:     timeout,
			MaxAttempts: maxAttempts,
		},
		OutputDir: outDir,
		Strict:    strict,
	}

	client, err := chat.NewClient(cfg.AIConfig)
	if err != nil {
		return err
	}

	collection, err := ideas.Generate(cmd.Context(), client, audience, cfg)
	if err != nil {
		return err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("ideas-%s.yaml", time.Now().Format("20060102-150405")))
		if err := ideas.WriteIdeasFile(path, audience, cfg, collection); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}

	for i, idea := range collection.Ideas {
		fmt.Printf("%d. %s [%s]\n", i+1, idea.Title, idea.Style)
	}
	return nil
}
