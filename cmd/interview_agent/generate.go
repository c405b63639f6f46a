package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/config"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/cost"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/generator"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/history"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/ingestion"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/llm"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/observability"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/prompts"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/ratelimit"
	"github.com/VirtualMaestro/InterviewPreparationWithAI-sub001/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate interview questions for a job description",
	Long: `Generate interview questions for a job description read from a file, a URL, or the
command line. The request is checked against the rate limit, sent to the model with retry,
parsed, priced, and recorded in the session history.`,
	RunE: runGenerate,
}

var (
	genJobFile     string
	genJobURL      string
	genJobText     string
	genType        string
	genLevel       string
	genTechnique   string
	genCount       int
	genModel       string
	genPersona     string
	genCompanyType string
	genAPIKey      string
	genProvider    string
	genJSON        bool
	genBrowser     bool
	genNoHistory   bool
)

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genJobFile, "job-file", "f", "", "Path to a text file with the job description")
	f.StringVarP(&genJobURL, "job-url", "u", "", "URL of a job posting")
	f.StringVar(&genJobText, "job", "", "Job description text")
	f.StringVarP(&genType, "type", "t", string(types.InterviewTechnical), "Interview type: technical, behavioral, case_study, reverse")
	f.StringVarP(&genLevel, "level", "l", string(types.LevelMid), "Experience level: junior, mid, senior, lead")
	f.StringVar(&genTechnique, "technique", string(types.TechniqueFewShot), "Prompt technique: few_shot, chain_of_thought, zero_shot, role_based, structured_output")
	f.IntVarP(&genCount, "count", "n", 0, "Number of questions (default from config)")
	f.StringVarP(&genModel, "model", "m", "", "Model name (default from config)")
	f.StringVar(&genPersona, "persona", "", "Interviewer persona for role_based: "+strings.Join(prompts.PersonaNames(), ", "))
	f.StringVar(&genCompanyType, "company-type", "", "Company type for role_based: "+strings.Join(prompts.CompanyTypes(), ", "))
	f.StringVar(&genAPIKey, "api-key", "", "Provider API key (defaults to OPENAI_API_KEY or GEMINI_API_KEY)")
	f.StringVar(&genProvider, "provider", "", "Model provider: openai or gemini (default from config)")
	f.BoolVar(&genJSON, "json", false, "Print the result as JSON")
	f.BoolVar(&genBrowser, "browser", false, "Render JavaScript job pages with headless Chrome")
	f.BoolVar(&genNoHistory, "no-history", false, "Do not record this session")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if genProvider != "" {
		if cfg.AI.Provider, err = llm.ParseProvider(genProvider); err != nil {
			return err
		}
		if cfg.AI.Model == types.DefaultModel {
			cfg.AI.Model = cfg.AI.Provider.DefaultModel()
		}
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	req, err := buildRequest(cfg)
	if err != nil {
		return err
	}
	doc, err := readJobDescription(ctx, logger)
	if err != nil {
		return err
	}
	req.JobDescription = doc.Text
	if n := len([]rune(req.JobDescription)); n < cfg.Input.MinLength || n > cfg.Input.MaxLength {
		return fmt.Errorf("job description must be between %d and %d characters, got %d",
			cfg.Input.MinLength, cfg.Input.MaxLength, n)
	}

	apiKey := genAPIKey
	if apiKey == "" {
		apiKey = cfg.APIKey()
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required: pass --api-key or set %s", cfg.AI.Provider.APIKeyEnv())
	}
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	library, err := prompts.NewDefaultLibrary()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Limit:          cfg.RateLimit.Calls,
		Window:         cfg.RateLimit.Window,
		WarningPercent: cfg.RateLimit.WarningPercent,
	})
	calculator := cost.NewCalculator()

	gen, err := generator.New(library, client, limiter, calculator,
		generator.WithLogger(logger),
		generator.WithRetryPolicy(generator.RetryPolicy{
			MaxAttempts:  cfg.Retry.MaxAttempts,
			InitialDelay: cfg.Retry.InitialDelay,
			MaxDelay:     cfg.Retry.MaxDelay,
			Jitter:       generator.DefaultRetryPolicy().Jitter,
		}),
	)
	if err != nil {
		return err
	}

	store, err := openHistory(ctx, cfg, genNoHistory)
	if err != nil {
		return err
	}
	defer store.Close()

	if adv := limiter.Advisory(); adv.Level != ratelimit.LevelOK {
		logger.Warn("rate limit advisory", "message", adv.Message)
	}

	res, genErr := gen.Generate(ctx, req)
	if err := store.Append(ctx, history.FromResult(req, res)); err != nil {
		logger.Warn("failed to record session", "error", err)
	}

	out := cmd.OutOrStdout()
	if genJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		printer := observability.NewPrinter(out)
		printer.PrintResult(res)
		if verbose {
			printer.PrintAdvisory(limiter.Advisory())
			printer.PrintUsage(calculator.Stats())
		}
	}

	if genErr != nil {
		var gerr *generator.Error
		if errors.As(genErr, &gerr) && gerr.Kind == generator.KindRateLimited {
			return fmt.Errorf("%w (try again later)", genErr)
		}
		return genErr
	}
	return nil
}

// buildRequest assembles the request from flags and config, leaving the job
// description empty.
func buildRequest(cfg *config.Config) (types.GenerationRequest, error) {
	itype, err := types.ParseInterviewType(genType)
	if err != nil {
		return types.GenerationRequest{}, err
	}
	level, err := types.ParseExperienceLevel(genLevel)
	if err != nil {
		return types.GenerationRequest{}, err
	}
	technique, err := types.ParseTechnique(genTechnique)
	if err != nil {
		return types.GenerationRequest{}, err
	}

	count := genCount
	if count == 0 {
		count = cfg.Questions.Default
	}
	if count < 1 || count > cfg.Questions.Max {
		return types.GenerationRequest{}, fmt.Errorf("--count must be between 1 and %d", cfg.Questions.Max)
	}

	settings := cfg.AISettings()
	if genModel != "" {
		settings.Model = genModel
	}

	extra := map[string]string{}
	if genPersona != "" {
		if _, ok := prompts.LookupPersona(genPersona); !ok {
			return types.GenerationRequest{}, fmt.Errorf("unknown persona %q (known: %s)", genPersona, strings.Join(prompts.PersonaNames(), ", "))
		}
		extra[generator.ContextPersona] = genPersona
	}
	if genCompanyType != "" {
		extra[generator.ContextCompanyType] = genCompanyType
	}

	return types.GenerationRequest{
		InterviewType:     itype,
		ExperienceLevel:   level,
		Technique:         technique,
		QuestionCount:     count,
		AI:                settings,
		AdditionalContext: extra,
	}, nil
}

func readJobDescription(ctx context.Context, logger *observability.Logger) (*ingestion.Document, error) {
	set := 0
	for _, v := range []string{genJobFile, genJobURL, genJobText} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of --job-file, --job-url or --job must be provided")
	}

	switch {
	case genJobFile != "":
		return ingestion.FromFile(genJobFile)
	case genJobURL != "":
		return ingestion.FromURL(ctx, genJobURL, ingestion.URLOptions{UseBrowser: genBrowser, Logger: logger})
	default:
		return ingestion.FromText(genJobText)
	}
}
