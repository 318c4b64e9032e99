// Command reflectpause checks text for toxicity and prints the
// reflective prompt a host would show before sending.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ZaguanLabs/reflectpause"
	"github.com/ZaguanLabs/reflectpause/cache"
	"github.com/ZaguanLabs/reflectpause/decisions"
	"github.com/ZaguanLabs/reflectpause/engine"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type checkOutput struct {
	NeedsReflection bool                     `json:"needs_reflection"`
	Score           float64                  `json:"score"`
	Engine          string                   `json:"engine"`
	Cached          bool                     `json:"cached"`
	ElapsedMs       int64                    `json:"elapsed_ms"`
	DetectedLocale  string                   `json:"detected_locale"`
	Prompt          *reflectpause.PromptData `json:"prompt,omitempty"`
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("reflectpause", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to JSON config file")
	localeFlag := fs.String("locale", "", "Preferred prompt locale (default: auto-detect from text)")
	detectOnly := fs.Bool("detect", false, "Only detect the text's language and exit")
	listLocales := fs.Bool("locales", false, "List supported locales and exit")
	infoLocale := fs.String("info", "", "Show resolution info for a locale input and exit")
	stripHTML := fs.Bool("strip-html", false, "Strip HTML markup before scoring")
	decisionLog := fs.String("decision-log", "", "Append a prompt_viewed entry to this decision log")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Only print the decision, no prompt content")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", reflectpause.Name, reflectpause.FullVersion())
		return nil
	}

	if *listLocales {
		fmt.Fprintln(stdout, strings.Join(reflectpause.AvailableLocales(), "\n"))
		return nil
	}

	cfg, err := reflectpause.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	opts := []reflectpause.PauserOption{
		reflectpause.WithEngine(engine.NewHeuristicEngine()),
		reflectpause.WithDefaultLocale(cfg.DefaultLocale),
	}
	if key := os.Getenv("PERSPECTIVE_API_KEY"); key != "" {
		opts = append(opts, reflectpause.WithEngine(engine.NewPerspectiveEngine(engine.PerspectiveConfig{
			APIKey: key,
		})))
	}
	if os.Getenv("OPENAI_API_KEY") != "" {
		opts = append(opts, reflectpause.WithEngine(engine.NewModerationEngine(engine.ModerationConfig{})))
	}
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisURL != "" {
			rc, err := cache.NewRedisCache(cache.RedisConfig{
				URL: cfg.Cache.RedisURL,
				TTL: cfg.Cache.TTLSeconds,
			})
			if err != nil {
				return fmt.Errorf("connecting score cache: %w", err)
			}
			defer rc.Close()
			opts = append(opts, reflectpause.WithCache(rc))
		} else {
			opts = append(opts, reflectpause.WithCache(cache.NewInMemoryCache(cfg.Cache.MaxSize, cfg.Cache.TTLSeconds)))
		}
	}
	if *stripHTML {
		opts = append(opts, reflectpause.WithMarkupStripping())
	}
	if !*quiet {
		logger, err := zap.NewProduction()
		if err == nil {
			defer logger.Sync() //nolint:errcheck
			opts = append(opts, reflectpause.WithLogger(logger))
		}
	}

	pauser, err := reflectpause.NewPauser(cfg.EngineConfig(), opts...)
	if err != nil {
		return err
	}

	if *infoLocale != "" {
		info, err := pauser.LocaleInfo(*infoLocale)
		if err != nil {
			return err
		}
		return writeJSON(stdout, info)
	}

	text, err := readInput(fs.Args())
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		fs.Usage()
		return fmt.Errorf("no input text")
	}

	if *detectOnly {
		fmt.Fprintln(stdout, reflectpause.DetectLanguage(text))
		return nil
	}

	res, err := pauser.CheckResult(context.Background(), text)
	if err != nil {
		return err
	}

	out := checkOutput{
		NeedsReflection: res.IsToxic,
		Score:           res.Score,
		Engine:          string(res.EngineUsed),
		Cached:          res.Cached,
		ElapsedMs:       res.Elapsed.Milliseconds(),
		DetectedLocale:  reflectpause.DetectLanguage(text),
	}

	if res.IsToxic && !*quiet {
		prompt, err := pauser.GeneratePromptAutoDetect(text, *localeFlag)
		if err != nil {
			return err
		}
		out.Prompt = &prompt

		if *decisionLog != "" {
			dl, err := decisions.NewLogger(*decisionLog)
			if err != nil {
				return err
			}
			if err := dl.Log(decisions.PromptViewed, prompt.Locale); err != nil {
				fmt.Fprintf(stderr, "warning: decision log write failed: %v\n", err)
			}
		}
	}

	return writeJSON(stdout, out)
}

func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	// User-provided path is intentional for a CLI tool.
	data, err := os.ReadFile(args[0]) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
