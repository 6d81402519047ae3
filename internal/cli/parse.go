package cli

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"confluence2rst/internal/app"
	"confluence2rst/internal/config"
	"confluence2rst/internal/logger"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "error"
}

func (e ExitError) Unwrap() error { return e.Err }

// Invocation is the fully merged result of flags, config file and environment.
type Invocation struct {
	Options    app.Options
	LogLevel   string
	InitConfig bool
	ConfigPath string
}

func ParseArgs(args []string) (Invocation, error) {
	parsed, err := parseFlags(args)
	if err != nil {
		return Invocation{}, ExitError{Code: 2, Err: err}
	}
	if parsed.initConfig {
		return Invocation{InitConfig: true, ConfigPath: parsed.configStr}, nil
	}

	configPath := parsed.configStr
	if configPath == "" {
		configPath = config.Discover()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return Invocation{}, fmt.Errorf("load config %s: %w", configPath, err)
	}

	applyConfigDefaults(&parsed, MergeEnv(cfg, config.FromEnv()))
	inv, err := buildInvocation(parsed)
	if err != nil {
		return Invocation{}, err
	}
	inv.ConfigPath = configPath
	return inv, nil
}

type parsedFlags struct {
	configStr       string
	initConfig      bool
	pageID          stringFlag
	baseURL         stringFlag
	token           stringFlag
	outputDir       stringFlag
	timeout         intFlag
	userAgent       stringFlag
	tableLayout     stringFlag
	markdown        boolFlag
	stdout          boolFlag
	logLevel        stringFlag
	rewriter        stringFlag
	rewriteEndpoint stringFlag
	rewriteModel    stringFlag
	rewriteKey      stringFlag
}

func parseFlags(args []string) (parsedFlags, error) {
	fs := flag.NewFlagSet("confluence2rst", flag.ContinueOnError)
	parsed := parsedFlags{}

	fs.StringVar(&parsed.configStr, "config", "", "Path to JSON or YAML config file")
	fs.BoolVar(&parsed.initConfig, "init-config", false, "Interactive config wizard")
	fs.Var(&parsed.pageID, "page-id", "Confluence page ID")
	fs.Var(&parsed.baseURL, "base-url", "Confluence base URL (e.g. https://your-domain.atlassian.net)")
	fs.Var(&parsed.token, "token", "Confluence API token (or "+config.EnvToken+")")
	fs.Var(&parsed.outputDir, "output-dir", "Directory for the .rst file (default: current directory)")
	parsed.timeout.Value = app.DefaultTimeoutSeconds
	fs.Var(&parsed.timeout, "timeout", "Timeout seconds for each network call")
	fs.Var(&parsed.userAgent, "user-agent", "User-Agent header")
	parsed.tableLayout.Value = string(rst.LayoutGrid)
	fs.Var(&parsed.tableLayout, "table-layout", "Table layout: grid|legacy")
	fs.Var(&parsed.markdown, "markdown", "Also write a Markdown export next to the .rst file")
	fs.Var(&parsed.stdout, "stdout", "Print reStructuredText to stdout instead of writing a file")
	parsed.logLevel.Value = "info"
	fs.Var(&parsed.logLevel, "log-level", "Log level: debug|info|warn|error")
	parsed.rewriter.Value = string(rewrite.KindNone)
	fs.Var(&parsed.rewriter, "rewriter", "Rewrite text fragments with: none|local|remote")
	fs.Var(&parsed.rewriteEndpoint, "rewrite-endpoint", "Local generation endpoint, or API base URL for remote")
	fs.Var(&parsed.rewriteModel, "rewrite-model", "Model for the remote rewriter")
	fs.Var(&parsed.rewriteKey, "rewrite-key", "API key for the remote rewriter (or "+config.EnvRewriteKey+")")

	if err := fs.Parse(args); err != nil {
		return parsed, err
	}
	if fs.NArg() > 0 {
		return parsed, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return parsed, nil
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.Load(path)
}

// MergeEnv fills settings missing from cfg with values from the environment.
func MergeEnv(cfg, env config.Config) config.Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = env.BaseURL
	}
	if cfg.Token == "" {
		cfg.Token = env.Token
	}
	if cfg.RewriteKey == "" {
		cfg.RewriteKey = env.RewriteKey
	}
	return cfg
}

func applyConfigDefaults(parsed *parsedFlags, cfg config.Config) {
	fill(&parsed.pageID, cfg.PageID)
	fill(&parsed.baseURL, cfg.BaseURL)
	fill(&parsed.token, cfg.Token)
	fill(&parsed.outputDir, cfg.OutputDir)
	fill(&parsed.userAgent, cfg.UserAgent)
	fill(&parsed.tableLayout, cfg.TableLayout)
	fill(&parsed.logLevel, cfg.LogLevel)
	fill(&parsed.rewriter, cfg.Rewriter)
	fill(&parsed.rewriteEndpoint, cfg.RewriteEndpoint)
	fill(&parsed.rewriteModel, cfg.RewriteModel)
	fill(&parsed.rewriteKey, cfg.RewriteKey)
	if !parsed.timeout.WasSet && cfg.TimeoutSeconds > 0 {
		parsed.timeout.Value = cfg.TimeoutSeconds
	}
	if !parsed.markdown.WasSet && cfg.Markdown {
		parsed.markdown.Value = true
	}
}

func fill(f *stringFlag, value string) {
	if !f.WasSet && value != "" {
		f.Value = value
	}
}

func buildInvocation(parsed parsedFlags) (Invocation, error) {
	if parsed.pageID.Value == "" {
		return Invocation{}, ExitError{Code: 2, Err: errors.New("--page-id is required")}
	}
	if parsed.baseURL.Value == "" {
		return Invocation{}, ExitError{Code: 2, Err: errors.New("--base-url is required (or set " + config.EnvBaseURL + ")")}
	}
	if parsed.token.Value == "" {
		return Invocation{}, ExitError{Code: 2, Err: errors.New("--token is required (or set " + config.EnvToken + ")")}
	}
	if parsed.timeout.Value <= 0 {
		return Invocation{}, ExitError{Code: 2, Err: errors.New("--timeout must be positive")}
	}
	layout, err := rst.ParseTableLayout(parsed.tableLayout.Value)
	if err != nil {
		return Invocation{}, ExitError{Code: 2, Err: err}
	}
	kind, err := rewrite.ParseKind(parsed.rewriter.Value)
	if err != nil {
		return Invocation{}, ExitError{Code: 2, Err: err}
	}
	if err := logger.ValidLevel(parsed.logLevel.Value); err != nil {
		return Invocation{}, ExitError{Code: 2, Err: err}
	}

	endpoint := parsed.rewriteEndpoint.Value
	if kind == rewrite.KindLocal && endpoint == "" {
		endpoint = rewrite.DefaultLocalEndpoint
	}
	timeout := time.Duration(parsed.timeout.Value) * time.Second

	opts := app.Options{
		PageID:      parsed.pageID.Value,
		BaseURL:     parsed.baseURL.Value,
		Token:       parsed.token.Value,
		Timeout:     timeout,
		UserAgent:   parsed.userAgent.Value,
		OutputDir:   parsed.outputDir.Value,
		Stdout:      parsed.stdout.Value,
		Markdown:    parsed.markdown.Value,
		TableLayout: layout,
		Rewrite: rewrite.Config{
			Kind:     kind,
			Endpoint: endpoint,
			APIKey:   parsed.rewriteKey.Value,
			Model:    parsed.rewriteModel.Value,
			Timeout:  timeout,
		},
	}
	return Invocation{Options: opts, LogLevel: parsed.logLevel.Value}, nil
}
