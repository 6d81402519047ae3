package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"confluence2rst/internal/app"
	"confluence2rst/internal/config"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

type Result struct {
	Options    app.Options
	SaveConfig bool
	ConfigPath string
	Config     config.Config
	RunNow     bool
}

func Run() (Result, error) {
	printBanner()
	state := newFormState()
	state.fromConfig(config.FromEnv())

	if err := manageConfigs(state); err != nil {
		return Result{}, err
	}

	form := buildForm(state).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return Result{}, err
	}

	return buildResult(state)
}

func printBanner() {
	fmt.Print(`
                 __ _                          ___           _
  ___ ___  _ __ / _| |_   _  ___ _ __   ___ __|__ \ _ __ ___| |_
 / __/ _ \| '_ \ |_| | | | |/ _ \ '_ \ / __/ _ \/ / | '__/ __| __|
| (_| (_) | | | |  _| | |_| |  __/ | | | (_|  __/ /_ | |  \__ \ |_
 \___\___/|_| |_|_| |_|\__,_|\___|_| |_|\___\___|____||_|  |___/\__|
`)
}

func manageConfigs(state *formState) error {
	for {
		files, err := listConfigFiles()
		if err != nil {
			return fmt.Errorf("failed to list configs: %w", err)
		}

		if len(files) == 0 {
			return nil
		}

		var selectedFile string
		opts := []huh.Option[string]{
			huh.NewOption("Start fresh (no config)", ""),
		}
		for _, f := range files {
			opts = append(opts, huh.NewOption(fmt.Sprintf("Manage %s", f), f))
		}

		selectForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Manage Configurations").
					Description("Select a config to load or manage, or start fresh.").
					Options(opts...).
					Value(&selectedFile),
			),
		).WithTheme(huh.ThemeDracula())

		if err := selectForm.Run(); err != nil {
			return err
		}

		if selectedFile == "" {
			return nil
		}

		var action string
		actionForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Action for %s", selectedFile)).
					Options(
						huh.NewOption("Load this config", "load"),
						huh.NewOption("Clone this config", "clone"),
						huh.NewOption("Delete this config", "delete"),
						huh.NewOption("Back to list", "back"),
					).
					Value(&action),
			),
		).WithTheme(huh.ThemeDracula())

		if err := actionForm.Run(); err != nil {
			return err
		}

		shouldExit, err := executeConfigAction(action, selectedFile, state)
		if err != nil {
			return err
		}
		if shouldExit {
			return nil
		}
	}
}

func listConfigFiles() ([]string, error) {
	var files []string
	for _, dir := range []string{".", config.DefaultConfigDir} {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	return files, nil
}

func executeConfigAction(action, selectedFile string, state *formState) (bool, error) {
	switch action {
	case "load":
		cfg, err := config.Load(selectedFile)
		if err != nil {
			return false, fmt.Errorf("failed to load %s: %w", selectedFile, err)
		}
		state.fromConfig(cfg)
		state.configPath = selectedFile
		return true, nil

	case "clone":
		var newName string
		if err := huh.NewInput().Title("Clone as").Value(&newName).Validate(validateNewFilename).Run(); err != nil {
			return false, err
		}
		cfg, err := config.Load(selectedFile)
		if err != nil {
			return false, fmt.Errorf("failed to load %s: %w", selectedFile, err)
		}
		if err := config.Save(ensureConfigExtension(newName), cfg); err != nil {
			return false, fmt.Errorf("failed to write %s: %w", newName, err)
		}

	case "delete":
		var confirmDelete bool
		if err := huh.NewConfirm().Title(fmt.Sprintf("Really delete %s?", selectedFile)).Affirmative("Yes, delete it.").Negative("No, keep it.").Value(&confirmDelete).Run(); err != nil {
			return false, err
		}
		if confirmDelete {
			if err := os.Remove(selectedFile); err != nil {
				return false, fmt.Errorf("failed to delete %s: %w", selectedFile, err)
			}
		}
	}

	return false, nil
}

type formState struct {
	pageID          string
	baseURL         string
	token           string
	outputDir       string
	timeoutSecStr   string
	userAgent       string
	tableLayout     string
	markdown        bool
	rewriter        string
	rewriteEndpoint string
	rewriteModel    string
	rewriteKey      string
	configPath      string
	finalAction     string
}

func newFormState() *formState {
	return &formState{
		timeoutSecStr: strconv.Itoa(app.DefaultTimeoutSeconds),
		tableLayout:   string(rst.LayoutGrid),
		rewriter:      string(rewrite.KindNone),
		configPath:    config.DefaultConfigFile,
		finalAction:   "run",
	}
}

func (s *formState) fromConfig(cfg config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.pageID, cfg.PageID)
	set(&s.baseURL, cfg.BaseURL)
	set(&s.token, cfg.Token)
	set(&s.outputDir, cfg.OutputDir)
	set(&s.userAgent, cfg.UserAgent)
	set(&s.tableLayout, cfg.TableLayout)
	set(&s.rewriter, cfg.Rewriter)
	set(&s.rewriteEndpoint, cfg.RewriteEndpoint)
	set(&s.rewriteModel, cfg.RewriteModel)
	set(&s.rewriteKey, cfg.RewriteKey)
	if cfg.TimeoutSeconds > 0 {
		s.timeoutSecStr = strconv.Itoa(cfg.TimeoutSeconds)
	}
	if cfg.Markdown {
		s.markdown = true
	}
}

func buildForm(state *formState) *huh.Form {
	return huh.NewForm(
		buildPageGroup(state),
		buildRewriterGroup(state),
		buildLocalGroup(state),
		buildRemoteGroup(state),
		buildOutputGroup(state),
		buildFinishGroup(state),
	)
}

func buildPageGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Page ID").Description("Numeric Confluence content ID.").Value(&state.pageID).
			Validate(required("page id is required")),
		huh.NewInput().Title("Base URL").Placeholder("https://your-domain.atlassian.net").Value(&state.baseURL).
			Validate(required("base url is required")),
		huh.NewInput().Title("API token").EchoMode(huh.EchoModePassword).Value(&state.token).
			Validate(required("token is required")),
		huh.NewInput().Title("Timeout (seconds)").Value(&state.timeoutSecStr).
			Validate(validateIntString(1, 3600)),
	).Title("Confluence Page")
}

func buildRewriterGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().Title("Rewriter").Description("Rewrite headings, paragraphs and list items.").
			Value(&state.rewriter).Options(
			huh.NewOption("None", string(rewrite.KindNone)),
			huh.NewOption("Local text-generation endpoint", string(rewrite.KindLocal)),
			huh.NewOption("Remote (Anthropic)", string(rewrite.KindRemote)),
		),
	).Title("Rewrite")
}

func buildLocalGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Generation endpoint").Placeholder(rewrite.DefaultLocalEndpoint).Value(&state.rewriteEndpoint),
	).Title("Local Rewriter").WithHideFunc(func() bool {
		return state.rewriter != string(rewrite.KindLocal)
	})
}

func buildRemoteGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("API key").EchoMode(huh.EchoModePassword).Value(&state.rewriteKey).
			Validate(required("api key is required for the remote rewriter")),
		huh.NewInput().Title("Model").Placeholder(rewrite.DefaultRemoteModel).Value(&state.rewriteModel),
	).Title("Remote Rewriter").WithHideFunc(func() bool {
		return state.rewriter != string(rewrite.KindRemote)
	})
}

func buildOutputGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Output dir").Description("Optional: defaults to the current directory").Value(&state.outputDir),
		huh.NewSelect[string]().Title("Table layout").Value(&state.tableLayout).Options(
			huh.NewOption("Grid (aligned columns)", string(rst.LayoutGrid)),
			huh.NewOption("Legacy (per-row widths)", string(rst.LayoutLegacy)),
		),
		huh.NewConfirm().Title("Markdown").Description("Also write a .md export?").Value(&state.markdown),
	).Title("Output")
}

func buildFinishGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().Title("Action").Value(&state.finalAction).Options(
			huh.NewOption("Convert now", "run"),
			huh.NewOption("Save config and convert", "save_and_run"),
			huh.NewOption("Only save config", "save_only"),
		),
		huh.NewInput().Title("Config path").
			Description("Path for 'Save' actions. Tokens are not saved.").
			Value(&state.configPath).
			Validate(func(s string) error {
				if !state.saving() {
					return nil
				}
				if strings.TrimSpace(s) == "" {
					return errors.New("filename cannot be empty")
				}
				return nil
			}),
	).Title("Finish")
}

func (s *formState) saving() bool {
	return s.finalAction == "save_and_run" || s.finalAction == "save_only"
}

func buildResult(state *formState) (Result, error) {
	timeoutSec, err := parsePositiveInt(state.timeoutSecStr, "timeout must be a positive integer")
	if err != nil {
		return Result{}, err
	}
	layout, err := rst.ParseTableLayout(state.tableLayout)
	if err != nil {
		return Result{}, err
	}
	kind, err := rewrite.ParseKind(state.rewriter)
	if err != nil {
		return Result{}, err
	}
	endpoint := strings.TrimSpace(state.rewriteEndpoint)
	if kind == rewrite.KindLocal && endpoint == "" {
		endpoint = rewrite.DefaultLocalEndpoint
	}

	cfg := config.Config{
		PageID:          strings.TrimSpace(state.pageID),
		BaseURL:         strings.TrimSpace(state.baseURL),
		OutputDir:       strings.TrimSpace(state.outputDir),
		TimeoutSeconds:  timeoutSec,
		UserAgent:       strings.TrimSpace(state.userAgent),
		TableLayout:     string(layout),
		Markdown:        state.markdown,
		Rewriter:        string(kind),
		RewriteEndpoint: endpoint,
		RewriteModel:    strings.TrimSpace(state.rewriteModel),
	}

	timeout := time.Duration(timeoutSec) * time.Second
	opts := app.Options{
		PageID:      cfg.PageID,
		BaseURL:     cfg.BaseURL,
		Token:       strings.TrimSpace(state.token),
		Timeout:     timeout,
		UserAgent:   cfg.UserAgent,
		OutputDir:   cfg.OutputDir,
		Markdown:    cfg.Markdown,
		TableLayout: layout,
		Rewrite: rewrite.Config{
			Kind:     kind,
			Endpoint: endpoint,
			APIKey:   strings.TrimSpace(state.rewriteKey),
			Model:    cfg.RewriteModel,
			Timeout:  timeout,
		},
	}

	res := Result{
		Options:    opts,
		ConfigPath: ensureConfigExtension(strings.TrimSpace(state.configPath)),
		Config:     cfg,
	}

	switch state.finalAction {
	case "run":
		res.RunNow = true
	case "save_and_run":
		res.RunNow = true
		res.SaveConfig = true
	case "save_only":
		res.SaveConfig = true
	}

	if res.SaveConfig {
		if err := config.Save(res.ConfigPath, cfg); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func parsePositiveInt(s, errMsg string) (int, error) {
	val, err := parseInt(s)
	if err != nil || val <= 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func validateIntString(minVal, maxVal int) func(string) error {
	return func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return errors.New("must be an integer")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %d and %d", minVal, maxVal)
		}
		return nil
	}
}

func validateNewFilename(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.ContainsAny(s, `/\:*?"<>|`) {
		return errors.New("invalid characters")
	}
	if _, err := os.Stat(ensureConfigExtension(s)); err == nil {
		return errors.New("file already exists")
	}
	return nil
}

func ensureConfigExtension(s string) string {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".json", ".yaml", ".yml":
		return s
	}
	return s + ".json"
}
