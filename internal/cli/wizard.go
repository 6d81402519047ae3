package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"confluence2rst/internal/app"
	"confluence2rst/internal/config"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

func RunConfigWizard(defaultPath string) error {
	if defaultPath == "" {
		defaultPath = config.DefaultConfigFile
	}
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Config wizard (press Enter to accept defaults)")

	path := promptString(reader, "Config file path (.json or .yaml)", defaultPath)
	pageID := promptString(reader, "Confluence Page ID", "")
	baseURL := promptString(reader, "Confluence Base URL (e.g., https://your-domain.atlassian.net)", "")
	outputDir := promptString(reader, "Output dir (optional)", "")
	timeout := promptInt(reader, "Timeout seconds", app.DefaultTimeoutSeconds)
	layout := promptString(reader, "Table layout (grid|legacy)", string(rst.LayoutGrid))
	markdown := promptBool(reader, "Also write Markdown (true/false)", false)
	rewriter := promptString(reader, "Rewriter (none|local|remote)", string(rewrite.KindNone))
	endpoint := ""
	if rewriter == string(rewrite.KindLocal) {
		endpoint = promptString(reader, "Local generation endpoint", rewrite.DefaultLocalEndpoint)
	}

	if _, err := rst.ParseTableLayout(layout); err != nil {
		return err
	}
	if _, err := rewrite.ParseKind(rewriter); err != nil {
		return err
	}

	cfg := config.Config{
		PageID:          strings.TrimSpace(pageID),
		BaseURL:         strings.TrimSpace(baseURL),
		OutputDir:       strings.TrimSpace(outputDir),
		TimeoutSeconds:  timeout,
		TableLayout:     layout,
		Markdown:        markdown,
		Rewriter:        rewriter,
		RewriteEndpoint: endpoint,
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (tokens are read from %s / %s, not stored)\n", path, config.EnvToken, config.EnvRewriteKey)
	return nil
}

func promptString(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, def int) int {
	fmt.Printf("%s [%d]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	var val int
	if _, err := fmt.Sscanf(line, "%d", &val); err != nil {
		return def
	}
	return val
}

func promptBool(reader *bufio.Reader, label string, def bool) bool {
	fmt.Printf("%s [%t]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return def
	}
	return line == "true" || line == "1" || line == "yes" || line == "y"
}
