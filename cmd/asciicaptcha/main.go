// Command asciicaptcha generates a degraded ASCII-art captcha image from a
// JSON configuration file, or converts an existing image to ramp art.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wbrown/asciicaptcha"
	"github.com/wbrown/asciicaptcha/imageutil"
)

// appConfig wraps the pipeline configuration with the output-side settings
// the CLI owns. Embedded Config fields decode from the same JSON document.
type appConfig struct {
	Output        string `json:"output"`
	PrintCode     bool   `json:"print_code"`
	DataURLOutput string `json:"data_url_output"`
	asciicaptcha.Config
}

func defaultAppConfig() appConfig {
	return appConfig{
		Output: "captcha.png",
		Config: asciicaptcha.DefaultConfig(),
	}
}

// loadConfig decodes the JSON file over the defaults, so short config files
// only need the fields they change.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "config.json",
		"Path to the JSON configuration file")
	asciify := flag.String("asciify", "",
		"Convert the given image to ramp art on stdout instead of generating a captcha")
	asciifyWidth := flag.Int("width", 80,
		"Column width for -asciify output")
	flag.Parse()

	if *asciify != "" {
		img, err := imageutil.LoadImage(*asciify)
		if err != nil {
			fatal(err)
		}
		lines, err := asciicaptcha.ImageToASCII(img, asciicaptcha.DefaultRamp, *asciifyWidth)
		if err != nil {
			fatal(err)
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}

	img, code, err := asciicaptcha.Generate(cfg.Config)
	if err != nil {
		fatal(err)
	}

	if dir := filepath.Dir(cfg.Output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fatal(err)
		}
	}
	if err := imageutil.SaveImage(img, cfg.Output); err != nil {
		fatal(err)
	}

	if cfg.PrintCode {
		fmt.Println(code)
	} else {
		fmt.Printf("Saved %s\n", cfg.Output)
	}

	if cfg.DataURLOutput != "" {
		url, err := asciicaptcha.ToDataURL(img)
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(cfg.DataURLOutput, []byte(url), 0o644); err != nil {
			fatal(err)
		}
	}
}
