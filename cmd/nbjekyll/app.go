package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gorewood/nbjekyll/internal/config"
	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/frontmatter"
	"github.com/gorewood/nbjekyll/internal/notebook"
	"github.com/gorewood/nbjekyll/internal/preprocess"
	"github.com/gorewood/nbjekyll/internal/trust"
)

// configFlags maps config keys to the flags that override them.
var configFlags = map[string]string{
	"header_type":    "header-type",
	"raw_tag":        "rm-tag",
	"template":       "template",
	"jobs":           "jobs",
	"watch.debounce": "debounce",
}

// app holds the services a command runs on.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	opts     preprocess.Options
	store    *notebook.Store
	sigs     *trust.Store
	signer   *trust.Signer
	exporter *export.Exporter
}

// appOptions adjusts loadApp.
type appOptions struct {
	// noSign skips signing even when trust.enabled is set.
	noSign bool
	// needTemplate resolves the header template.
	needTemplate bool
}

// loadApp resolves configuration from files, environment and cmd's flags
// and builds the services. Callers must call close.
func loadApp(cmd *cobra.Command, aopts appOptions) (*app, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
		FlagKeys:   configFlags,
	})
	if err != nil {
		return nil, classify(err)
	}

	a := &app{cfg: cfg, logger: newLogger(cmd, cfg)}
	a.store = notebook.NewStore(nil)

	style, err := preprocess.ParseStyle(cfg.HeaderType)
	if err != nil {
		return nil, classify(err)
	}
	a.opts = preprocess.Options{
		Style:          style,
		FrontMatterTag: cfg.FrontMatterTag,
		RawTag:         cfg.RawTag,
	}
	if aopts.needTemplate {
		tmpl, err := frontmatter.LoadTemplate(cfg.Template)
		if err != nil {
			return nil, classify(err)
		}
		a.logger.Debug("header template", "name", tmpl.Name, "source", tmpl.Source)
		a.opts.Template = tmpl
	}

	if cfg.Trust.Enabled && !aopts.noSign {
		if err := a.openTrust(); err != nil {
			return nil, err
		}
	}
	a.exporter = export.NewExporter(a.store, a.signer, a.logger)
	return a, nil
}

func (a *app) openTrust() error {
	secret, err := trust.LoadSecret(afero.NewOsFs(), a.cfg.Trust.SecretFile)
	if err != nil {
		return classify(fmt.Errorf("loading notebook secret: %w", err))
	}
	sigs, err := trust.OpenStore(a.cfg.Trust.DBPath)
	if err != nil {
		return classify(fmt.Errorf("opening signature store: %w", err))
	}
	signer, err := trust.NewSigner(secret, sigs)
	if err != nil {
		_ = sigs.Close()
		return classify(err)
	}
	a.sigs = sigs
	a.signer = signer
	return nil
}

func (a *app) close() {
	if a != nil && a.sigs != nil {
		if err := a.sigs.Close(); err != nil {
			a.logger.Warn("closing signature store", "err", err)
		}
	}
}

// newLogger logs to stderr at the configured level, or debug with --verbose.
func newLogger(cmd *cobra.Command, cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "nbjekyll",
		Level:  level,
	})
}
