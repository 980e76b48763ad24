package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/render"
	"git.home.luguber.info/inful/pvlsite/internal/site"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(global *Global, root *CLI) error {
	return RunInit(global.out(), root.Root, root.ConfigPath(), i.Force)
}

// RunInit writes the default configuration and creates a placeholder fragment for
// every section the default pages need. Existing section files are left alone.
func RunInit(out io.Writer, siteRoot, configPath string, force bool) error {
	_, _ = fmt.Fprintln(out, "Initializing Personal Video Library site")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}

	dir := filepath.Join(siteRoot, site.SectionsDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create sections directory").
			WithContext("path", dir).
			Build()
	}
	created := 0
	for _, key := range render.RequiredSections(true, config.PolicyPageOrder) {
		path := filepath.Join(dir, key+".html")
		if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
			continue
		}
		body := fmt.Sprintf("<!-- %s -->\n<section id=\"%s\"></section>\n", key, key)
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write section placeholder").
				WithContext("path", path).
				Build()
		}
		created++
	}
	_, _ = fmt.Fprintf(out, "Created %d section placeholders in %s\n", created, dir)
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}
