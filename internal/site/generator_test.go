package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	ferrors "git.home.luguber.info/inful/pvlsite/internal/foundation/errors"
	"git.home.luguber.info/inful/pvlsite/internal/metrics"
	"git.home.luguber.info/inful/pvlsite/internal/report"
	pvltest "git.home.luguber.info/inful/pvlsite/internal/testing"
)

func loadConfig(t *testing.T, persisted map[string]any) *config.Config {
	t.Helper()
	cfg, err := config.FromTree(config.Merge(config.Defaults(), persisted))
	require.NoError(t, err)
	return cfg
}

func prepare(t *testing.T, root string, cfg *config.Config) *Generator {
	t.Helper()
	g, err := Prepare(Options{Root: root, Config: cfg})
	require.NoError(t, err)
	return g
}

func TestGenerateHomePage(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, map[string]any{
		"generate_main_page": true,
		"output_targets":     map[string]any{"build": true},
	})

	dirs, err := prepare(t, root, cfg).Generate(context.Background(), cfg.EnabledTargets())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "build")}, dirs)

	pvltest.NewFileAssertions(t, root).
		AssertFileContains("build/index.html", `<header class="site-header">`).
		AssertFileContains("build/index.html", `<img src="shared/branding/logo.png" alt="PVL Logo" class="logo-img">`).
		AssertFileContains("build/index.html", "url('shared/branding/banner.png')").
		AssertFileNotContains("build/index.html", "{{BANNER_IMAGE}}").
		AssertFileNotContains("build/index.html", "{{LOGO_IMAGE}}").
		AssertFileContains("build/index.html", `<a href="index.html" class="nav-link active">Home</a>`).
		AssertFileContains("build/index.html", `rel="noopener noreferrer"`).
		AssertFileContains("build/index.html", "data:image/x-icon;base64,").
		AssertFileContains("build/index.html", "body { margin: 0; }").
		AssertFileContains("build/index.html", `<script type="module" src="shared/scripts/site.js"></script>`).
		AssertFileExists("build/shared/scripts/lib/nav.js")
}

func TestGenerateWithoutScriptsOmitsScriptTag(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	require.NoError(t, os.RemoveAll(filepath.Join(root, "shared", "scripts")))
	cfg := loadConfig(t, nil)

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	pvltest.NewFileAssertions(t, root).
		AssertFileNotContains("build/index.html", "<script type=\"module\"").
		AssertFileNotContains("build/contact.html", "<script type=\"module\"")
}

func TestGeneratePolicyPageMarksNavigation(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, map[string]any{
		"generate_main_page":    false,
		"generate_policy_pages": map[string]any{"privacy_policy": true, "terms_of_service": false, "cookie_policy": false, "refund_policy": false, "contact": false},
	})

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	fa := pvltest.NewFileAssertions(t, root)
	fa.AssertFileContains("build/privacy_policy.html", `<a href="privacy_policy.html" class="nav-link active">Privacy</a>`).
		AssertFileContains("build/privacy_policy.html", `<a href="privacy_policy.html" class="footer-link current-page">Privacy Policy</a>`).
		AssertFileContains("build/privacy_policy.html", `<a href="terms_of_service.html" class="nav-link">Terms</a>`).
		AssertFileContains("build/privacy_policy.html", "Privacy policy body").
		AssertFileNotExists("build/index.html").
		AssertFileNotExists("build/terms_of_service.html")
	assert.ElementsMatch(t, []string{"privacy_policy.html", "manifest.json"}, fa.ListFiles("build"))
}

func TestGenerateNoResidueAcrossPages(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, nil)

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	fa := pvltest.NewFileAssertions(t, root)
	terms := fa.GetFileContent("build/terms_of_service.html")
	assert.Equal(t, 1, strings.Count(terms, " active\""))
	assert.Contains(t, terms, `<a href="terms_of_service.html" class="nav-link active">Terms</a>`)
	assert.Contains(t, terms, `<a href="privacy_policy.html" class="nav-link">Privacy</a>`)
	assert.NotContains(t, terms, `privacy_policy.html" class="footer-link current-page"`)

	cookies := fa.GetFileContent("build/cookie_policy.html")
	assert.NotContains(t, cookies, "current-page", "footer does not link the cookie policy")
}

func TestGenerateCleansStaleFiles(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).
		WithFile("build/old.html", "stale").
		Build()
	cfg := loadConfig(t, map[string]any{"clean_outputs": true})

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	pvltest.NewFileAssertions(t, root).
		AssertFileNotExists("build/old.html").
		AssertFileExists("build/index.html")
}

func TestGenerateWithoutCleanKeepsFiles(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).
		WithFile("build/old.html", "stale").
		Build()
	cfg, err := loadConfig(t, nil).WithOverrides(config.Overrides{NoClean: true})
	require.NoError(t, err)

	_, err = prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	pvltest.NewFileAssertions(t, root).
		AssertFileExists("build/old.html").
		AssertFileExists("build/index.html")
}

func TestGenerateNoTargets(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, map[string]any{"output_targets": map[string]any{"build": false}})
	require.Empty(t, cfg.EnabledTargets())

	dirs, err := prepare(t, root, cfg).Generate(context.Background(), cfg.EnabledTargets())
	require.Error(t, err)
	assert.True(t, ferrors.IsNoTargetsEnabled(err))
	assert.Empty(t, dirs)

	fa := pvltest.NewFileAssertions(t, root)
	for _, target := range config.KnownTargets {
		fa.AssertEmptyTree(target)
	}
}

func TestGenerateMissingSectionTouchesNothing(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).
		WithoutSection("footer").
		WithoutSection("pricing").
		WithFile("build/old.html", "stale").
		Build()
	cfg := loadConfig(t, nil)

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.Error(t, err)
	assert.True(t, ferrors.IsMissingSection(err))
	assert.Equal(t, []string{"footer", "pricing"}, ferrors.MissingKeys(err))

	pvltest.NewFileAssertions(t, root).AssertFileExists("build/old.html")
}

func TestGenerateHomeSectionsOnlyRequiredForHome(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).
		WithoutSection("pricing").
		Build()
	cfg := loadConfig(t, map[string]any{"generate_main_page": false})

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)
}

func TestGenerateMultipleTargetsIndependent(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, map[string]any{"output_targets": map[string]any{"dist": true, "deploy": true}})

	dirs, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetDeploy, config.TargetDist})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "deploy"), filepath.Join(root, "dist")}, dirs)

	fa := pvltest.NewFileAssertions(t, root)
	for _, target := range []string{"dist", "deploy"} {
		fa.AssertFileExists(target+"/index.html").
			AssertFileExists(target+"/contact.html").
			AssertFileContains(target+"/contact.html", `id="success-modal"`).
			AssertFileExists(target+"/shared/branding/logo.png").
			AssertFileExists(target+"/icons/icon-192.png").
			AssertFileExists(target+"/assets/js/site.js").
			AssertFileContains(target+"/contact.html", `src="shared/scripts/site.js"`).
			AssertFileExists(target+"/manifest.json")
	}
	assert.Equal(t, fa.GetFileContent("dist/index.html"), fa.GetFileContent("deploy/index.html"))
}

func TestGenerateRejectsReservedTarget(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, nil)

	for _, name := range []string{"sections", "../escape", "."} {
		_, err := prepare(t, root, cfg).Generate(context.Background(), []string{name})
		require.Error(t, err, name)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation), name)
	}
	pvltest.NewFileAssertions(t, root).AssertFileExists("sections/header.html")
}

func TestGenerateOutputEndsWithSingleNewline(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, nil)

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "build", "index.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "</html>\n"))
}

func TestGenerateCanceled(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := prepare(t, root, cfg).Generate(ctx, []string{config.TargetBuild})
	require.ErrorIs(t, err, context.Canceled)
	pvltest.NewFileAssertions(t, root).AssertEmptyTree("build")
}

func TestGenerateRecordsMetricsAndReport(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).Build()
	cfg := loadConfig(t, nil)
	reg := prom.NewRegistry()
	g := prepare(t, root, cfg)
	g.Recorder = metrics.NewPrometheusRecorder(reg)
	g.Report = report.New(root, cfg.Snapshot(), string(cfg.Theme))

	_, err := g.Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	require.Len(t, g.Report.Targets, 1)
	assert.Equal(t, "build", g.Report.Targets[0].Name)
	assert.Len(t, g.Report.Targets[0].Pages, 6)
	assert.Equal(t, 5, g.Report.Targets[0].Assets)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "pvlsite_pages_written_total" {
			found = true
			assert.InDelta(t, 6, mf.GetMetric()[0].GetCounter().GetValue(), 0)
		}
	}
	assert.True(t, found)
}

func TestGenerateMarkdownAndTextFixes(t *testing.T) {
	root := pvltest.NewSiteBuilder(t).
		WithoutSection("refund_policy").
		WithFile("sections/refund_policy.md", "## Refunds\n\nAsk our talkshow hosts via [contact](/contact.html).\n").
		WithFile("text_fixes.yaml", "fixes:\n  - find: talkshow\n    replace: talk show\n").
		Build()
	cfg := loadConfig(t, nil)

	_, err := prepare(t, root, cfg).Generate(context.Background(), []string{config.TargetBuild})
	require.NoError(t, err)

	pvltest.NewFileAssertions(t, root).
		AssertFileContains("build/refund_policy.html", "talk show hosts").
		AssertFileContains("build/refund_policy.html", `<a href="contact.html">contact</a>`).
		AssertFileContains("build/refund_policy.html", "<title>Refund Policy - Personal Video Library</title>")
}
