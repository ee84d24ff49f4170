//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/devclean/internal/config"
	"github.com/eliteGoblin/devclean/internal/domain"
	"github.com/eliteGoblin/devclean/internal/infra"
	"github.com/eliteGoblin/devclean/internal/policy"
	"github.com/eliteGoblin/devclean/internal/usecase"
	"github.com/eliteGoblin/devclean/test/fixtures"
)

func newPipeline(workers int) *usecase.Pipeline {
	logger := zap.NewNop()
	fsm := infra.NewFileSystemManager()
	registry := policy.NewRegistry()
	verifier := usecase.NewVerifier(usecase.NewClassifier(registry, fsm, logger), fsm, logger)
	return usecase.NewPipeline(
		usecase.NewScanner(registry, fsm, logger),
		usecase.NewSizer(fsm, logger),
		usecase.NewCleaner(verifier, fsm, workers, logger),
		logger,
	)
}

func resolve(root string, categories []string, dryRun bool) domain.ScanConfig {
	cfg := config.Default()
	if categories != nil {
		cfg.Categories = categories
	}
	sc, err := config.Resolve(cfg, root, dryRun)
	Expect(err).NotTo(HaveOccurred())
	return sc
}

var _ = Describe("Cleaning a workspace", func() {
	var (
		ctx       context.Context
		root      string
		workspace *fixtures.FakeWorkspace
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		root, err = filepath.EvalSymlinks(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		workspace = fixtures.NewFakeWorkspace(root)
	})

	Describe("a single Node project", func() {
		var modules fixtures.Artifact

		BeforeEach(func() {
			var err error
			modules, err = workspace.NodeProject("proj", 8, 256)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports the exact size during the scan", func() {
			summary, err := newPipeline(1).Discover(ctx, resolve(root, []string{"node"}, true))
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Candidates).To(HaveLen(1))
			c := summary.Candidates[0]
			Expect(c.Path).To(Equal(modules.Path))
			Expect(c.SizeBytes).To(Equal(modules.Bytes))
			Expect(c.FileCount).To(Equal(modules.Files))
		})

		It("leaves everything in place on a dry run", func() {
			_, report, err := newPipeline(1).Run(ctx, resolve(root, nil, true))
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Outcomes).To(HaveLen(1))
			Expect(report.Outcomes[0].Status).To(Equal(domain.OutcomeSkipped))
			Expect(report.Outcomes[0].Reason).To(Equal(domain.ReasonDryRun))
			Expect(fixtures.Exists(modules.Path)).To(BeTrue())
		})

		It("removes node_modules and keeps the manifest", func() {
			_, report, err := newPipeline(1).Run(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Count(domain.OutcomeSuccess)).To(Equal(1))
			Expect(report.BytesFreed()).To(Equal(modules.Bytes))
			Expect(report.FilesRemoved()).To(Equal(modules.Files))
			Expect(fixtures.Exists(modules.Path)).To(BeFalse())
			Expect(fixtures.Exists(filepath.Join(root, "proj", "package.json"))).To(BeTrue())
		})

		Context("when the manifest disappears after the scan", func() {
			It("skips the directory instead of deleting it", func() {
				p := newPipeline(1)
				summary, err := p.Discover(ctx, resolve(root, nil, false))
				Expect(err).NotTo(HaveOccurred())

				Expect(os.Remove(filepath.Join(root, "proj", "package.json"))).To(Succeed())
				report := p.Execute(ctx, summary)

				Expect(report.Outcomes[0].Status).To(Equal(domain.OutcomeSkipped))
				Expect(report.Outcomes[0].Reason).To(Equal(domain.VerifyMismatched.String()))
				Expect(fixtures.Exists(modules.Path)).To(BeTrue())
			})
		})
	})

	Describe("a mixed workspace", func() {
		var artifacts []fixtures.Artifact

		BeforeEach(func() {
			artifacts = nil
			builders := []func() (fixtures.Artifact, error){
				func() (fixtures.Artifact, error) { return workspace.NodeProject("web", 5, 100) },
				func() (fixtures.Artifact, error) { return workspace.RustProject("svc", 4, 300) },
				func() (fixtures.Artifact, error) { return workspace.MavenProject("api", 3, 50) },
				func() (fixtures.Artifact, error) { return workspace.GradleProject("android", 2, 70) },
				func() (fixtures.Artifact, error) { return workspace.PythonCache("scripts", 6, 10) },
			}
			for _, build := range builders {
				a, err := build()
				Expect(err).NotTo(HaveOccurred())
				artifacts = append(artifacts, a)
			}
		})

		It("cleans every ecosystem in parallel", func() {
			summary, report, err := newPipeline(4).Run(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())

			var wantBytes int64
			for _, a := range artifacts {
				wantBytes += a.Bytes
				Expect(fixtures.Exists(a.Path)).To(BeFalse(), a.Path)
			}
			Expect(summary.Candidates).To(HaveLen(len(artifacts)))
			Expect(report.Count(domain.OutcomeSuccess)).To(Equal(len(artifacts)))
			Expect(report.BytesFreed()).To(Equal(wantBytes))
			Expect(report.ByCategory()).To(HaveLen(4))
		})

		It("cleans only the requested category", func() {
			_, report, err := newPipeline(2).Run(ctx, resolve(root, []string{"rust"}, false))
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Outcomes).To(HaveLen(1))
			Expect(report.Outcomes[0].Candidate.Category).To(Equal(domain.CategoryRustTarget))
			Expect(fixtures.Exists(artifacts[0].Path)).To(BeTrue())
		})

		It("finds nothing on a second pass", func() {
			_, _, err := newPipeline(4).Run(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())

			again, err := newPipeline(1).Discover(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Candidates).To(BeEmpty())
		})
	})

	Describe("directories without a marker", func() {
		It("never touches a bare target directory", func() {
			bare, err := workspace.UnmarkedDir("site", "target", 3, 10)
			Expect(err).NotTo(HaveOccurred())

			summary, report, err := newPipeline(1).Run(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Candidates).To(BeEmpty())
			Expect(report.Outcomes).To(BeEmpty())
			Expect(fixtures.Exists(bare.Path)).To(BeTrue())
		})
	})

	Describe("symlinks", func() {
		It("never classifies or follows a linked node_modules", func() {
			outside := GinkgoT().TempDir()
			external := fixtures.NewFakeWorkspace(outside)
			shared, err := external.NodeProject("shared", 2, 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(os.MkdirAll(filepath.Join(root, "app"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "app", "package.json"), []byte("{}"), 0o644)).To(Succeed())
			if err := workspace.Symlink(shared.Path, filepath.Join("app", "node_modules")); err != nil {
				Skip("symlinks unsupported: " + err.Error())
			}

			summary, _, err := newPipeline(1).Run(ctx, resolve(root, nil, false))
			Expect(err).NotTo(HaveOccurred())

			Expect(summary.Candidates).To(BeEmpty())
			Expect(fixtures.Exists(shared.Path)).To(BeTrue())
		})
	})

	Describe("the run lock", func() {
		It("refuses a second concurrent clean of the same tree", func() {
			dir := GinkgoT().TempDir()
			first := infra.NewRunLockInDir(dir, root)
			Expect(first.Acquire()).To(Succeed())
			DeferCleanup(first.Release)

			second := infra.NewRunLockInDir(dir, root)
			Expect(second.Acquire()).To(MatchError(domain.ErrRunLocked))
		})
	})

	Describe("invalid roots", func() {
		It("rejects a missing directory before scanning", func() {
			_, err := config.Resolve(config.Default(), filepath.Join(root, "missing"), false)
			Expect(err).To(MatchError(domain.ErrInvalidRoot))
		})
	})
})
