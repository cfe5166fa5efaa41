package cmd_embed

import (
	"bytes"
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"go.uber.org/atomic"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/apperr"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/config"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/cmd/root_cmd"
)

func newTestRoot(t *testing.T, fs afero.Fs, env map[string]string, out *bytes.Buffer) *root_cmd.RootCmd {
	t.Helper()
	root := &root_cmd.RootCmd{
		Params: &root_cmd.Params{IsCanceled: atomic.NewBool(false)},
		Logger: logger.New(logger.WithWriter(out)),
		Fs:     fs,
		Resolver: &config.Resolver{
			Env: func(key string) (string, bool) {
				v, ok := env[key]
				return v, ok
			},
			Fs:      fs,
			WorkDir: "/work",
			AppDir:  "/opt/stackathon/bin",
		},
	}
	if err := root.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	return root
}

func TestEmbedDryRun(t *testing.T) {
	RegisterTestingT(t)

	fs := afero.NewMemMapFs()
	Expect(afero.WriteFile(fs, "/photos/1.jpg", []byte("one"), 0o644)).To(Succeed())
	Expect(afero.WriteFile(fs, "/photos/3.jpg", []byte("three"), 0o644)).To(Succeed())

	var out bytes.Buffer
	cmd := &embedCmd{Root: newTestRoot(t, fs, nil, &out), DryRun: true, Dir: "/photos", Count: 3}
	Expect(cmd.Run(context.Background())).To(Succeed())
	Expect(out.String()).To(ContainSubstring("would embed 1.jpg (3 bytes)"))
	Expect(out.String()).To(ContainSubstring("image not found, skipping: 2.jpg"))
	Expect(out.String()).To(ContainSubstring("would embed 3.jpg (5 bytes)"))
}

func TestEmbedRequiresVoyageKey(t *testing.T) {
	RegisterTestingT(t)

	cmd := &embedCmd{Root: newTestRoot(t, afero.NewMemMapFs(), nil, &bytes.Buffer{})}
	err := cmd.Run(context.Background())
	Expect(apperr.KindOf(err)).To(Equal(apperr.KindConfiguration))
	Expect(err.Error()).To(ContainSubstring(config.EnvVoyageKey))
}

func TestEmbedRequiresDatabaseConfig(t *testing.T) {
	RegisterTestingT(t)

	cmd := &embedCmd{Root: newTestRoot(t, afero.NewMemMapFs(), map[string]string{config.EnvVoyageKey: "vk"}, &bytes.Buffer{})}
	err := cmd.Run(context.Background())
	Expect(apperr.KindOf(err)).To(Equal(apperr.KindConfiguration))
	Expect(err.Error()).To(ContainSubstring(config.EnvCluster))
}
