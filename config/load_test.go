package config_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"drover/config"
)

var _ = Describe("Load", func() {

	It("returns built-in defaults when the file does not exist", func() {
		cfg, err := config.Load(filepath.Join(GinkgoT().TempDir(), "missing.hcl"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Defaults.Document).To(Equal("tasks.json"))
		Expect(cfg.Defaults.Journal).To(Equal("progress.txt"))
		Expect(cfg.Defaults.MaxIterations).To(Equal(25))
		Expect(cfg.Engine.Kind).To(Equal("cli"))
		Expect(cfg.Storage.Backend).To(Equal("memory"))
		Expect(cfg.Agent.Dir).To(Equal("."))
	})

	It("decodes all blocks", func() {
		path := writeFixture(`
agent {
  command = "claude"
  args    = ["--model", "opus"]
  dir     = "/work/repo"
}

engine {
  kind     = "api"
  provider = "openai"
  model    = "gpt-5"
  api_key  = "sk-test"
}

defaults {
  document       = "plan/tasks.json"
  journal        = "plan/progress.txt"
  prompt         = "plan/prompt.md"
  max_iterations = 5
}

storage {
  backend = "sqlite"
  path    = ".drover/history.db"
}
`)

		cfg, err := config.LoadAndValidate(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Agent.Command).To(Equal("claude"))
		Expect(cfg.Agent.Args).To(Equal([]string{"--model", "opus"}))
		Expect(cfg.Agent.Dir).To(Equal("/work/repo"))
		Expect(cfg.Engine.Provider).To(Equal("openai"))
		Expect(cfg.Engine.Model).To(Equal("gpt-5"))
		Expect(cfg.Defaults.MaxIterations).To(Equal(5))
		Expect(cfg.Storage.Backend).To(Equal("sqlite"))
	})

	It("resolves variable references", func() {
		path := writeFixture(`
variable "model" {
  default = "claude-sonnet-4-5"
}

engine {
  kind     = "api"
  provider = "anthropic"
  model    = vars.model
}
`)

		cfg, err := config.LoadAndValidate(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Engine.Model).To(Equal("claude-sonnet-4-5"))
	})

	It("lets the environment override a variable default", func() {
		GinkgoT().Setenv("DROVER_VAR_MODEL", "gemini-2.5-pro")
		path := writeFixture(`
variable "model" {
  default = "claude-sonnet-4-5"
}

engine {
  kind     = "api"
  provider = "gemini"
  model    = vars.model
}
`)

		cfg, err := config.LoadAndValidate(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Engine.Model).To(Equal("gemini-2.5-pro"))
	})

	It("rejects malformed HCL", func() {
		path := writeFixture(`engine {`)
		_, err := config.Load(path)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {

	It("rejects an unknown engine kind", func() {
		path := writeFixture(`
engine {
  kind = "tmux"
}
`)
		_, err := config.LoadAndValidate(path)
		Expect(err).To(MatchError(ContainSubstring("unknown kind")))
	})

	It("rejects an unknown provider for the api engine", func() {
		path := writeFixture(`
engine {
  kind     = "api"
  provider = "bedrock"
  model    = "m"
}
`)
		_, err := config.LoadAndValidate(path)
		Expect(err).To(MatchError(ContainSubstring("unknown provider")))
	})

	It("requires a model for the api engine", func() {
		path := writeFixture(`
engine {
  kind     = "api"
  provider = "anthropic"
}
`)
		_, err := config.LoadAndValidate(path)
		Expect(err).To(MatchError(ContainSubstring("model is required")))
	})

	It("rejects a non-positive iteration budget", func() {
		path := writeFixture(`
defaults {
  max_iterations = -1
}
`)
		_, err := config.LoadAndValidate(path)
		Expect(err).To(MatchError(ContainSubstring("max_iterations")))
	})

	It("requires a path for the sqlite backend", func() {
		path := writeFixture(`
storage {
  backend = "sqlite"
}
`)
		_, err := config.LoadAndValidate(path)
		Expect(err).To(MatchError(ContainSubstring("path is required")))
	})
})

var _ = Describe("EngineConfig.ResolveAPIKey", func() {

	It("prefers the configured key", func() {
		e := &config.EngineConfig{Provider: "anthropic", APIKey: "sk-configured"}
		Expect(e.ResolveAPIKey()).To(Equal("sk-configured"))
	})

	It("falls back to the provider's environment variable", func() {
		GinkgoT().Setenv("OPENAI_API_KEY", "sk-env")
		e := &config.EngineConfig{Provider: "openai"}
		Expect(e.ResolveAPIKey()).To(Equal("sk-env"))
	})
})
