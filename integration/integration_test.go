package integration_test

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kardolus/gpt5/api"
	"github.com/kardolus/gpt5/internal"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gexec"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
)

const sessionTimeout = 30 * time.Second

func TestIntegration(t *testing.T) {
	defer gexec.CleanupBuildArtifacts()
	spec.Run(t, "Integration Tests", testIntegration, spec.Report(report.Terminal{}))
}

func testIntegration(t *testing.T, when spec.G, it spec.S) {
	var (
		server  *mockServer
		workDir string
		env     []string
	)

	it.Before(func() {
		RegisterTestingT(t)
		Expect(buildBinary()).To(Succeed())

		server = newMockServer()
		workDir = t.TempDir()

		env = []string{
			"PATH=" + os.Getenv("PATH"),
			"HOME=" + workDir,
			internal.ConfigHomeEnv + "=" + filepath.Join(workDir, ".gpt5"),
			"GPT5_URL=" + server.URL,
			"GPT5_API_KEY=" + expectedToken,
		}
	})

	it.After(func() {
		server.Close()
	})

	start := func(stdin io.Reader, args ...string) *gexec.Session {
		command := exec.Command(binaryPath, args...)
		command.Env = env
		command.Dir = workDir
		command.Stdin = stdin

		session, err := gexec.Start(command, io.Discard, io.Discard)
		Expect(err).NotTo(HaveOccurred())
		Eventually(session, sessionTimeout).Should(gexec.Exit())
		return session
	}

	run := func(args ...string) *gexec.Session {
		return start(nil, args...)
	}

	without := func(name string) {
		for i, entry := range env {
			if strings.HasPrefix(entry, name+"=") {
				env = append(env[:i], env[i+1:]...)
				return
			}
		}
	}

	when("querying", func() {
		it("prints the text of the reply", func() {
			session := run("what", "is", "go?")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring("echo: what is go?"))

			requests := server.Requests()
			Expect(requests).To(HaveLen(1))
			Expect(requests[0].Body).To(HaveKeyWithValue("model", "gpt-5"))
			Expect(requests[0].RequestID).NotTo(BeEmpty())
		})

		it("appends piped input to the prompt", func() {
			session := start(strings.NewReader("some context\n"), "summarize")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(server.Requests()[0].Body).To(HaveKeyWithValue("input", "summarize\n\nsome context"))
		})

		it("sends the flags as request fields", func() {
			session := run("--effort", "high", "--verbosity", "high", "--max-output-tokens", "500", "--instructions", "be brief", "hi")

			Expect(session.ExitCode()).To(Equal(0))
			body := server.Requests()[0].Body
			Expect(body).To(HaveKeyWithValue("reasoning_effort", "high"))
			Expect(body).To(HaveKeyWithValue("verbosity", "high"))
			Expect(body).To(HaveKeyWithValue("max_output_tokens", float64(500)))
			Expect(body).To(HaveKeyWithValue("instructions", "be brief"))
		})

		it("prints validation warnings on stderr without blocking the request", func() {
			session := run("--max-output-tokens", "5", "hi")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Err.Contents())).To(ContainSubstring(api.WarnLowOutputTokens))
			Expect(server.Requests()).To(HaveLen(1))
		})

		it("prints the function calls of the reply", func() {
			toolsFile := filepath.Join(workDir, "tools.yaml")
			Expect(os.WriteFile(toolsFile, []byte("- name: get_weather\n  description: weather lookup\n"), 0o600)).To(Succeed())

			session := run("--tools-file", toolsFile, "weather in paris?")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring(`function call: get_weather({"city":"Paris"})`))
		})

		it("prints the suggested query when the search is deferred", func() {
			session := run("--web", "--web-query", "paris weather", "weather in paris?")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring("suggested search: paris weather"))

			tools := server.Requests()[0].Body["tools"]
			Expect(tools).To(Equal([]any{map[string]any{"type": "web_search"}}))
		})

		it("fails without a prompt", func() {
			session := run()

			Expect(session.ExitCode()).To(Equal(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("you must specify your query"))
		})
	})

	when("authenticating", func() {
		it("reports the http status of a rejected key", func() {
			without("GPT5_API_KEY")
			env = append(env, "GPT5_API_KEY=wrong-key")

			session := run("hi")

			Expect(session.ExitCode()).To(Equal(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("http status 401: Incorrect API key provided"))
		})

		it("fails when no key is configured", func() {
			without("GPT5_API_KEY")

			session := run("hi")

			Expect(session.ExitCode()).To(Equal(1))
			Expect(string(session.Err.Contents())).To(ContainSubstring("missing environment variable: GPT5_API_KEY"))
			Expect(server.Requests()).To(BeEmpty())
		})

		it("loads the key from a .env file", func() {
			without("GPT5_API_KEY")
			Expect(os.WriteFile(filepath.Join(workDir, ".env"), []byte("GPT5_API_KEY="+expectedToken+"\n"), 0o600)).To(Succeed())

			session := run("hi")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring("echo: hi"))
		})

		it("reads the key from a key file", func() {
			without("GPT5_API_KEY")
			keyFile := filepath.Join(workDir, "key.txt")
			Expect(os.WriteFile(keyFile, []byte(expectedToken+"\n"), 0o600)).To(Succeed())
			env = append(env, "GPT5_API_KEY_FILE="+keyFile)

			session := run("hi")

			Expect(session.ExitCode()).To(Equal(0))
		})
	})

	when("managing the configuration", func() {
		it("prints the version", func() {
			session := run("--version")

			Expect(session.ExitCode()).To(Equal(0))
			Expect(string(session.Out.Contents())).To(ContainSubstring(gitVersion))
			Expect(string(session.Out.Contents())).To(ContainSubstring(gitCommit))
		})

		it("persists the default model", func() {
			Expect(run("--set-model", "gpt-5-mini").ExitCode()).To(Equal(0))

			shown := run("--show-config")
			Expect(string(shown.Out.Contents())).To(ContainSubstring("model: gpt-5-mini"))
			Expect(string(shown.Out.Contents())).NotTo(ContainSubstring(expectedToken))

			Expect(run("hi").ExitCode()).To(Equal(0))
			Expect(server.Requests()[0].Body).To(HaveKeyWithValue("model", "gpt-5-mini"))
		})

		it("lets the model flag win over the config file", func() {
			Expect(run("--set-model", "gpt-5-mini").ExitCode()).To(Equal(0))

			Expect(run("--model", "gpt-5-nano", "hi").ExitCode()).To(Equal(0))
			Expect(server.Requests()[0].Body).To(HaveKeyWithValue("model", "gpt-5-nano"))
		})
	})
}
