package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/kardolus/gpt5/api"
	"github.com/kardolus/gpt5/api/client"
	"github.com/kardolus/gpt5/api/http"
	"github.com/kardolus/gpt5/cmd/gpt5/utils"
	"github.com/kardolus/gpt5/config"
	"github.com/kardolus/gpt5/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	GitCommit  string
	GitVersion string

	interactiveMode bool
	showVersion     bool
	showConfig      bool
	debug           bool
	setModel        string
	setCompletions  string
	toolsFile       string
)

const (
	envPrefix         = "GPT5"
	interactivePrompt = "[%time] [Q%counter] [%usage]"
	exitCommand       = "exit"
	quitCommand       = "quit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gpt5 [prompt]",
		Short: "Query GPT-5 models through the Responses API",
		Long: "gpt5 sends a prompt to the GPT-5 family of models and prints the reply. " +
			"Input piped on stdin is appended to the prompt.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setCustomFlags(rootCmd)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(1)
	}
}

func setCustomFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.BoolVarP(&interactiveMode, "interactive", "i", false, "Use interactive mode")
	flags.BoolVarP(&showVersion, "version", "v", false, "Display the version information")
	flags.BoolVar(&showConfig, "show-config", false, "Display the configuration")
	flags.BoolVar(&debug, "debug", false, "Print the request as a curl command and the raw response")
	flags.StringVar(&setModel, "set-model", "", "Set a new default model in the config file")
	flags.StringVar(&setCompletions, "set-completions", "", "Generate autocompletion script for your current shell")
	flags.StringVar(&toolsFile, "tools-file", "", "Yaml or json file with a list of function tools")

	flags.StringP("model", "m", "", "Model to query")
	flags.String("instructions", "", "System level instructions for the model")
	flags.String("effort", "", "Reasoning effort: low, medium or high")
	flags.String("verbosity", "", "Output verbosity: low, medium or high")
	flags.Int("max-output-tokens", 0, "Upper bound on generated tokens")
	flags.String("tool-choice", "", "How the model picks tools, e.g. auto or none")
	flags.Bool("web", false, "Enable the web search tool")
	flags.String("web-query", "", "Suggested web search query")
	flags.Int("web-max-results", 0, "Maximum number of web search results")
	flags.Bool("render", false, "Render markdown output")

	for _, name := range []string{
		"model", "instructions", "effort", "verbosity", "max-output-tokens", "tool-choice",
		"web", "web-query", "web-max-results", "render",
	} {
		_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

func run(cmd *cobra.Command, args []string) error {
	// a missing .env file is fine
	_ = godotenv.Load()

	if debug {
		internal.SetAllowedLogLevels(zapcore.InfoLevel, zapcore.DebugLevel)
	} else {
		internal.SetAllowedLogLevels(zapcore.InfoLevel)
	}
	sugar := zap.S()

	if showVersion {
		sugar.Infof("gpt5 version %s (commit %s)", GitVersion, GitCommit)
		return nil
	}

	if setCompletions != "" {
		return config.GenCompletions(cmd, setCompletions, cmd.OutOrStdout())
	}

	manager := config.NewManager(config.New()).WithEnvironment()

	if setModel != "" {
		if err := manager.WriteModel(setModel); err != nil {
			return err
		}
		sugar.Infof("Model successfully updated to %s", setModel)
		return nil
	}

	if showConfig {
		out, err := manager.ShowConfig()
		if err != nil {
			return err
		}
		sugar.Info(out)
		return nil
	}

	cfg := applyFlags(manager.Config)

	apiKey, err := manager.APIKey()
	if err != nil {
		return err
	}
	if apiKey == "" {
		return errors.New("missing environment variable: " + manager.APIKeyEnvVarName())
	}
	cfg.APIKey = apiKey

	var tools []api.Tool
	if toolsFile != "" {
		if tools, err = utils.LoadTools(toolsFile); err != nil {
			return err
		}
	}

	c := client.NewFromConfig(http.RealCallerFactory, cfg)

	if interactiveMode {
		return runInteractive(cmd.Context(), c, tools)
	}

	prompt := strings.Join(args, " ")
	piped, err := utils.ReadPipedInput(os.Stdin)
	if err != nil {
		return err
	}
	if piped != "" {
		prompt = strings.TrimSpace(prompt + "\n\n" + piped)
	}
	if prompt == "" {
		return errors.New("you must specify your query or provide input via a pipe")
	}

	_, err = query(cmd.Context(), c, prompt, tools)
	return err
}

// applyFlags layers the command line over the config file and environment.
func applyFlags(cfg config.Config) config.Config {
	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("instructions", cfg.Instructions)
	viper.SetDefault("effort", cfg.Effort)
	viper.SetDefault("verbosity", cfg.Verbosity)
	viper.SetDefault("max_output_tokens", cfg.MaxOutputTokens)
	viper.SetDefault("tool_choice", cfg.ToolChoice)
	viper.SetDefault("web", cfg.Web)
	viper.SetDefault("web_query", cfg.WebQuery)
	viper.SetDefault("web_max_results", cfg.WebMaxResults)
	viper.SetDefault("render", cfg.Render)

	cfg.Model = viper.GetString("model")
	cfg.Instructions = viper.GetString("instructions")
	cfg.Effort = viper.GetString("effort")
	cfg.Verbosity = viper.GetString("verbosity")
	cfg.MaxOutputTokens = viper.GetInt("max_output_tokens")
	cfg.ToolChoice = viper.GetString("tool_choice")
	cfg.Web = viper.GetBool("web")
	cfg.WebQuery = viper.GetString("web_query")
	cfg.WebMaxResults = viper.GetInt("web_max_results")
	cfg.Render = viper.GetBool("render")

	return cfg
}

// query returns the tokens spent on the exchange.
func query(ctx context.Context, c *client.Client, prompt string, tools []api.Tool) (int, error) {
	req, err := utils.BuildRequest(c.Config, prompt, tools)
	if err != nil {
		return 0, err
	}

	response, err := c.Request(ctx, req)
	if err != nil {
		return 0, err
	}

	if err := utils.PrintResponse(os.Stdout, req, response, c.Config.Render); err != nil {
		return response.TotalTokens(), err
	}

	if tokens, ok := response.ReasoningTokens(); ok {
		zap.S().Debugf("usage: %d tokens (%d reasoning)", response.TotalTokens(), tokens)
	}

	return response.TotalTokens(), nil
}

func runInteractive(ctx context.Context, c *client.Client, tools []api.Tool) error {
	rl, err := readline.New("")
	if err != nil {
		return err
	}
	defer rl.Close()

	sugar := zap.S()
	sugar.Infof("Entering interactive mode. Using model %s. Type '%s' to quit.", c.Config.Model, exitCommand)

	counter, usage := 1, 0
	for {
		rl.SetPrompt(utils.FormatPrompt(interactivePrompt, counter, usage, time.Now()))

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			sugar.Info("Bye!")
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case exitCommand, quitCommand:
			sugar.Info("Bye!")
			return nil
		}

		tokens, err := query(ctx, c, line, tools)
		usage += tokens
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		counter++
	}
}
