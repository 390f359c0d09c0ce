package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/helmcode/casediag/pkg/analyzer"
	"github.com/helmcode/casediag/pkg/auth"
	"github.com/helmcode/casediag/pkg/client"
	"github.com/helmcode/casediag/pkg/config"
	"github.com/helmcode/casediag/pkg/formatter"
	"github.com/helmcode/casediag/pkg/logging"
	"github.com/helmcode/casediag/pkg/model"
	"github.com/helmcode/casediag/pkg/report"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
)

// AddGlobalFlags registers the flags every subcommand understands
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default casediag.yaml or ~/.config/casediag/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
}

// aiFlags are shared by the commands that can ask an LLM for remediation
type aiFlags struct {
	enabled  bool
	provider string
	model    string
}

func (f *aiFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.enabled, "ai", false, "Ask an LLM for a remediation plan")
	cmd.Flags().StringVar(&f.provider, "provider", "", "LLM provider (claude, openai). Defaults to config or auto-detect from env")
	cmd.Flags().StringVar(&f.model, "model", "", "LLM model to use (overrides default)")
}

type session struct {
	cfg         *config.Config
	logger      *logrus.Logger
	tokens      *auth.TokenStore
	auth        *client.AuthService
	cases       *client.CaseService
	diagnostics *client.DiagnosticService
}

func newSession() (*session, error) {
	if !formatter.ValidFormat(outputFormat) {
		return nil, fmt.Errorf("unknown output format %q (use human, json or yaml)", outputFormat)
	}

	logger := logging.NewLogger(verbose)
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return nil, err
	}

	retries := client.DefaultExecutorConfig()
	retries.MaxRetries = cfg.MaxRetries
	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithExecutorConfig(retries),
		client.WithLogger(logger),
	}

	return &session{
		cfg:         cfg,
		logger:      logger,
		tokens:      auth.NewTokenStore(cfg.TokenFile),
		auth:        client.NewAuthService(client.New(cfg.AuthURL, opts...)),
		cases:       client.NewCaseService(client.New(cfg.CaseURL, opts...)),
		diagnostics: client.NewDiagnosticService(client.New(cfg.DiagnosticURL, opts...)),
	}, nil
}

// credential returns the stored token, refusing one that has expired
func (s *session) credential() (auth.Credential, error) {
	cred, err := s.tokens.Load()
	if err != nil {
		return auth.Credential{}, err
	}
	claims, err := auth.ParseClaims(cred.Token)
	if err != nil {
		s.logger.WithError(err).Debug("Could not decode stored token")
		return cred, nil
	}
	if claims.Expired(time.Now()) {
		return auth.Credential{}, errors.New("session expired: run `casediag login` again")
	}
	return cred, nil
}

// remediate attaches an LLM remediation plan to the report when requested
func (s *session) remediate(ctx context.Context, flags aiFlags, rep *report.Report, c *model.Case) error {
	if !flags.enabled {
		return nil
	}
	provider := flags.provider
	if provider == "" {
		provider = s.cfg.LLMProvider
	}
	modelName := flags.model
	if modelName == "" {
		modelName = s.cfg.LLMModel
	}

	sp := newSpinner("Initializing AI client...")
	sp.Start()
	ai, err := analyzer.NewFromEnv(provider, modelName)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	printSuccess(fmt.Sprintf("AI client initialized (%s, %s)", ai.LLM().Provider(), ai.LLM().Model()))

	sp = newSpinner("Analyzing with AI...")
	sp.Start()
	analysis, err := ai.Remediate(ctx, c)
	sp.Stop()
	if err != nil {
		return fmt.Errorf("AI analysis failed: %w", err)
	}
	printSuccess("Analysis complete")

	rep.Remediation = analysis
	return nil
}

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	return s
}

func parseCaseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid case id %q", arg)
	}
	return id, nil
}

// prompt reads one line from stdin, for values not given as flags
func prompt(in io.Reader, label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}

func printWarning(msg string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "! %s\n", msg)
}
