// Command exercisegen asks a running proxy for one exercise and prints the
// normalized result as JSON.
//
//	exercisegen --kind multipleChoice --point "present perfect" --count 3
//	exercisegen -k gapFill -p "irregular plurals" --proxy http://localhost:8090
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"exercise-forge/internal/config"
	"exercise-forge/internal/domain"
	"exercise-forge/internal/protocol"
)

type options struct {
	kind      string
	point     string
	count     int
	proxyURL  string
	accessKey string
	timeout   time.Duration
	verbose   bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("exercisegen", pflag.ContinueOnError)
	fs.StringVarP(&opts.kind, "kind", "k", string(domain.KindMultipleChoice), "exercise type: multipleChoice or gapFill")
	fs.StringVarP(&opts.point, "point", "p", "", "knowledge point to practise (required)")
	fs.IntVarP(&opts.count, "count", "n", domain.DefaultQuestionCount, "number of multiple-choice questions (1-10)")
	fs.StringVar(&opts.proxyURL, "proxy", "", "proxy base URL (default from config, then "+config.DefaultProxyURL+")")
	fs.StringVar(&opts.accessKey, "key", "", "proxy access key (default from config)")
	fs.DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "round-trip deadline")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log protocol activity to stderr")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// resolveProxy fills what the flags left empty from the shared config.
func resolveProxy(opts options, cfg *config.Config) protocol.Config {
	pc := protocol.Config{BaseURL: opts.proxyURL, APIKey: opts.accessKey, Timeout: opts.timeout}
	if cfg != nil {
		if pc.BaseURL == "" {
			pc.BaseURL = cfg.Proxy.URL
		}
		if pc.APIKey == "" {
			pc.APIKey = cfg.Proxy.AccessKey
		}
	}
	if pc.BaseURL == "" {
		pc.BaseURL = config.DefaultProxyURL
	}
	return pc
}

func generate(ctx context.Context, client *protocol.Client, opts options) (interface{}, error) {
	kind, ok := domain.ParseExerciseKind(opts.kind)
	if !ok {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("kind", opts.kind)}
	}
	if kind == domain.KindGapFill {
		return client.GenerateGapFill(ctx, opts.point)
	}
	return client.GenerateMultipleChoice(ctx, opts.point, opts.count)
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	log := zap.NewNop()
	if opts.verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
		}
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn("config not loaded, using flags only", zap.Error(err))
	}

	client, err := protocol.NewClient(resolveProxy(opts, cfg), log)
	if err != nil {
		return fail(err)
	}

	result, err := generate(context.Background(), client, opts)
	if err != nil {
		return fail(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fail(err)
	}
	return 0
}

func fail(err error) int {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", domainErr.Code, err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	}
	return 1
}

func main() {
	os.Exit(run(os.Args[1:]))
}
