package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pitabwire/util"

	"github.com/pitabwire/addins/config"
	"github.com/pitabwire/addins/localization"
	"github.com/pitabwire/addins/manifest"
	"github.com/pitabwire/addins/resolver"
	"github.com/pitabwire/addins/version"
)

const (
	minArgsCommand   = 2
	minArgsTranslate = 2
)

var errUsage = errors.New("invalid arguments")

func main() {
	if len(os.Args) < minArgsCommand {
		usage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.FromEnv[config.ConfigurationDefault]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := setupContext(context.Background(), &cfg)
	if err = run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage(os.Stderr)
		}
		util.Log(ctx).WithError(err).Error("addinloc failed")
		os.Exit(1)
	}
}

// setupContext installs the configured logger and the configuration on ctx.
func setupContext(ctx context.Context, cfg *config.ConfigurationDefault) context.Context {
	var opts []util.Option
	if logLevel, err := util.ParseLevel(cfg.LoggingLevel()); err == nil {
		opts = append(opts, util.WithLogLevel(logLevel))
	}
	opts = append(opts,
		util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
		util.WithLogNoColor(!cfg.LoggingColored()))
	if cfg.LoggingShowStackTrace() {
		opts = append(opts, util.WithLogStackTrace())
	}

	log := util.NewLogger(ctx, opts...)
	ctx = util.ContextWithLogger(ctx, log)
	return config.ToContext(ctx, cfg)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "inspect":
		return cmdInspect(args[1:], out)
	case "translate":
		return cmdTranslate(ctx, args[1:], out)
	case "version":
		fmt.Fprintf(out, "%s %s (commit %s, built %s)\n",
			version.Repository, version.Version, version.Commit, version.Date)
		return nil
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "addinloc <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  inspect <manifest>")
	fmt.Fprintln(w, "  translate [--lang LANG] [--var KEY=VALUE] [--count N] <manifest> <message-id>")
	fmt.Fprintln(w, "  version")
}

func cmdInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: inspect requires a manifest path", errUsage)
	}

	pkg, err := manifest.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	ref := pkg.Localizer()
	fmt.Fprintf(out, "package:         %s %s\n", pkg.ID, pkg.Version)
	fmt.Fprintf(out, "mode:            %s\n", ref.Mode())
	fmt.Fprintf(out, "type name:       %s\n", valueOrUnset(ref.TypeName()))
	fmt.Fprintf(out, "shared id:       %s\n", valueOrUnset(ref.SharedID()))
	fmt.Fprintf(out, "registration id: %s\n", valueOrUnset(ref.RegistrationID()))

	keys := make([]string, 0, len(pkg.Properties))
	for k := range pkg.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "property:        %s=%s\n", k, pkg.Properties[k])
	}
	return nil
}

func valueOrUnset(value string, ok bool) string {
	if !ok {
		return "(not set)"
	}
	return value
}

type variablesFlag map[string]any

func (v variablesFlag) String() string {
	return fmt.Sprint(map[string]any(v))
}

func (v variablesFlag) Set(value string) error {
	for i := range len(value) {
		if value[i] == '=' {
			v[value[:i]] = value[i+1:]
			return nil
		}
	}
	return fmt.Errorf("variable %q is not KEY=VALUE", value)
}

func cmdTranslate(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	lang := fs.String("lang", "", "preferred language, defaults to DEFAULT_LANGUAGE")
	count := fs.Int("count", 1, "plural count")
	vars := variablesFlag{}
	fs.Var(vars, "var", "template variable KEY=VALUE, repeatable")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() < minArgsTranslate {
		return fmt.Errorf("%w: translate requires a manifest path and a message id", errUsage)
	}

	pkg, err := manifest.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	registry := resolver.NewRegistry()
	resolver.Register[localization.BundleFactory](registry)
	res := resolver.New(
		resolver.WithRegistry(registry),
		resolver.WithFallback(fallbackLocalizer{}),
	)

	loc, err := res.Resolve(ctx, pkg)
	if err != nil {
		return err
	}

	request := *lang
	if request == "" {
		if cfg := config.FromContext[config.ConfigurationLocalization](ctx); cfg != nil {
			request = cfg.DefaultLanguage()
		}
	}

	util.Log(ctx).WithField("package", pkg.ID).WithField("localizer", pkg.Localizer().String()).
		Debug("translating message")
	fmt.Fprintln(out, loc.TranslateWithMapAndCount(ctx, request, fs.Arg(1), vars, *count))
	return nil
}

// fallbackLocalizer serves packages without a declared localizer by echoing message ids.
type fallbackLocalizer struct{}

func (f fallbackLocalizer) Translate(ctx context.Context, request any, messageID string) string {
	return f.TranslateWithMapAndCount(ctx, request, messageID, nil, 1)
}

func (f fallbackLocalizer) TranslateWithMap(
	ctx context.Context, request any, messageID string, variables map[string]any,
) string {
	return f.TranslateWithMapAndCount(ctx, request, messageID, variables, 1)
}

func (fallbackLocalizer) TranslateWithMapAndCount(
	_ context.Context, _ any, messageID string, _ map[string]any, _ int,
) string {
	return messageID
}

var _ resolver.Localizer = fallbackLocalizer{}
