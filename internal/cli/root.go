package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"recipe-viewer/internal/core/linker"
	recipeService "recipe-viewer/internal/core/recipe"
	"recipe-viewer/internal/core/scaler"
	"recipe-viewer/internal/core/source"
	"recipe-viewer/internal/infrastructure/config"
	"recipe-viewer/internal/pkg/common"
)

// 建置時以 ldflags 注入
var Version = "dev"

const (
	outputText = "text"
	outputJSON = "json"
)

// RootOptions 全域旗標
type RootOptions struct {
	ConfigPath string
	Vocabulary string
	File       string
	URL        string
	Output     string
	LogLevel   string
	Timeout    time.Duration
}

// cliContext 子命令共用的執行環境
type cliContext struct {
	opts    *RootOptions
	config  *config.Config
	service *recipeService.DocumentService
	source  *source.Client
	linker  *linker.Linker
	scaler  *scaler.Scaler
	in      io.Reader
	out     io.Writer
}

// NewRootCommand 創建 recipectl 根命令
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	opts := &RootOptions{}
	rt := &cliContext{opts: opts, in: in, out: out}

	cmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Link recipe ingredients to steps and scale quantities",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (yaml, json or env)")
	pf.StringVar(&opts.Vocabulary, "vocabulary", "", "vocabulary override file")
	pf.StringVarP(&opts.File, "file", "f", "-", "recipe payload file, - for stdin")
	pf.StringVar(&opts.URL, "url", "", "fetch the recipe payload from this URL instead of --file")
	pf.StringVarP(&opts.Output, "output", "o", outputText, "output format (text, json)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout")

	cmd.AddCommand(
		newLinkCmd(rt),
		newHighlightCmd(rt),
		newScaleCmd(rt),
		newVariantsCmd(rt),
		newConvertCmd(rt),
	)
	return cmd
}

// Execute 執行 CLI，回傳程序結束碼
func Execute() int {
	cmd := NewRootCommand(os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (rt *cliContext) init() error {
	switch rt.opts.Output {
	case outputText, outputJSON:
	default:
		return fmt.Errorf("unsupported output format %q", rt.opts.Output)
	}

	cfg := config.Default()
	if rt.opts.ConfigPath != "" {
		loaded, err := config.LoadConfigFile(rt.opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if rt.opts.Vocabulary != "" {
		cfg.Linker.VocabularyFile = rt.opts.Vocabulary
	}
	if rt.opts.LogLevel != "" {
		if err := common.InitLoggerWithDir(rt.opts.LogLevel, ""); err != nil {
			return err
		}
	}

	l, err := recipeService.NewLinker(cfg.Linker)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	rt.linker = l
	rt.scaler = recipeService.NewScaler(cfg.Scale)

	opts := recipeService.Options{
		Linker:         rt.linker,
		Scaler:         rt.scaler,
		LinkingDefault: true,
		MarkOpen:       cfg.Linker.MarkOpen,
		MarkClose:      cfg.Linker.MarkClose,
	}
	if cfg.Source.Enabled {
		rt.source = source.NewClient(cfg.Source)
		opts.Source = rt.source
	}

	rt.config = cfg
	rt.service = recipeService.NewService(opts)
	return nil
}

func (rt *cliContext) context(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if rt.opts.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, rt.opts.Timeout)
}

// loadPayload 依 --url 或 --file 讀取食譜資料
func (rt *cliContext) loadPayload(ctx context.Context) (*common.RecipePayload, error) {
	if url := strings.TrimSpace(rt.opts.URL); url != "" {
		if rt.source == nil {
			return nil, common.ErrSourceUnavailable
		}
		return rt.source.FetchPayload(ctx, url)
	}

	if rt.opts.File == "" || rt.opts.File == "-" {
		return common.DecodePayload(rt.in)
	}

	f, err := os.Open(rt.opts.File)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()
	return common.DecodePayload(f)
}
