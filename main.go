package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tonehub/tonehub/internal/cache"
	"github.com/tonehub/tonehub/internal/config"
	"github.com/tonehub/tonehub/internal/logging"
	"github.com/tonehub/tonehub/internal/media"
	"github.com/tonehub/tonehub/internal/server"
	"github.com/tonehub/tonehub/internal/server/routes"
	"github.com/tonehub/tonehub/internal/store"
	"github.com/tonehub/tonehub/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["media_path"] = cfg.MediaPath
		fields["store_path"] = cfg.StorePath
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	library, err := media.NewLibrary(cfg.MediaPath)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化媒体目录失败: %v\n", err)
		return 1
	}

	// 启动遵循“配置 → 媒体库 → 持久缓存 → Fiber server”顺序，
	// 保证所有请求共享统一的存储与上游客户端实例。
	kv, err := store.NewStore(cfg.StorePath)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存存储失败: %v\n", err)
		return 1
	}
	defer kv.Close()

	httpClient := server.NewUpstreamClient(cfg)
	resolver := cache.NewResolver(kv, logger, cfg.NormalizedMethods())

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.ListenPort
	fields["media_path"] = cfg.MediaPath
	fields["store_path"] = cfg.StorePath
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, library, resolver, httpClient, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("tonehub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 TONEHUB_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("TONEHUB_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(
	cfg *config.Config,
	library *media.Library,
	resolver *cache.Resolver,
	httpClient *http.Client,
	logger *logrus.Logger,
) error {
	app, err := server.NewApp(server.AppOptions{
		Logger: logger,
	})
	if err != nil {
		return err
	}

	routes.RegisterMediaRoutes(app, library, logger, cfg.MaxChunkSize)
	routes.RegisterResolveRoutes(app, resolver, httpClient, logger)
	routes.RegisterStatusRoutes(app, cfg, library)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   cfg.ListenPort,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", cfg.ListenPort))
}
