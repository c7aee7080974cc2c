package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/api/router"
	"resume-extract-go/internal/config"
	appCoreLogger "resume-extract-go/internal/logger"
	"resume-extract-go/internal/outbox"
	"resume-extract-go/internal/processor"
	"resume-extract-go/internal/ratelimit"
	"resume-extract-go/internal/storage"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	appCoreLogger.Init(appCoreLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(appCoreLogger.Logger))
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	// 轮询outbox表并把待发事件投递到RabbitMQ
	relayLogger := log.New(appCoreLogger.Logger, "[MessageRelay] ", log.LstdFlags|log.Lshortfile)
	messageRelay := outbox.NewMessageRelay(storageManager.MySQL.DB(), storageManager.RabbitMQ, relayLogger)
	messageRelay.Start()
	glog.Info("消息中继服务已启动")

	profileProcessor, err := processor.NewProfileProcessor(ctx, cfg, storageManager, &appCoreLogger.Logger)
	if err != nil {
		glog.Fatalf("初始化简历处理器失败: %v", err)
	}
	glog.Info("简历处理器初始化成功")

	uploadConsumerWorkers := 1
	if workers, ok := cfg.RabbitMQ.ConsumerWorkers["upload_consumer_workers"]; ok && workers > 0 {
		uploadConsumerWorkers = workers
	}
	for i := 0; i < uploadConsumerWorkers; i++ {
		if err := profileProcessor.StartUploadConsumer(ctx); err != nil {
			glog.Fatalf("启动上传消费者失败: %v", err)
		}
	}
	glog.Infof("上传消费者已启动，工作协程数: %d", uploadConsumerWorkers)

	resumeHandler := handler.NewResumeHandler(cfg, profileProcessor)

	var uploadLimiter *ratelimit.KeyedLimiter
	if cfg.Server.UploadRateQPM > 0 {
		uploadLimiter = ratelimit.NewKeyedLimiter(cfg.Server.UploadRateQPM, 0)
		glog.Infof("上传限流已启用: %d 次/分钟/客户端", cfg.Server.UploadRateQPM)
	}

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, resumeHandler, uploadLimiter)
	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)

	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	// 先停止消费者和中继，再关闭HTTP服务器
	cancel()
	messageRelay.Stop()
	glog.Info("消息中继服务已停止")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
