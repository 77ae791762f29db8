package main

import (
	"NeuroMirrorGo/config"
	"NeuroMirrorGo/middleware"
	"NeuroMirrorGo/routes"
	"NeuroMirrorGo/services"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
		return
	}

	// 初始化数据库
	if err := config.InitDB(conf); err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
		return
	}

	// 初始化Redis（仅建议缓存用，失败时降级为直连生成）
	if err := config.InitRedis(conf); err != nil {
		config.Logger.Warnw("Redis不可用，建议缓存已关闭", "error", err)
	}

	ctx := context.Background()

	// 初始化Vision情绪分类器
	classifier, err := services.NewVisionClassifier(ctx, conf.GoogleCredentialsFile)
	if err != nil {
		log.Fatalf("无法初始化Vision分类器: %v", err)
	}
	defer classifier.Close()

	// 初始化Gemini客户端，未配置密钥时降级为内置文案
	var geminiClient *services.GeminiClient
	if conf.GeminiAPIKey != "" {
		geminiClient, err = services.NewGeminiClient(ctx, conf.GeminiAPIKey, conf.GeminiModel)
		if err != nil {
			log.Fatalf("无法初始化Gemini客户端: %v", err)
		}
	} else {
		config.Logger.Warnw("未配置GEMINI_API_KEY，聊天与建议使用内置文案")
	}

	chatService := services.NewChatService(geminiClient)
	suggestionService := services.NewSuggestionService(geminiClient,
		time.Duration(conf.SuggestionCacheTTLMinutes)*time.Minute)

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r)

	// 注册路由
	detectController := routes.RegisterRoutes(r, classifier, chatService, suggestionService)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Printf("启动服务器，监听端口: %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 创建超时上下文
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	log.Println("服务器已关闭")

	// 等待后台写入任务完成
	log.Println("正在等待所有后台任务完成...")
	detectController.Wait()
	log.Println("所有后台任务已完成")
}
