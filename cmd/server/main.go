package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/leesiuhin7/gge-utility-bot/internal/app"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/auth"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/comm"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/config"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/discord"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/postgres"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/svc"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		logrus.Fatalf("main: load config: %v", err)
	}
	setupLogging(cfg.Logging)
	metrics.Register(prometheus.DefaultRegisterer)

	c, err := initializeContainer(cfg)
	if err != nil {
		logrus.Fatalf("main: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err = postgres.Migrate(ctx, c.conn); err != nil {
		logrus.Fatalf("main: migrate: %v", err)
	}

	c.comm.Start(ctx)
	c.listener.Start(ctx)
	go func() {
		if err := c.bot.Run(ctx); err != nil {
			logrus.WithError(err).Error("discord bot stopped")
		}
	}()

	runHTTPServer(c.router, cancel)
}

type container struct {
	comm     app.Comm
	listener app.AttackListenerSvc
	bot      *discord.Bot
	router   *httprouter.Router
	conn     *pgxpool.Pool
}

func newContainer(
	commSvc app.Comm,
	listener app.AttackListenerSvc,
	bot *discord.Bot,
	router *httprouter.Router,
	conn *pgxpool.Pool,
) container {
	return container{
		comm:     commSvc,
		listener: listener,
		bot:      bot,
		router:   router,
		conn:     conn,
	}
}

func configPath() string {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		logrus.Fatal("main: CONFIG_PATH is not set")
	}
	return path
}

func setupLogging(cfg config.Logging) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func newSigner() (auth.Signer, error) {
	return auth.NewSigner(os.Getenv("CONTROL_PRIVATE_KEY"))
}

func newComm(cfg config.Config, signer auth.Signer) app.Comm {
	return comm.NewClient(cfg.Server, signer)
}

func newSession() (*discordgo.Session, error) {
	return discord.NewSession(os.Getenv("BOT_TOKEN"))
}

func newDirectory(session *discordgo.Session) app.ChannelDirectory {
	return discord.NewDirectory(session)
}

func newAttackListener(commSvc app.Comm, cfg config.Config) app.AttackListenerSvc {
	return svc.NewAttackListener(commSvc, cfg.Players, cfg.AttackListener)
}

func newStatusMonitor(commSvc app.Comm, cfg config.Config) app.StatusMonitorSvc {
	return svc.NewStatusMonitor(commSvc, cfg.Players)
}

func newBot(
	session *discordgo.Session,
	cfg config.Config,
	cfgSvc app.GuildConfigSvc,
	statusSvc app.StatusMonitorSvc,
	listener app.AttackListenerSvc,
	router app.WarningRouterSvc,
) *discord.Bot {
	return discord.NewBot(session, cfg.Discord, cfgSvc, statusSvc, listener, router)
}

func newAccessKey() app.ApiAccessKey {
	return app.ApiAccessKey(os.Getenv("GGE_BOT_ACCESS_KEY"))
}

func newPostgresConn() *pgxpool.Pool {
	pgs := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("GGE_BOT_DB_HOST"),
		os.Getenv("GGE_BOT_DB_PORT"),
		os.Getenv("GGE_BOT_DB_USER"),
		os.Getenv("GGE_BOT_DB_PASSWORD"),
		os.Getenv("GGE_BOT_DB_NAME"),
	)
	conn, err := pgxpool.Connect(context.Background(), pgs)
	if err != nil {
		logrus.Fatalf("main.newPostgresConn: %v", err)
	}
	return conn
}

func runHTTPServer(router *httprouter.Router, cancel context.CancelFunc) {
	httpPort := os.Getenv("GGE_BOT_HTTP_PORT")
	if httpPort == "" {
		httpPort = "10000"
	}
	srv := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("main.runHTTPServer: serve http: %v; port = %s", err, httpPort)
		}
	}()
	logrus.Infof("Listening :%s for HTTP connections...", httpPort)
	<-done
	logrus.Info("Stopping the application...")
	cancel()
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("main.runHTTPServer: server shutdown: %v", err)
	}
}
