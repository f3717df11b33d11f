package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/lattice-db/redisgo/pkg/client"
	"github.com/lattice-db/redisgo/pkg/rconn"
	"github.com/lattice-db/redisgo/pkg/rlog"
	"github.com/lattice-db/redisgo/pkg/rmetrics"
)

var cli struct {
	Host        string        `help:"Server host." default:"127.0.0.1"`
	Port        uint16        `help:"Server port." default:"6379"`
	Password    string        `help:"AUTH password." optional:""`
	DB          int           `help:"Database index." default:"0"`
	DialTimeout time.Duration `help:"Dial timeout." default:"5s"`
	LogFile     string        `help:"Also write JSON logs to this rotating file." optional:""`
	MetricsAddr string        `help:"Serve a metrics/healthz sidecar on this address while the command runs." optional:""`

	Command []string `arg:"" help:"Command and arguments, e.g. GET foo."`
}

func main() {
	kong.Parse(&cli)
	logger := rlog.Init(rlog.Options{RotateFile: cli.LogFile}).WithName("redis-shell")
	if len(cli.Command) == 0 {
		fmt.Fprintln(os.Stderr, "redis-shell: no command given")
		os.Exit(1)
	}

	collector, err := rmetrics.New(rmetrics.DefaultConfig("redis-shell"))
	if err != nil {
		logger.Error(err, "failed to init metrics collector")
		os.Exit(1)
	}
	if cli.MetricsAddr != "" {
		srv := &http.Server{Addr: cli.MetricsAddr, Handler: collector.Router(rlog.RawZapLogger(rlog.Options{RotateFile: cli.LogFile}), false)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error(err, "metrics sidecar stopped")
			}
		}()
		defer srv.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cli.DialTimeout)
	defer cancel()

	opts := []client.DialOption{client.WithDB(cli.DB)}
	if cli.Password != "" {
		opts = append(opts, client.WithAuth("", cli.Password))
	}
	collector.IncrementActiveConnections()
	cl, err := client.Dial(ctx, rconn.Spec{Host: cli.Host, Port: cli.Port, DialTimeout: cli.DialTimeout}, opts...)
	if err != nil {
		collector.IncrementErrorCounter("connection_error")
		logger.Error(err, "failed to connect", "host", cli.Host, "port", cli.Port)
		os.Exit(1)
	}
	defer func() {
		collector.DecrementActiveConnections()
		_ = cl.Close()
	}()

	start := time.Now()
	reply, err := cl.Conn().Do(cli.Command...)
	collector.RecordCommandLatency(cli.Command[0], time.Since(start))
	if err != nil {
		collector.IncrementErrorCounter("server_error")
		logger.Error(err, "command failed", "command", strings.Join(cli.Command, " "))
		os.Exit(1)
	}
	collector.IncrementCommandCounter(cli.Command[0])
	fmt.Println(reply.String())
}
