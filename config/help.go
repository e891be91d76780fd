package config

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintConfig writes the effective configuration with secrets masked.
func PrintConfig(w io.Writer, cfg *Config) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "SERVER_ADDR\t"+cfg.Server.Addr())
	fmt.Fprintln(tw, "SERVER_SHUTDOWN_TIMEOUT\t"+cfg.Server.ShutdownTimeout.String())
	fmt.Fprintln(tw, "BACKEND_URL\t"+cfg.Backend.URL)
	fmt.Fprintln(tw, "BACKEND_TIMEOUT\t"+cfg.Backend.Timeout.String())
	fmt.Fprintf(tw, "RESOLVER_CONCURRENCY\t%d\n", cfg.Resolver.Concurrency)
	fmt.Fprintf(tw, "RABBITMQ_ENABLED\t%t\n", cfg.RabbitMQ.Enabled)
	if cfg.RabbitMQ.Enabled {
		fmt.Fprintf(tw, "RABBITMQ_ADDR\t%s@%s:%s\n", cfg.RabbitMQ.User, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		fmt.Fprintln(tw, "RABBITMQ_EXCHANGE\t"+cfg.RabbitMQ.Exchange)
	}
	fmt.Fprintln(tw, "REPORT_TIMEZONE\t"+cfg.Report.Timezone)
	fmt.Fprintln(tw, "LOG_LEVEL\t"+cfg.Log.Level)
}
