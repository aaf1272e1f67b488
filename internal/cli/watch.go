package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/vaktija/internal/config"
	"github.com/smokyabdulrahman/vaktija/internal/display"
	"github.com/smokyabdulrahman/vaktija/internal/notify"
	"github.com/smokyabdulrahman/vaktija/internal/prayer"
	"github.com/smokyabdulrahman/vaktija/internal/tick"
	"github.com/smokyabdulrahman/vaktija/internal/timetable"
)

var (
	flagNotify string
	flagBell   bool
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the live countdown and send reminders",
		Long: "Redraw the day view every second and send a reminder before each prayer.\n" +
			"Reminders go to the transports listed in --notify (console, hook, mqtt, redis).\n" +
			"With mqtt or redis the current snapshot is also published every second.\n" +
			"Runs until interrupted.",
		Args: cobra.NoArgs,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&flagNotify, "notify", "", "Comma-separated transports: console, hook, mqtt, redis (overrides config)")
	cmd.Flags().BoolVar(&flagBell, "bell", false, "Ring the terminal bell on console reminders (overrides config)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, err := newEngine(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("notify") {
		if err := e.cfg.Set("notify", flagNotify); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("bell") {
		e.cfg.Bell = &flagBell
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := buildOutputs(e.cfg)
	if err != nil {
		return err
	}
	defer out.close()

	var screen tick.Sink
	if FlagJSON {
		screen = jsonSink(cmd.OutOrStdout())
	} else {
		screen = display.NewScreen(cmd.OutOrStdout(), e.cfg.TimeFormat)
	}

	if f, ok := e.provider.(*timetable.File); ok {
		if err := f.Watch(ctx, logger); err != nil {
			logger.Warn("timetable changes will not be picked up", "error", err)
		}
	}

	loop := e.loop(tick.Options{
		Transport: out.transport,
		Sinks:     append([]tick.Sink{screen}, out.sinks...),
	})
	if err := loop.Start(ctx); err != nil {
		return err
	}
	logger.Info("watching", "location", e.cfg.Location, "notify", e.cfg.Notify)

	<-ctx.Done()
	loop.Stop()
	return nil
}

// outputs are the transports and extra sinks selected by the notify key.
type outputs struct {
	transport notify.Multi
	sinks     []tick.Sink
	closers   []func()
}

func (o *outputs) close() {
	for _, c := range o.closers {
		c()
	}
}

// buildOutputs connects every transport named in cfg.Notify. MQTT and Redis
// also receive each snapshot.
func buildOutputs(cfg config.Config) (*outputs, error) {
	out := &outputs{}
	for _, name := range cfg.NotifyTargetsList() {
		switch name {
		case "console":
			out.transport = append(out.transport, &notify.Console{
				Logger: logger,
				Bell:   cfg.Bell != nil && *cfg.Bell,
			})
		case "hook":
			dir := cfg.HookDir
			if dir == "" {
				cdir, err := config.Dir()
				if err != nil {
					out.close()
					return nil, err
				}
				dir = filepath.Join(cdir, "hooks")
			}
			out.transport = append(out.transport, &notify.Hook{Dir: dir})
		case "mqtt":
			if cfg.MQTTBroker == "" {
				out.close()
				return nil, fmt.Errorf("notify target mqtt needs mqtt_broker to be set")
			}
			clientID := "vaktija-" + uuid.NewString()[:8]
			m, err := notify.DialMQTT(cfg.MQTTBroker, clientID, cfg.MQTTTopic, logger)
			if err != nil {
				out.close()
				return nil, err
			}
			out.transport = append(out.transport, m)
			out.sinks = append(out.sinks, m)
			out.closers = append(out.closers, m.Close)
		case "redis":
			addr := cfg.RedisAddr
			if addr == "" {
				addr = "localhost:6379"
			}
			r := notify.NewRedis(addr, cfg.RedisPassword, cfg.RedisPrefix)
			out.transport = append(out.transport, r)
			out.sinks = append(out.sinks, r)
			out.closers = append(out.closers, func() { r.Close() })
		default:
			out.close()
			return nil, fmt.Errorf("unknown notify target %q", name)
		}
	}
	return out, nil
}

// jsonSink writes one JSON snapshot per line.
func jsonSink(w io.Writer) tick.Sink {
	return tick.SinkFunc(func(_ context.Context, s prayer.Snapshot) error {
		return writeJSONLine(w, s)
	})
}
