// Command strikewatch watches an AS3935 lightning sensor and fans detected
// strikes out to the configured notification channels.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smorrow/strikewatch/internal/config"
	"github.com/smorrow/strikewatch/internal/interrupt"
	"github.com/smorrow/strikewatch/internal/logging"
	"github.com/smorrow/strikewatch/internal/logic"
	"github.com/smorrow/strikewatch/internal/notify"
	"github.com/smorrow/strikewatch/internal/notify/mqttchan"
	"github.com/smorrow/strikewatch/internal/notify/slack"
	"github.com/smorrow/strikewatch/internal/notify/twilio"
	"github.com/smorrow/strikewatch/internal/observability"
	"github.com/smorrow/strikewatch/internal/sensor"
	"github.com/smorrow/strikewatch/internal/status"
	"github.com/smorrow/strikewatch/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	broker := flag.String("broker", "", "Override the MQTT broker address from the config")
	httpAddr := flag.String("http", "", `Override the HTTP status address from the config ("off" disables)`)
	printStatus := flag.Bool("print-status", false, "Read the sensor registers once, print them, and exit")
	flag.Parse()

	if err := run(*configPath, *broker, *httpAddr, *printStatus); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath, brokerOverride, httpOverride string, printStatus bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if brokerOverride != "" {
		cfg.Notifications.MQTT.Broker = brokerOverride
	}
	if httpOverride == "off" {
		cfg.HTTP.Addr = ""
	} else if httpOverride != "" {
		cfg.HTTP.Addr = httpOverride
	}
	logging.Init(cfg.Logging.Format, logging.ParseLevel(cfg.Logging.Level))

	// Sensor bring-up. A sensor that cannot be reached or calibrated is a
	// startup failure, not something to limp along without.
	bus, err := sensor.OpenI2C(cfg.Hardware.I2CBus, cfg.Hardware.SensorAddress)
	if err != nil {
		return fmt.Errorf("open i2c bus %d: %w", cfg.Hardware.I2CBus, err)
	}
	device := sensor.NewDevice(bus, sensor.DefaultRegisters())
	defer device.Close()
	if err := device.Setup(cfg.Tuning()); err != nil {
		return fmt.Errorf("sensor setup: %w", err)
	}

	if printStatus {
		st, err := device.ReadStatus()
		if err != nil {
			return fmt.Errorf("read interrupt register: %w", err)
		}
		dist, err := device.ReadDistance()
		if err != nil {
			return fmt.Errorf("read distance register: %w", err)
		}
		fmt.Printf("interrupt: 0x%02X, distance: 0x%02X\n", st, dist)
		return nil
	}

	watcher, err := interrupt.NewRealWatcher(cfg.Hardware.GPIOChip, cfg.Hardware.InterruptPin)
	if err != nil {
		return fmt.Errorf("request interrupt line %s:%d: %w",
			cfg.Hardware.GPIOChip, cfg.Hardware.InterruptPin, err)
	}
	defer watcher.Close()

	// Notification channels. Missing credentials for an enabled channel are
	// a startup failure; a channel that fails at send time is not.
	var channels []notify.Notifier
	if cfg.Notifications.Slack.Enabled {
		token, err := cfg.Notifications.Slack.Token()
		if err != nil {
			return err
		}
		channels = append(channels, slack.New(token, cfg.Notifications.Slack.ChannelID))
	}
	if cfg.Notifications.Twilio.Enabled {
		sid, token, err := cfg.Notifications.Twilio.Credentials()
		if err != nil {
			return err
		}
		channels = append(channels, twilio.New(sid, token,
			cfg.Notifications.Twilio.FromNumber, cfg.Notifications.Twilio.ToNumber))
	}

	var publisher mqttchan.Publisher
	var mqttStatus mqttchan.ConnectionStatus
	if cfg.Notifications.MQTT.Enabled {
		mq, err := mqttchan.NewReal(cfg.Notifications.MQTT.Broker, cfg.Notifications.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("connect mqtt broker %s: %w", cfg.Notifications.MQTT.Broker, err)
		}
		defer mq.Close()
		channels = append(channels, mq)
		publisher = mq
		mqttStatus = mq
	}

	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.Name()
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		QuietWindowMs:       cfg.Timing.QuietWindow.Std().Milliseconds(),
		PerChannelTimeoutMs: cfg.Timing.PerChannelTimeout.Std().Milliseconds(),
		ThresholdKm:         *cfg.Alerts.DistanceThresholdKm,
		Broker:              cfg.Notifications.MQTT.Broker,
		HTTPAddr:            cfg.HTTP.Addr,
		Channels:            names,
	})
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, promhttp.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("http server", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	if publisher != nil {
		snap := tracker.Snapshot()
		startup := mqttchan.SystemEvent{
			Timestamp:  time.Now(),
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startup); err != nil {
			slog.Warn("publish startup event", "error", err)
		}
	}

	slog.Info("started",
		"quiet_window", cfg.Timing.QuietWindow.Std(),
		"threshold_km", *cfg.Alerts.DistanceThresholdKm,
		"channels", names)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	deps := loopDeps{
		device: device,
		classifier: logic.Classifier{
			Decoder: logic.Decoder{
				Masks:    cfg.Masks(),
				Distance: cfg.DistanceMap(),
			},
			Policy:    cfg.Policy(),
			Templates: cfg.Templates(),
		},
		quietWindow:       cfg.Timing.QuietWindow.Std(),
		settle:            cfg.Timing.InterruptSettle.Std(),
		channels:          channels,
		perChannelTimeout: cfg.Timing.PerChannelTimeout.Std(),
		publisher:         publisher,
		mqttStatus:        mqttStatus,
		tracker:           tracker,
		metrics:           metrics,
		sleep:             time.Sleep,
		now:               time.Now,
	}
	return runLoop(deps, watcher.Events(), sigCh)
}

// registerReader is the slice of the sensor device the loop needs.
type registerReader interface {
	ReadStatus() (byte, error)
	ReadDistance() (byte, error)
}

type loopDeps struct {
	device            registerReader
	classifier        logic.Classifier
	quietWindow       time.Duration
	settle            time.Duration
	channels          []notify.Notifier
	perChannelTimeout time.Duration
	publisher         mqttchan.Publisher
	mqttStatus        mqttchan.ConnectionStatus
	tracker           *status.Tracker
	metrics           *observability.Metrics
	sleep             func(time.Duration)
	now               func() time.Time
}

func runLoop(d loopDeps, edges <-chan time.Time, sig <-chan os.Signal) error {
	gate := logic.NewGate(d.quietWindow)

	for {
		select {
		case s := <-sig:
			slog.Info("shutting down", "signal", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if d.publisher != nil {
				if d.mqttStatus != nil {
					d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
				}
				snap := d.tracker.Snapshot()
				event := mqttchan.SystemEvent{
					Timestamp:  d.now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := d.publisher.PublishSystem(event); err != nil {
					slog.Warn("publish shutdown event", "error", err)
				}
			}
			return nil

		case t := <-edges:
			d.metrics.InterruptsTotal.Inc()

			if !gate.Accept(t) {
				slog.Debug("interrupt inside quiet window, ignored", "observed_at", t)
				d.tracker.RecordDebounceDrop()
				d.metrics.SuppressedTotal.WithLabelValues("debounce").Inc()
				continue
			}

			// The sensor needs a moment to latch the interrupt register
			// after raising the line.
			if d.settle > 0 {
				d.sleep(d.settle)
			}

			st, err := d.device.ReadStatus()
			if err != nil {
				slog.Error("read interrupt register", "error", err)
				continue
			}
			dist, err := d.device.ReadDistance()
			if err != nil {
				slog.Error("read distance register", "error", err)
				continue
			}

			res, err := d.classifier.Classify(logic.RawInterrupt{
				Status:     st,
				Distance:   dist,
				ObservedAt: t,
			})
			if err != nil {
				slog.Warn("undecodable interrupt", "status", fmt.Sprintf("0x%02X", st), "error", err)
				d.tracker.RecordDecodeError()
				d.metrics.SuppressedTotal.WithLabelValues("decode_error").Inc()
				continue
			}

			ev := res.Event
			logEvent(ev, res.Alert)
			d.tracker.RecordEvent(ev, res.Alert)
			d.metrics.EventsTotal.WithLabelValues(string(ev.Kind)).Inc()
			if ev.Kind == logic.KindLightning && ev.DistanceKnown {
				d.metrics.LastStrikeDistanceKm.Set(float64(ev.DistanceKm))
			}

			if d.publisher != nil {
				if err := d.publisher.PublishEvent(ev); err != nil {
					slog.Warn("publish event", "error", err)
				}
			}
			if d.mqttStatus != nil {
				d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
			}

			if !res.Alert {
				slog.Info("alert suppressed", "kind", ev.Kind, "reason", res.SuppressReason)
				reason := "threshold"
				if !ev.DistanceKnown {
					reason = "unknown_distance"
				}
				d.metrics.SuppressedTotal.WithLabelValues(reason).Inc()
				continue
			}

			start := d.now()
			outcomes := notify.Dispatch(context.Background(), notify.Request{
				Message:           res.Message,
				Channels:          d.channels,
				PerChannelTimeout: d.perChannelTimeout,
			})
			d.metrics.DispatchDurationSeconds.Observe(d.now().Sub(start).Seconds())

			for _, o := range outcomes {
				d.tracker.RecordOutcome(o)
				d.metrics.DispatchOutcomesTotal.WithLabelValues(o.Channel, string(o.Status)).Inc()
				if o.Status == notify.StatusSent {
					slog.Info("alert delivered", "channel", o.Channel, "elapsed", o.Elapsed)
				} else {
					slog.Warn("alert not delivered",
						"channel", o.Channel, "status", string(o.Status),
						"error", o.Error, "elapsed", o.Elapsed)
				}
			}
		}
	}
}

func logEvent(ev logic.ClassifiedEvent, alert bool) {
	args := []any{"kind", ev.Kind, "alert", alert}
	if ev.Kind == logic.KindLightning {
		if ev.DistanceKnown {
			args = append(args, "distance_km", ev.DistanceKm)
		} else {
			args = append(args, "distance_km", "unknown")
		}
	}
	slog.Info("event", args...)
}
