// cecd bridges a CEC adapter to home automation: it claims a logical
// address on /dev/cecN and exposes the bus over a REST API and an MQTT
// broker, both driven by a TOML config file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/cecd"
	"github.com/opencec/go-cec/device"
	"github.com/opencec/go-cec/logger"
)

func logLevel(name string) logger.Level {
	switch strings.ToLower(name) {
	case "debug":
		return logger.DebugLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

func main() {
	configPath := flag.String("config", "/etc/cecd.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := cecd.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("config load failed", "error", err)
	}

	log := logger.NewSlog(logLevel(cfg.Log.Level), false)

	dev, err := device.OpenDevice(cfg.Adapter.Device, cfg.Adapter.NonBlocking)
	if err != nil {
		log.Fatal("adapter open failed", "device", cfg.Adapter.Device, "error", err)
	}

	session, err := device.NewSession(dev, device.WithLogger(log))
	if err != nil {
		dev.Close()
		log.Fatal("session setup failed", "error", err)
	}
	defer session.Close()

	if cfg.Adapter.PhysAddr != "" {
		phys, _ := cec.ParsePhysicalAddress(cfg.Adapter.PhysAddr)
		if err := session.SetPhysAddr(phys); err != nil {
			log.Fatal("set physical address failed", "addr", phys, "error", err)
		}
	}

	if err := claimAddress(session, &cfg, log); err != nil {
		log.Fatal("logical address claim failed", "error", err)
	}

	var bridge *cecd.Bridge
	if cfg.MQTT.Broker != "" {
		bridge = cecd.NewBridge(session, cfg.MQTT, log)
		if err := bridge.Start(); err != nil {
			log.Fatal("mqtt bridge start failed", "broker", cfg.MQTT.Broker, "error", err)
		}
		defer bridge.Stop()

		if err := session.AddMessageHandler(bridge.PublishMessage); err != nil {
			log.Fatal("message handler setup failed", "error", err)
		}
		session.AddStateHandler(func(prev, next device.AdapterState, change cec.StateChange) {
			bridge.PublishEvent(cec.Event{Type: cec.EventStateChange, StateChange: change})
		})
	}

	var server *cecd.Server
	if cfg.HTTP.Addr != "" {
		server = cecd.NewServer(session, cfg.HTTP, log)
		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Fatal("http server failed", "error", err)
			}
		}()
	}

	exitSig := make(chan os.Signal, 1)
	signal.Notify(exitSig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	<-exitSig

	log.Info("exit signal received")

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn("http shutdown incomplete", "error", err)
		}
	}

	log.Info("shutdown finished")
}

// claimAddress clears any stale claims and submits the configured role.
// An adapter still waiting for a physical address keeps the claim
// pending; the state tracker reports when it lands.
func claimAddress(session *device.Session, cfg *cecd.Config, log logger.Logger) error {
	claim, err := cfg.Claim()
	if err != nil {
		return err
	}

	// A cold adapter may not have read the sink's EDID yet; give the
	// physical address a moment to land before claiming against it.
	if session.State().IsUnconfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := session.WaitState(ctx, device.PhysAddrSetState); err != nil {
			log.Warn("no physical address yet, claiming anyway", "error", err)
		}
	}

	if _, err := session.SetLogAddrs(&cec.LogAddrsRequest{}); err != nil {
		return err
	}

	result, err := session.SetLogAddrs(&cec.LogAddrsRequest{
		Version:  cec.Version1_4,
		VendorID: cec.VendorIDNone,
		OSDName:  cfg.Adapter.OSDName,
		Claims:   []cec.AddressClaim{claim},
	})
	if err != nil {
		return err
	}

	log.Info("logical address claimed", "result", result.String())

	return nil
}
