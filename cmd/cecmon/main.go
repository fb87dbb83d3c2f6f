// cecmon watches a CEC bus the way tcpdump watches a network: it puts
// the adapter handle into monitor mode and prints every message and
// adapter event it sees. Monitor modes need elevated privilege.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/device"
	"github.com/opencec/go-cec/logger"
)

func main() {
	devicePath := flag.String("device", "/dev/cec0", "CEC adapter path")
	all := flag.Bool("all", false, "monitor traffic between other devices too (needs MONITOR_ALL)")
	frames := flag.Bool("frames", false, "print raw frame bytes instead of decoded messages")
	flag.Parse()

	log := logger.NewSlog(logger.InfoLevel, false)

	dev, err := device.OpenDevice(*devicePath, false)
	if err != nil {
		log.Fatal("adapter open failed", "device", *devicePath, "error", err)
	}
	defer dev.Close()

	caps, err := dev.Caps()
	if err != nil {
		log.Fatal("capability query failed", "error", err)
	}
	fmt.Printf("driver %s adapter %s caps %s\n", caps.Driver, caps.Name, caps.Capabilities)

	follower := cec.FollowerMonitor
	if *all {
		follower = cec.FollowerMonitorAll
	}

	mode := cec.Mode{Initiator: cec.InitiatorNone, Follower: follower}
	if err := mode.Validate(caps.Capabilities); err != nil {
		log.Fatal("monitor mode not available", "error", err)
	}
	if err := dev.SetMode(mode); err != nil {
		log.Fatal("monitor mode rejected", "mode", mode, "error", err)
	}

	done := make(chan struct{})
	go watchEvents(dev, done)
	go watchMessages(dev, *frames, done)

	exitSig := make(chan os.Signal, 1)
	signal.Notify(exitSig, syscall.SIGINT, syscall.SIGTERM)
	<-exitSig

	close(done)
}

func watchEvents(dev *device.Device, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		ev, err := dev.DequeueEvent()
		if err != nil {
			if errors.Is(err, device.ErrClosed) {
				return
			}
			continue
		}

		switch ev.Type {
		case cec.EventStateChange:
			fmt.Printf("evt state phys=%s mask=%s\n",
				ev.StateChange.PhysAddr, ev.StateChange.LogAddrMask)
		case cec.EventLostMsgs:
			fmt.Printf("evt lost %d messages\n", ev.LostMsgs.Count)
		default:
			fmt.Printf("evt %s\n", ev.Type)
		}
	}
}

func watchMessages(dev *device.Device, frames bool, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		msg, err := dev.Receive(time.Second)
		if err != nil {
			if errors.Is(err, device.ErrClosed) {
				return
			}
			continue
		}

		if frames {
			fmt.Printf("msg %s\n", msg.FrameString())
			continue
		}
		fmt.Printf("msg %s %x\n", msg, msg.Parameters())
	}
}
