package cecd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/logger"
)

// Bridge connects a Controller to an MQTT broker. Inbound bus traffic
// and adapter state changes are published under the configured topic
// prefix; commands arrive on the cmd subtree:
//
//	<prefix>/rx             published, frame text of inbound messages
//	<prefix>/event/state    published, JSON adapter state snapshots
//	<prefix>/cmd/power      subscribed, "on"/"off" with optional address
//	<prefix>/cmd/key        subscribed, key name or decimal keycode
//	<prefix>/cmd/tx         subscribed, frame text to transmit
type Bridge struct {
	ctrl   Controller
	client mqtt.Client
	prefix string
	logger logger.Logger
}

// NewBridge prepares the MQTT bridge; Start connects and subscribes.
func NewBridge(ctrl Controller, cfg MQTTConfig, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.GetLogger()
	}

	b := &Bridge{
		ctrl:   ctrl,
		prefix: cfg.TopicPrefix,
		logger: log,
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "cecd-" + uuid.New().String()[:8]
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt connection lost", "error", err)
		})

	b.client = mqtt.NewClient(opts)

	return b
}

// Start connects to the broker. Subscriptions are installed from the
// connect handler so they survive reconnects.
func (b *Bridge) Start() error {
	token := b.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect failed: %w", err)
	}
	return nil
}

// Stop disconnects from the broker, allowing in-flight publishes a
// short drain window.
func (b *Bridge) Stop() {
	b.client.Disconnect(250)
}

func (b *Bridge) onConnect(client mqtt.Client) {
	b.logger.Info("mqtt connected", "prefix", b.prefix)

	subs := map[string]mqtt.MessageHandler{
		b.topic("cmd/power"): b.handlePower,
		b.topic("cmd/key"):   b.handleKey,
		b.topic("cmd/tx"):    b.handleTransmit,
	}
	for topic, handler := range subs {
		if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			b.logger.Error("mqtt subscribe failed", "topic", topic, "error", token.Error())
		}
	}
}

func (b *Bridge) topic(suffix string) string {
	return b.prefix + "/" + suffix
}

// PublishMessage publishes an inbound bus message as frame text. Wire it
// into the session with AddMessageHandler.
func (b *Bridge) PublishMessage(msg *cec.Message) {
	b.client.Publish(b.topic("rx"), 0, false, msg.FrameString())
}

// PublishEvent publishes adapter state changes as a JSON snapshot. Wire
// it into the session's event loop.
func (b *Bridge) PublishEvent(ev cec.Event) {
	if ev.Type != cec.EventStateChange {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"physical_address": ev.StateChange.PhysAddr.String(),
		"claimed_mask":     uint16(ev.StateChange.LogAddrMask),
	})
	if err != nil {
		return
	}
	b.client.Publish(b.topic("event/state"), 0, true, payload)
}

// handlePower accepts "on" or "off", optionally followed by a logical
// address, e.g. "on 5". No address targets the TV.
func (b *Bridge) handlePower(_ mqtt.Client, msg mqtt.Message) {
	fields := strings.Fields(strings.ToLower(string(msg.Payload())))
	if len(fields) == 0 {
		b.logger.Warn("empty power command")
		return
	}

	to := cec.TV
	if len(fields) > 1 {
		addr, err := strconv.Atoi(fields[1])
		if err != nil || addr < 0 || addr > 15 {
			b.logger.Warn("invalid power command address", "payload", string(msg.Payload()))
			return
		}
		to = cec.LogicalAddress(addr)
	}

	var err error
	switch fields[0] {
	case "on":
		err = b.ctrl.TurnOn(b.source(), to)
	case "off", "standby":
		err = b.ctrl.Standby(b.source(), to)
	default:
		b.logger.Warn("unknown power command", "payload", string(msg.Payload()))
		return
	}
	if err != nil {
		b.logger.Error("power command failed", "to", to, "error", err)
	}
}

// handleKey accepts a key name from the shared name table, or a decimal
// keycode, optionally followed by a logical address.
func (b *Bridge) handleKey(_ mqtt.Client, msg mqtt.Message) {
	fields := strings.Fields(string(msg.Payload()))
	if len(fields) == 0 {
		b.logger.Warn("empty key command")
		return
	}

	to := cec.TV
	if len(fields) > 1 {
		addr, err := strconv.Atoi(fields[1])
		if err != nil || addr < 0 || addr > 15 {
			b.logger.Warn("invalid key command address", "payload", string(msg.Payload()))
			return
		}
		to = cec.LogicalAddress(addr)
	}

	var key cec.UserControlCode
	if code, err := strconv.Atoi(fields[0]); err == nil {
		key, err = lookupKey("", code)
		if err != nil {
			b.logger.Warn("invalid keycode", "payload", string(msg.Payload()), "error", err)
			return
		}
	} else {
		key, err = lookupKey(fields[0], 0)
		if err != nil {
			b.logger.Warn("unknown key name", "payload", string(msg.Payload()), "error", err)
			return
		}
	}

	if err := b.ctrl.Keypress(b.source(), to, key); err != nil {
		b.logger.Error("key command failed", "to", to, "key", key, "error", err)
	}
}

// handleTransmit transmits a raw frame given as colon-separated hex.
func (b *Bridge) handleTransmit(_ mqtt.Client, msg mqtt.Message) {
	frame, err := cec.ParseFrame(string(msg.Payload()))
	if err != nil {
		b.logger.Warn("invalid tx frame", "payload", string(msg.Payload()), "error", err)
		return
	}

	if err := b.ctrl.TransmitMessage(frame); err != nil {
		b.logger.Error("tx frame failed", "frame", frame.FrameString(), "error", err)
	}
}

func (b *Bridge) source() cec.LogicalAddress {
	if addrs := b.ctrl.ClaimedMask().Addresses(); len(addrs) > 0 {
		return addrs[0]
	}
	return cec.UnregisteredBroadcast
}
