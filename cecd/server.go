package cecd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/device"
	"github.com/opencec/go-cec/logger"
)

// Controller is the slice of the session API the daemon drives. It is
// satisfied by *device.Session.
type Controller interface {
	State() device.AdapterState
	PhysAddr() (cec.PhysicalAddress, error)
	LogAddrs() (cec.LogAddrs, error)
	ClaimedMask() cec.LogAddrMask

	TransmitMessage(msg *cec.Message) error
	GetPowerStatus(from, to cec.LogicalAddress) (cec.PowerStatus, error)
	TurnOn(from, to cec.LogicalAddress) error
	Standby(from, to cec.LogicalAddress) error
	Keypress(from, to cec.LogicalAddress, key cec.UserControlCode) error
}

var _ Controller = (*device.Session)(nil)

// Server exposes a Controller over the REST API.
type Server struct {
	ctrl   Controller
	logger logger.Logger
	http   *http.Server
}

// NewServer builds the REST server around the controller. Start it with
// ListenAndServe and stop it with Shutdown.
func NewServer(ctrl Controller, cfg HTTPConfig, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}

	s := &Server{ctrl: ctrl, logger: log}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Router returns the API routes, exposed separately so tests can drive
// them without a listener.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.healthHandler).Methods("GET")
	r.HandleFunc("/api/adapter", s.adapterHandler).Methods("GET")

	r.HandleFunc("/api/power/on", s.powerOnHandler).Methods("POST")
	r.HandleFunc("/api/power/on/{address}", s.powerOnHandler).Methods("POST")
	r.HandleFunc("/api/power/off", s.powerOffHandler).Methods("POST")
	r.HandleFunc("/api/power/off/{address}", s.powerOffHandler).Methods("POST")
	r.HandleFunc("/api/power/status", s.powerStatusHandler).Methods("GET")
	r.HandleFunc("/api/power/status/{address}", s.powerStatusHandler).Methods("GET")

	r.HandleFunc("/api/key", s.sendKeyHandler).Methods("POST")
	r.HandleFunc("/api/command", s.rawCommandHandler).Methods("POST")

	return r
}

// ListenAndServe blocks serving the API until Shutdown or a listener
// failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, response{Status: "error", Message: message})
}

func respondSuccess(w http.ResponseWriter, message string, data any) {
	respondJSON(w, http.StatusOK, response{Status: "success", Message: message, Data: data})
}

// source picks the initiator address for outgoing traffic: the first
// claimed logical address, or unregistered when nothing is claimed yet.
func (s *Server) source() cec.LogicalAddress {
	if addrs := s.ctrl.ClaimedMask().Addresses(); len(addrs) > 0 {
		return addrs[0]
	}
	return cec.UnregisteredBroadcast
}

// destination resolves the optional {address} path variable, defaulting
// to the TV.
func destination(r *http.Request) (cec.LogicalAddress, error) {
	addrStr := mux.Vars(r)["address"]
	if addrStr == "" {
		return cec.TV, nil
	}

	addr, err := strconv.Atoi(addrStr)
	if err != nil || addr < 0 || addr > 15 {
		return cec.TV, fmt.Errorf("invalid logical address %q", addrStr)
	}
	return cec.LogicalAddress(addr), nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, "service is healthy", map[string]any{
		"state": s.ctrl.State().String(),
	})
}

func (s *Server) adapterHandler(w http.ResponseWriter, r *http.Request) {
	phys, err := s.ctrl.PhysAddr()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	addrs, err := s.ctrl.LogAddrs()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	names := make([]string, 0, len(addrs.Addresses))
	for _, a := range addrs.Addresses {
		names = append(names, a.String())
	}

	respondSuccess(w, "adapter info retrieved", map[string]any{
		"state":             s.ctrl.State().String(),
		"physical_address":  phys.String(),
		"logical_addresses": names,
		"osd_name":          addrs.OSDName,
	})
}

func (s *Server) powerOnHandler(w http.ResponseWriter, r *http.Request) {
	to, err := destination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ctrl.TurnOn(s.source(), to); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondSuccess(w, fmt.Sprintf("power on sent to %s", to), nil)
}

func (s *Server) powerOffHandler(w http.ResponseWriter, r *http.Request) {
	to, err := destination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ctrl.Standby(s.source(), to); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondSuccess(w, fmt.Sprintf("standby sent to %s", to), nil)
}

func (s *Server) powerStatusHandler(w http.ResponseWriter, r *http.Request) {
	to, err := destination(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := s.ctrl.GetPowerStatus(s.source(), to)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	respondSuccess(w, "power status retrieved", map[string]any{
		"address": int(to),
		"status":  status.String(),
	})
}

// keyNames maps the friendly names accepted by /api/key and the MQTT
// key topic to user control codes.
var keyNames = map[string]cec.UserControlCode{
	"select":      cec.KeySelect,
	"up":          cec.KeyUp,
	"down":        cec.KeyDown,
	"left":        cec.KeyLeft,
	"right":       cec.KeyRight,
	"back":        cec.KeyExit,
	"exit":        cec.KeyExit,
	"home":        cec.KeyRootMenu,
	"menu":        cec.KeySetupMenu,
	"enter":       cec.KeyEnter,
	"power":       cec.KeyPower,
	"volumeup":    cec.KeyVolumeUp,
	"volumedown":  cec.KeyVolumeDown,
	"mute":        cec.KeyMute,
	"play":        cec.KeyPlay,
	"pause":       cec.KeyPause,
	"stop":        cec.KeyStop,
	"rewind":      cec.KeyRewind,
	"fastforward": cec.KeyFastForward,
	"channelup":   cec.KeyChannelUp,
	"channeldown": cec.KeyChannelDown,
}

func lookupKey(name string, keycode int) (cec.UserControlCode, error) {
	if name != "" {
		key, ok := keyNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown key name %q", name)
		}
		return key, nil
	}
	if keycode < 0 || keycode > 0xff {
		return 0, fmt.Errorf("keycode %d out of range", keycode)
	}
	return cec.UserControlCode(keycode), nil
}

func (s *Server) sendKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address int    `json:"address"`
		Key     string `json:"key"`
		Keycode int    `json:"keycode"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address < 0 || req.Address > 15 {
		respondError(w, http.StatusBadRequest, "invalid logical address")
		return
	}
	if req.Key == "" && req.Keycode == 0 {
		respondError(w, http.StatusBadRequest, "either 'key' or 'keycode' must be provided")
		return
	}

	key, err := lookupKey(req.Key, req.Keycode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ctrl.Keypress(s.source(), cec.LogicalAddress(req.Address), key); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondSuccess(w, "key sent", nil)
}

// rawCommandHandler transmits an arbitrary frame given in colon-separated
// hex text form, e.g. {"frame": "40:36"}.
func (s *Server) rawCommandHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Frame string `json:"frame"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := cec.ParseFrame(req.Frame)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.ctrl.TransmitMessage(msg); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondSuccess(w, fmt.Sprintf("frame %s sent", msg.FrameString()), nil)
}
