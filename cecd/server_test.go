package cecd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/device"
	"github.com/opencec/go-cec/logger"
)

// stubController records the calls the handlers make.
type stubController struct {
	mask cec.LogAddrMask

	turnedOn   []cec.LogicalAddress
	standbys   []cec.LogicalAddress
	keypresses []cec.UserControlCode
	frames     []string

	powerStatus cec.PowerStatus
	err         error
}

var _ Controller = (*stubController)(nil)

func (c *stubController) State() device.AdapterState { return device.ClaimedState }

func (c *stubController) PhysAddr() (cec.PhysicalAddress, error) {
	return cec.PhysicalAddress(0x1000), c.err
}

func (c *stubController) LogAddrs() (cec.LogAddrs, error) {
	return cec.LogAddrs{OSDName: "cecd", Mask: c.mask, Addresses: c.mask.Addresses()}, c.err
}

func (c *stubController) ClaimedMask() cec.LogAddrMask { return c.mask }

func (c *stubController) TransmitMessage(msg *cec.Message) error {
	c.frames = append(c.frames, msg.FrameString())
	return c.err
}

func (c *stubController) GetPowerStatus(from, to cec.LogicalAddress) (cec.PowerStatus, error) {
	return c.powerStatus, c.err
}

func (c *stubController) TurnOn(from, to cec.LogicalAddress) error {
	c.turnedOn = append(c.turnedOn, to)
	return c.err
}

func (c *stubController) Standby(from, to cec.LogicalAddress) error {
	c.standbys = append(c.standbys, to)
	return c.err
}

func (c *stubController) Keypress(from, to cec.LogicalAddress, key cec.UserControlCode) error {
	c.keypresses = append(c.keypresses, key)
	return c.err
}

func newTestServer(ctrl *stubController) *Server {
	return NewServer(ctrl, HTTPConfig{}, logger.NewSlog(logger.ErrorLevel, false))
}

func doJSON(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return rec, resp
}

func TestServer_Health(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	rec, resp := doJSON(t, newTestServer(ctrl), http.MethodGet, "/api/health", nil)

	require.Equal(http.StatusOK, rec.Code)
	require.Equal("success", resp.Status)
}

func TestServer_Adapter(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	rec, resp := doJSON(t, newTestServer(ctrl), http.MethodGet, "/api/adapter", nil)

	require.Equal(http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	require.Equal("1.0.0.0", data["physical_address"])
	require.Equal("cecd", data["osd_name"])
}

func TestServer_PowerOn(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	s := newTestServer(ctrl)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/power/on", nil)
	require.Equal(http.StatusOK, rec.Code)
	require.Equal([]cec.LogicalAddress{cec.TV}, ctrl.turnedOn)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/power/on/5", nil)
	require.Equal(http.StatusOK, rec.Code)
	require.Equal(cec.Audiosystem, ctrl.turnedOn[1])

	rec, resp := doJSON(t, s, http.MethodPost, "/api/power/on/99", nil)
	require.Equal(http.StatusBadRequest, rec.Code)
	require.Equal("error", resp.Status)
}

func TestServer_PowerOff(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	rec, _ := doJSON(t, newTestServer(ctrl), http.MethodPost, "/api/power/off/4", nil)

	require.Equal(http.StatusOK, rec.Code)
	require.Equal([]cec.LogicalAddress{cec.Playback1}, ctrl.standbys)
}

func TestServer_PowerStatus(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask(), powerStatus: cec.PowerStandby}
	rec, resp := doJSON(t, newTestServer(ctrl), http.MethodGet, "/api/power/status", nil)

	require.Equal(http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	require.Equal(cec.PowerStandby.String(), data["status"])
}

func TestServer_SendKey(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	s := newTestServer(ctrl)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/key", map[string]any{"address": 0, "key": "volumeup"})
	require.Equal(http.StatusOK, rec.Code)
	require.Equal([]cec.UserControlCode{cec.KeyVolumeUp}, ctrl.keypresses)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/key", map[string]any{"address": 0, "keycode": 0x44})
	require.Equal(http.StatusOK, rec.Code)
	require.Equal(cec.KeyPlay, ctrl.keypresses[1])

	rec, _ = doJSON(t, s, http.MethodPost, "/api/key", map[string]any{"address": 0, "key": "bogus"})
	require.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/key", map[string]any{"address": 0})
	require.Equal(http.StatusBadRequest, rec.Code)
}

func TestServer_RawCommand(t *testing.T) {
	require := require.New(t)

	ctrl := &stubController{mask: cec.Playback1.Mask()}
	s := newTestServer(ctrl)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/command", map[string]any{"frame": "40:36"})
	require.Equal(http.StatusOK, rec.Code)
	require.Equal([]string{"40:36"}, ctrl.frames)

	rec, _ = doJSON(t, s, http.MethodPost, "/api/command", map[string]any{"frame": "not-hex"})
	require.Equal(http.StatusBadRequest, rec.Code)
}

func TestServer_SourceFallsBackToUnregistered(t *testing.T) {
	require := require.New(t)

	s := newTestServer(&stubController{})
	require.Equal(cec.UnregisteredBroadcast, s.source())
}
